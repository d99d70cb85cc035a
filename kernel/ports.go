package kernel

import (
	"sort"
	"strconv"

	"vkernel/sys"
)

// port is a named rendezvous queue with a single owner. The owner invariant
// holds from listen to unlisten or owner termination; buffered messages are
// discarded with the entry.
type port struct {
	key   string
	owner int
	queue []*sys.PortMessage
}

// portFor looks up a port by canonical key.
func (k *Kernel) portFor(key string) (*port, bool) {
	pt, ok := k.ports[key]
	return pt, ok
}

// claimPort gives pid ownership of key. Returns false when another process
// already owns it; re-claiming an owned port is an idempotent success.
func (k *Kernel) claimPort(key string, pid int) bool {
	if pt, ok := k.ports[key]; ok {
		return pt.owner == pid
	}
	k.ports[key] = &port{key: key, owner: pid}
	return true
}

// releasePort deletes key if pid owns it, discarding the queue.
func (k *Kernel) releasePort(key string, pid int) bool {
	pt, ok := k.ports[key]
	if !ok || pt.owner != pid {
		return false
	}
	delete(k.ports, key)
	return true
}

// dropPortsOwnedBy removes every port pid owns. Runs during reap so the
// owner invariant (owner_pid always names a live process) survives
// termination cleanup.
func (k *Kernel) dropPortsOwnedBy(pid int) {
	for key, pt := range k.ports {
		if pt.owner == pid {
			delete(k.ports, key)
		}
	}
}

// sortedPortKeys orders port keys numerically where both parse as integers,
// lexically otherwise, so snapshots are deterministic.
func (k *Kernel) sortedPortKeys() []string {
	keys := make([]string, 0, len(k.ports))
	for key := range k.ports {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}
