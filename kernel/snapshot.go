package kernel

import "vkernel/sys"

// Read-only snapshots. All of them copy; holding a snapshot across ticks is
// safe, and taking one never mutates kernel state. The host reads these
// between ticks, and KINFO serves the same shapes to userland.

// DefaultLogLimit is how many log entries Logs returns when the caller does
// not say.
const DefaultLogLimit = 200

// ProcessTable returns one row per process in table order (ascending pid),
// terminated-but-unreaped processes included.
func (k *Kernel) ProcessTable() []sys.ProcessInfo {
	out := make([]sys.ProcessInfo, 0, len(k.procs))
	for _, p := range k.procs {
		out = append(out, sys.ProcessInfo{
			PID:         p.pid,
			Name:        p.name,
			Priority:    p.priority,
			State:       string(p.state),
			BlockReason: string(p.blockReason),
			WakeTime:    p.wakeTime,
			ExitCode:    p.exitCode,
			SpawnTime:   p.spawnTime,
		})
	}
	return out
}

// PortsTable returns one row per port, ordered by key (numeric keys
// numerically).
func (k *Kernel) PortsTable() []sys.PortInfo {
	keys := k.sortedPortKeys()
	out := make([]sys.PortInfo, 0, len(keys))
	for _, key := range keys {
		pt := k.ports[key]
		out = append(out, sys.PortInfo{
			Port:        pt.key,
			OwnerPID:    pt.owner,
			QueueLength: len(pt.queue),
		})
	}
	return out
}

// ListFiles returns one row per file, ordered by path, with a bounded
// content preview.
func (k *Kernel) ListFiles() []sys.FileInfo {
	stats := k.files.List()
	out := make([]sys.FileInfo, len(stats))
	for i, s := range stats {
		out[i] = sys.FileInfo{Path: s.Path, Size: s.Size, Preview: s.Preview}
	}
	return out
}

// Logs returns up to limit kernel log entries, most-recent-last. A
// non-positive limit means DefaultLogLimit.
func (k *Kernel) Logs(limit int) []sys.LogEntry {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return k.log.tail(limit)
}
