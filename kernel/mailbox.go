package kernel

import "vkernel/sys"

// Mailboxes are per-pid FIFO queues of direct messages. A mailbox exists
// from spawn until reap; sends to pids with no process buffer anyway. Such
// mail never reaches a process: pids are not reused after reap, and spawn
// starts every process with an empty mailbox.

// ensureMailbox registers a mailbox for pid if absent.
func (k *Kernel) ensureMailbox(pid int) {
	if _, ok := k.mailboxes[pid]; !ok {
		k.mailboxes[pid] = []*sys.Message{}
	}
}

// pushMail appends a message to pid's mailbox.
func (k *Kernel) pushMail(pid int, m *sys.Message) {
	k.ensureMailbox(pid)
	k.mailboxes[pid] = append(k.mailboxes[pid], m)
}

// popMail dequeues the oldest message in pid's mailbox whose sender matches
// from (0 matches any sender). Returns nil when nothing matches.
func (k *Kernel) popMail(pid int, from int) *sys.Message {
	queue := k.mailboxes[pid]
	for i, m := range queue {
		if from != 0 && m.From != from {
			continue
		}
		k.mailboxes[pid] = append(queue[:i:i], queue[i+1:]...)
		return m
	}
	return nil
}
