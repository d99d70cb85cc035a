package kernel

import (
	"fmt"

	"vkernel/sys"
)

// dispatch handles one yielded syscall request. Every path leaves p in
// exactly one of READY (pending result set), BLOCKED (wait fields set), or
// TERMINATED. Side effects on other kernel state (mailbox appends, port
// queues, wakeups) happen synchronously here; a woken process still runs
// no earlier than the next tick.
func (k *Kernel) dispatch(p *Process, req *sys.Request) {
	if req == nil {
		k.unknownSyscall(p, "<nil>")
		return
	}

	switch req.Type {
	case sys.TypeSleep:
		k.sysSleep(p, req)
	case sys.TypeLog:
		k.appendLog(p.pid, req.Message)
		p.ready(true)
	case sys.TypeGetPID:
		p.ready(p.pid)
	case sys.TypeSend:
		k.sysSend(p, req)
	case sys.TypeRecv:
		k.sysRecv(p, req)
	case sys.TypeOpen:
		k.sysOpen(p, req)
	case sys.TypeRead:
		k.sysRead(p, req)
	case sys.TypeWrite:
		k.sysWrite(p, req)
	case sys.TypeClose:
		p.closeFD(req.FD)
		p.ready(0)
	case sys.TypeExec:
		k.sysExec(p, req)
	case sys.TypeExit:
		p.terminate(req.Code)
	case sys.TypeHeapSet:
		p.heap[req.Key] = req.Value
		p.ready(true)
	case sys.TypeHeapGet:
		p.ready(p.heap[req.Key])
	case sys.TypeListen:
		p.ready(k.claimPort(sys.PortKey(req.Port), p.pid))
	case sys.TypeUnlisten:
		p.ready(k.releasePort(sys.PortKey(req.Port), p.pid))
	case sys.TypeSendPort:
		k.sysSendPort(p, req)
	case sys.TypeRecvPort:
		k.sysRecvPort(p, req)
	case sys.TypeSpawn:
		p.ready(k.spawnNamed(req.Program, req.Priority, req.Args))
	case sys.TypeKinfo:
		k.sysKinfo(p, req)
	case sys.TypeListFiles:
		p.ready(k.ListFiles())
	case sys.TypeReadFile:
		k.sysReadFile(p, req)
	case sys.TypeWriteFile:
		k.files.Write(req.Path, req.Data)
		p.ready(true)
	case sys.TypeUnlink:
		p.ready(k.files.Unlink(req.Path))
	case sys.TypeListPorts:
		p.ready(k.PortsTable())
	case sys.TypeKill:
		k.sysKill(p, req)
	default:
		k.unknownSyscall(p, string(req.Type))
	}
}

// unknownSyscall is the no-op path for unrecognized requests: warn, return
// the null sentinel, keep the process runnable.
func (k *Kernel) unknownSyscall(p *Process, typ string) {
	k.log.append(sys.LogEntry{Time: k.now, PID: p.pid, Message: "Unknown syscall: " + typ})
	k.logger.Warn("unknown syscall", "pid", p.pid, "type", typ)
	p.ready(nil)
}

func (k *Kernel) sysSleep(p *Process, req *sys.Request) {
	p.block(BlockSleep)
	p.wakeTime = k.now + req.DurationMS
}

// sysSend appends to the target mailbox and wakes a matching blocked
// receiver. Delivery hands over the oldest message the receiver's filter
// accepts, which is not necessarily the one just sent. Sends to unknown
// pids succeed and buffer; pids are never reused, so such messages are
// effectively lost.
func (k *Kernel) sysSend(p *Process, req *sys.Request) {
	k.pushMail(req.TargetPID, &sys.Message{From: p.pid, Payload: req.Payload, Time: k.now})

	if tgt, ok := k.byPID[req.TargetPID]; ok &&
		tgt.state == StateBlocked && tgt.blockReason == BlockRecvMailbox &&
		(tgt.waitFrom == 0 || tgt.waitFrom == p.pid) {
		if m := k.popMail(tgt.pid, tgt.waitFrom); m != nil {
			tgt.ready(m)
		}
	}
	p.ready(true)
}

// sysRecv dequeues from the caller's mailbox. Without a sender filter the
// call never blocks: empty mailboxes return the nil sentinel immediately.
// With a filter the caller blocks until a matching send arrives.
func (k *Kernel) sysRecv(p *Process, req *sys.Request) {
	if !req.HasFrom {
		if m := k.popMail(p.pid, 0); m != nil {
			p.ready(m)
		} else {
			p.ready(nil)
		}
		return
	}

	if m := k.popMail(p.pid, req.From); m != nil {
		p.ready(m)
		return
	}
	p.block(BlockRecvMailbox)
	p.waitFrom = req.From
}

// sysSendPort enqueues on a port and wakes its owner when the owner is
// blocked receiving on that port.
func (k *Kernel) sysSendPort(p *Process, req *sys.Request) {
	key := sys.PortKey(req.Port)
	pt, ok := k.portFor(key)
	if !ok {
		p.ready(false)
		return
	}

	pt.queue = append(pt.queue, &sys.PortMessage{FromPID: p.pid, Payload: req.Payload, Time: k.now})

	if owner, ok := k.byPID[pt.owner]; ok &&
		owner.state == StateBlocked && owner.blockReason == BlockRecvPort &&
		owner.waitPort == key {
		m := pt.queue[0]
		pt.queue = pt.queue[1:]
		owner.ready(m)
	}
	p.ready(true)
}

// sysRecvPort is owner-gated: non-owners (and receives on ports that do not
// exist) get the nil sentinel and stay runnable. An owner with an empty
// queue blocks, optionally with a deadline resolved by the timed-unblock
// pass.
func (k *Kernel) sysRecvPort(p *Process, req *sys.Request) {
	key := sys.PortKey(req.Port)
	pt, ok := k.portFor(key)
	if !ok || pt.owner != p.pid {
		p.ready(nil)
		return
	}

	if len(pt.queue) > 0 {
		m := pt.queue[0]
		pt.queue = pt.queue[1:]
		p.ready(m)
		return
	}

	p.block(BlockRecvPort)
	p.waitPort = key
	if req.HasTimeout {
		p.hasDeadline = true
		p.waitDeadline = k.now + req.TimeoutMS
	}
}

// sysExec replaces the caller's routine in place: same pid, descriptors,
// mailbox, heap, and owned ports (queued messages included). Only the
// routine and the pending result change.
func (k *Kernel) sysExec(p *Process, req *sys.Request) {
	program, ok := k.programs[req.Program]
	if !ok {
		p.ready(-1)
		return
	}

	p.routine.Close()
	p.routine = sys.NewRoutine(program, p.calls, req.Args)
	p.name = req.Program
	p.ready(0)
}

func (k *Kernel) sysKinfo(p *Process, req *sys.Request) {
	switch req.Kind {
	case sys.InfoPS:
		p.ready(k.ProcessTable())
	case sys.InfoPorts:
		p.ready(k.PortsTable())
	case sys.InfoVFS:
		p.ready(k.ListFiles())
	default:
		k.logger.Warn("unknown kinfo kind", "pid", p.pid, "kind", string(req.Kind))
		p.ready(nil)
	}
}

// sysKill forces the target to TERMINATED with exit code -1 and clears its
// block state. It succeeds even when the target does not exist.
func (k *Kernel) sysKill(p *Process, req *sys.Request) {
	if tgt, ok := k.byPID[req.TargetPID]; ok && tgt.state != StateTerminated {
		signal := req.Signal
		if signal == "" {
			signal = "TERM"
		}
		k.appendLog(p.pid, fmt.Sprintf("Killed process %d (%s) with signal %s", tgt.pid, tgt.name, signal))
		tgt.terminate(-1)
	}
	// A process that killed itself stays terminated.
	if p.state != StateTerminated {
		p.ready(true)
	}
}
