package kernel

import "vkernel/sys"

// Tick runs one scheduling step: advance the clock, resolve timed unblocks,
// select the most eager READY process, resume it with the result of its
// previous syscall, and dispatch whatever it yields. Exactly one process
// advances by exactly one syscall per tick; when Tick returns, no process
// is RUNNING.
func (k *Kernel) Tick() {
	k.now += k.opts.TickMS
	k.timedUnblock()

	p := k.pickNext()
	if p == nil {
		return
	}
	k.runOnce(p)
}

// timedUnblock resolves every time-based wait that has expired: sleeps whose
// wake time has arrived, and port receives whose deadline has passed. Runs
// before selection so a freshly woken process can win this very tick.
func (k *Kernel) timedUnblock() {
	for _, p := range k.procs {
		if p.state != StateBlocked {
			continue
		}
		switch p.blockReason {
		case BlockSleep:
			if p.wakeTime <= k.now {
				p.ready(true)
			}
		case BlockRecvPort:
			if p.hasDeadline && p.waitDeadline <= k.now {
				// Timed out with no message; nil is the sentinel.
				p.ready(nil)
			}
		}
	}
}

// pickNext selects the READY process with the highest priority. Ties go to
// the earliest entry in the process table, which is the lowest pid since
// pids are assigned monotonically.
func (k *Kernel) pickNext() *Process {
	var best *Process
	for _, p := range k.procs {
		if p.state != StateReady {
			continue
		}
		if best == nil || p.priority > best.priority {
			best = p
		}
	}
	return best
}

// runOnce resumes p and classifies the outcome: completion, crash, or a
// yielded syscall request.
func (k *Kernel) runOnce(p *Process) {
	p.state = StateRunning
	in := p.pending
	p.pending = nil

	res := p.routine.Step(in)
	switch res.Kind {
	case sys.StepDone:
		p.terminate(res.Code)
		k.logger.Debug("process exited", "pid", p.pid, "name", p.name, "exit_code", res.Code)

	case sys.StepCrash:
		// Routines cannot halt the kernel: log, mark terminated, move on.
		k.appendLog(p.pid, "Process crashed: "+res.Err.Error())
		p.terminate(1)

	case sys.StepYield:
		k.dispatch(p, res.Request)
	}
}
