package sys

import (
	"strings"
	"testing"
)

func TestRoutine_YieldSequence(t *testing.T) {
	program := func(c *Calls, args []string) int {
		pid := c.GetPID()
		c.Log("hello from " + args[0])
		return pid + 1
	}

	c := NewCalls(7)
	r := NewRoutine(program, c, []string{"test"})

	res := r.Step(nil)
	if res.Kind != StepYield {
		t.Fatalf("first step: Kind = %v, want StepYield", res.Kind)
	}
	if res.Request.Type != TypeGetPID {
		t.Fatalf("first request: Type = %v, want GETPID", res.Request.Type)
	}

	res = r.Step(7)
	if res.Kind != StepYield {
		t.Fatalf("second step: Kind = %v, want StepYield", res.Kind)
	}
	if res.Request.Type != TypeLog {
		t.Fatalf("second request: Type = %v, want LOG", res.Request.Type)
	}
	if res.Request.Message != "hello from test" {
		t.Errorf("log message = %q, want %q", res.Request.Message, "hello from test")
	}

	res = r.Step(true)
	if res.Kind != StepDone {
		t.Fatalf("third step: Kind = %v, want StepDone", res.Kind)
	}
	if res.Code != 8 {
		t.Errorf("exit code = %d, want 8", res.Code)
	}
}

func TestRoutine_FirstResumeValueIgnored(t *testing.T) {
	program := func(c *Calls, args []string) int {
		return 0
	}

	r := NewRoutine(program, NewCalls(1), nil)
	res := r.Step("ignored")
	if res.Kind != StepDone || res.Code != 0 {
		t.Errorf("Step = %+v, want done with code 0", res)
	}
}

func TestRoutine_Crash(t *testing.T) {
	program := func(c *Calls, args []string) int {
		c.GetPID()
		panic("boom")
	}

	r := NewRoutine(program, NewCalls(1), nil)
	if res := r.Step(nil); res.Kind != StepYield {
		t.Fatalf("first step: Kind = %v, want StepYield", res.Kind)
	}

	res := r.Step(1)
	if res.Kind != StepCrash {
		t.Fatalf("second step: Kind = %v, want StepCrash", res.Kind)
	}
	if res.Err == nil || !strings.Contains(res.Err.Error(), "boom") {
		t.Errorf("crash error = %v, want to contain 'boom'", res.Err)
	}
}

func TestRoutine_StepAfterDone(t *testing.T) {
	program := func(c *Calls, args []string) int { return 3 }

	r := NewRoutine(program, NewCalls(1), nil)
	if res := r.Step(nil); res.Kind != StepDone || res.Code != 3 {
		t.Fatalf("Step = %+v, want done with code 3", res)
	}

	// Terminated is absorbing; a defensive re-step must not hang.
	if res := r.Step(nil); res.Kind != StepDone {
		t.Errorf("re-step: Kind = %v, want StepDone", res.Kind)
	}
}

func TestRoutine_CloseMidway(t *testing.T) {
	resumed := false
	program := func(c *Calls, args []string) int {
		c.Sleep(100)
		resumed = true
		return 0
	}

	r := NewRoutine(program, NewCalls(1), nil)
	if res := r.Step(nil); res.Kind != StepYield || res.Request.Type != TypeSleep {
		t.Fatalf("Step = %+v, want a SLEEP yield", res)
	}

	r.Close()
	r.Close() // idempotent

	if resumed {
		t.Error("routine body continued past Close")
	}
}

func TestRoutine_CloseBeforeStart(t *testing.T) {
	program := func(c *Calls, args []string) int { return 0 }

	r := NewRoutine(program, NewCalls(1), nil)
	r.Close()

	if res := r.Step(nil); res.Kind != StepDone {
		t.Errorf("step after close: Kind = %v, want StepDone", res.Kind)
	}
}

func TestCalls_RequestShapes(t *testing.T) {
	tests := []struct {
		name  string
		call  func(c *Calls)
		check func(t *testing.T, req *Request)
	}{
		{
			name: "sleep",
			call: func(c *Calls) { c.Sleep(150) },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeSleep || req.DurationMS != 150 {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "send",
			call: func(c *Calls) { c.Send(9, "payload") },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeSend || req.TargetPID != 9 || req.Payload != "payload" {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "recv without filter",
			call: func(c *Calls) { c.Recv() },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeRecv || req.HasFrom {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "recv with filter",
			call: func(c *Calls) { c.RecvFrom(4) },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeRecv || !req.HasFrom || req.From != 4 {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "listen normalizes numeric port",
			call: func(c *Calls) { c.Listen(8080) },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeListen || req.Port != "8080" {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "recv from port with timeout",
			call: func(c *Calls) { c.RecvFromPortTimeout("7000", 100) },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeRecvPort || req.Port != "7000" || !req.HasTimeout || req.TimeoutMS != 100 {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "spawn",
			call: func(c *Calls) { c.Spawn("ps", 2, "arg") },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeSpawn || req.Program != "ps" || req.Priority != 2 || len(req.Args) != 1 {
					t.Errorf("req = %+v", req)
				}
			},
		},
		{
			name: "kinfo",
			call: func(c *Calls) { c.Kinfo(InfoPS) },
			check: func(t *testing.T, req *Request) {
				if req.Type != TypeKinfo || req.Kind != InfoPS {
					t.Errorf("req = %+v", req)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalls(1)
			r := NewRoutine(func(c *Calls, args []string) int {
				tt.call(c)
				return 0
			}, c, nil)

			res := r.Step(nil)
			if res.Kind != StepYield {
				t.Fatalf("Kind = %v, want StepYield", res.Kind)
			}
			tt.check(t, res.Request)
			r.Close()
		})
	}
}
