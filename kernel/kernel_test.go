package kernel

import (
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"vkernel/sys"
)

// newTestKernel builds a kernel with quiet host streams.
func newTestKernel(opts Options) *Kernel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return New(opts)
}

// logLoop is a never-exiting program that logs msg every time it runs.
func logLoop(msg string) sys.Program {
	return func(c *sys.Calls, args []string) int {
		for {
			c.Log(msg)
		}
	}
}

// countLogs counts ring entries whose message equals msg.
func countLogs(k *Kernel, msg string) int {
	n := 0
	for _, e := range k.Logs(0) {
		if e.Message == msg {
			n++
		}
	}
	return n
}

// hasLogContaining reports whether any ring entry contains substr.
func hasLogContaining(k *Kernel, substr string) bool {
	for _, e := range k.Logs(0) {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestNew_Defaults(t *testing.T) {
	k := newTestKernel(Options{})

	if k.TickMS() != DefaultTickMS {
		t.Errorf("TickMS = %d, want %d", k.TickMS(), DefaultTickMS)
	}
	if k.Now() != 0 {
		t.Errorf("Now = %d, want 0", k.Now())
	}
	if k.ID() == "" {
		t.Error("expected a generated instance id")
	}
}

func TestSpawn_PIDsMonotonicNeverReused(t *testing.T) {
	k := newTestKernel(Options{})

	exit := func(c *sys.Calls, args []string) int { return 0 }
	p1 := k.Spawn(exit, SpawnOptions{Name: "a"})
	p2 := k.Spawn(exit, SpawnOptions{Name: "b"})
	p3 := k.Spawn(exit, SpawnOptions{Name: "c"})

	if p1 != 1 || p2 != 2 || p3 != 3 {
		t.Fatalf("pids = %d,%d,%d, want 1,2,3", p1, p2, p3)
	}

	// Run everything to completion and reap
	for i := 0; i < 5; i++ {
		k.Tick()
	}
	k.ReapTerminated()
	if len(k.ProcessTable()) != 0 {
		t.Fatalf("table not empty after reap: %v", k.ProcessTable())
	}

	if p4 := k.Spawn(exit, SpawnOptions{Name: "d"}); p4 != 4 {
		t.Errorf("pid after reap = %d, want 4 (no reuse)", p4)
	}
}

func TestSpawn_DefaultsNameAndPriority(t *testing.T) {
	k := newTestKernel(Options{})
	k.Spawn(logLoop("x"), SpawnOptions{})

	rows := k.ProcessTable()
	if len(rows) != 1 {
		t.Fatalf("len(table) = %d, want 1", len(rows))
	}
	if rows[0].Name != "proc1" {
		t.Errorf("default name = %q, want proc1", rows[0].Name)
	}
	if rows[0].Priority != 1 {
		t.Errorf("default priority = %d, want 1", rows[0].Priority)
	}
	if rows[0].State != string(StateReady) {
		t.Errorf("initial state = %q, want READY", rows[0].State)
	}
	if rows[0].SpawnTime.IsZero() {
		t.Error("spawn time not captured")
	}
}

func TestRegisterProgram_Validation(t *testing.T) {
	k := newTestKernel(Options{})

	if err := k.RegisterProgram("", logLoop("x")); err == nil {
		t.Error("expected an error for an empty name")
	}
	if err := k.RegisterProgram("loop", nil); err == nil {
		t.Error("expected an error for a nil factory")
	}
	if err := k.RegisterProgram("loop", logLoop("x")); err != nil {
		t.Errorf("RegisterProgram failed: %v", err)
	}
}

func TestSpawnNamed(t *testing.T) {
	k := newTestKernel(Options{})
	if err := k.RegisterProgram("loop", logLoop("x")); err != nil {
		t.Fatal(err)
	}

	pid, err := k.SpawnNamed("loop", SpawnOptions{Priority: 2})
	if err != nil || pid != 1 {
		t.Errorf("SpawnNamed = %d, %v, want 1, nil", pid, err)
	}

	if _, err := k.SpawnNamed("missing", SpawnOptions{}); err == nil {
		t.Error("expected an error for an unregistered program")
	}
}

func TestExit_RecordsCode(t *testing.T) {
	k := newTestKernel(Options{})

	k.Spawn(func(c *sys.Calls, args []string) int { return 7 }, SpawnOptions{Name: "ret"})
	k.Spawn(func(c *sys.Calls, args []string) int {
		c.Exit(5)
		return 99 // unreachable
	}, SpawnOptions{Name: "exit"})

	for i := 0; i < 4; i++ {
		k.Tick()
	}

	rows := k.ProcessTable()
	for _, r := range rows {
		if r.State != string(StateTerminated) {
			t.Fatalf("%s state = %s, want TERMINATED", r.Name, r.State)
		}
	}
	if rows[0].ExitCode != 7 {
		t.Errorf("return exit code = %d, want 7", rows[0].ExitCode)
	}
	if rows[1].ExitCode != 5 {
		t.Errorf("Exit syscall code = %d, want 5", rows[1].ExitCode)
	}
}

func TestCrash_ContainedAndLogged(t *testing.T) {
	k := newTestKernel(Options{})

	k.Spawn(func(c *sys.Calls, args []string) int {
		c.Log("about to crash")
		panic("boom")
	}, SpawnOptions{Name: "crasher"})
	k.Spawn(logLoop("survivor"), SpawnOptions{Name: "other"})

	for i := 0; i < 5; i++ {
		k.Tick()
	}

	rows := k.ProcessTable()
	if rows[0].State != string(StateTerminated) || rows[0].ExitCode != 1 {
		t.Errorf("crasher = %s/%d, want TERMINATED/1", rows[0].State, rows[0].ExitCode)
	}
	if !hasLogContaining(k, "Process crashed: boom") {
		t.Error("missing crash diagnostic in kernel log")
	}
	if countLogs(k, "survivor") == 0 {
		t.Error("kernel stopped scheduling after a crash")
	}
}

func TestKill_ForcesTermination(t *testing.T) {
	k := newTestKernel(Options{})

	victim := k.Spawn(func(c *sys.Calls, args []string) int {
		c.Sleep(10_000)
		return 0
	}, SpawnOptions{Name: "victim"})

	var killResult, killMissing bool
	k.Spawn(func(c *sys.Calls, args []string) int {
		killResult = c.Kill(victim, "TERM")
		killMissing = c.Kill(999, "TERM")
		return 0
	}, SpawnOptions{Name: "killer"})

	for i := 0; i < 5; i++ {
		k.Tick()
	}

	if !killResult || !killMissing {
		t.Errorf("kill results = %v/%v, want true/true (kill never fails)", killResult, killMissing)
	}
	rows := k.ProcessTable()
	if rows[0].State != string(StateTerminated) || rows[0].ExitCode != -1 {
		t.Errorf("victim = %s/%d, want TERMINATED/-1", rows[0].State, rows[0].ExitCode)
	}
	if rows[0].BlockReason != "" {
		t.Errorf("victim block reason = %q, want cleared", rows[0].BlockReason)
	}
	if !hasLogContaining(k, "Killed process "+strconv.Itoa(victim)) {
		t.Error("missing kill diagnostic in kernel log")
	}
}

func TestReap_RemovesProcessMailboxAndPorts(t *testing.T) {
	k := newTestKernel(Options{})

	server := k.Spawn(func(c *sys.Calls, args []string) int {
		c.Listen(5000)
		c.Listen(5001)
		for {
			c.RecvFromPort(5000)
		}
	}, SpawnOptions{Name: "server", Priority: 2})

	var sent bool
	killer := k.Spawn(func(c *sys.Calls, args []string) int {
		sent = c.Send(server, "pending mail")
		c.SendToPort(5001, "queued")
		c.Kill(server, "KILL")
		return 0
	}, SpawnOptions{Name: "killer"})

	for i := 0; i < 10; i++ {
		k.Tick()
	}
	if !sent {
		t.Fatal("send did not complete")
	}

	k.ReapTerminated()

	if _, ok := k.Process(server); ok {
		t.Error("server PCB survived reap")
	}
	if _, ok := k.Process(killer); ok {
		t.Error("killer PCB survived reap")
	}
	if _, ok := k.mailboxes[server]; ok {
		t.Error("server mailbox survived reap")
	}
	if len(k.PortsTable()) != 0 {
		t.Errorf("ports survived reap: %v", k.PortsTable())
	}
	if len(k.ProcessTable()) != 0 {
		t.Errorf("table not empty: %v", k.ProcessTable())
	}
}

func TestLogs_RingBounds(t *testing.T) {
	k := newTestKernel(Options{})

	for i := 0; i < 650; i++ {
		k.appendLog(0, "entry "+strconv.Itoa(i))
	}

	all := k.Logs(10_000)
	if len(all) != DefaultLogCapacity {
		t.Fatalf("ring holds %d entries, want %d", len(all), DefaultLogCapacity)
	}
	// Oldest dropped, most-recent-last
	if all[len(all)-1].Message != "entry 649" {
		t.Errorf("last = %q, want entry 649", all[len(all)-1].Message)
	}
	if all[0].Message != "entry "+strconv.Itoa(650-DefaultLogCapacity) {
		t.Errorf("first = %q, want entry %d", all[0].Message, 650-DefaultLogCapacity)
	}

	if got := len(k.Logs(0)); got != DefaultLogLimit {
		t.Errorf("default limit returned %d entries, want %d", got, DefaultLogLimit)
	}
	if got := len(k.Logs(3)); got != 3 {
		t.Errorf("Logs(3) returned %d entries", got)
	}
}

func TestUnknownSyscall_WarnsAndContinues(t *testing.T) {
	k := newTestKernel(Options{})
	pid := k.Spawn(logLoop("x"), SpawnOptions{Name: "p"})
	p := k.byPID[pid]

	p.state = StateRunning
	k.dispatch(p, &sys.Request{Type: "BOGUS"})

	if p.state != StateReady {
		t.Errorf("state = %s, want READY", p.state)
	}
	if p.pending != nil {
		t.Errorf("pending = %v, want nil sentinel", p.pending)
	}
	if !hasLogContaining(k, "Unknown syscall: BOGUS") {
		t.Error("missing unknown-syscall log entry")
	}

	p.state = StateRunning
	k.dispatch(p, nil)
	if p.state != StateReady {
		t.Errorf("state after nil request = %s, want READY", p.state)
	}
}

func TestHeap_SetGet(t *testing.T) {
	k := newTestKernel(Options{})

	var got, missing any
	k.Spawn(func(c *sys.Calls, args []string) int {
		c.HeapSet("answer", 42)
		got = c.HeapGet("answer")
		missing = c.HeapGet("nope")
		return 0
	}, SpawnOptions{Name: "heap"})

	for i := 0; i < 6; i++ {
		k.Tick()
	}

	if got != 42 {
		t.Errorf("HeapGet = %v, want 42", got)
	}
	if missing != nil {
		t.Errorf("HeapGet missing key = %v, want nil", missing)
	}
}

func TestExec_ReplacesRoutineKeepsIdentity(t *testing.T) {
	k := newTestKernel(Options{})

	var execPID, heapVal any
	if err := k.RegisterProgram("second", func(c *sys.Calls, args []string) int {
		execPID = c.GetPID()
		heapVal = c.HeapGet("carried")
		if len(args) > 0 {
			c.Log("second: " + args[0])
		}
		return 0
	}); err != nil {
		t.Fatal(err)
	}

	pid := k.Spawn(func(c *sys.Calls, args []string) int {
		c.HeapSet("carried", "yes")
		c.Listen(6000)
		c.Exec("second", "arg1")
		return 99 // unreachable on successful exec
	}, SpawnOptions{Name: "first"})

	for i := 0; i < 12; i++ {
		k.Tick()
	}

	if execPID != pid {
		t.Errorf("pid after exec = %v, want %d", execPID, pid)
	}
	if heapVal != "yes" {
		t.Errorf("heap after exec = %v, want carried value", heapVal)
	}

	ports := k.PortsTable()
	if len(ports) != 1 || ports[0].OwnerPID != pid {
		t.Errorf("owned ports not carried across exec: %v", ports)
	}

	rows := k.ProcessTable()
	if rows[0].Name != "second" {
		t.Errorf("name after exec = %q, want second", rows[0].Name)
	}
	if rows[0].State != string(StateTerminated) || rows[0].ExitCode != 0 {
		t.Errorf("process = %s/%d, want TERMINATED/0", rows[0].State, rows[0].ExitCode)
	}
}

func TestExec_UnknownProgram(t *testing.T) {
	k := newTestKernel(Options{})

	var res int
	k.Spawn(func(c *sys.Calls, args []string) int {
		res = c.Exec("missing")
		return 0
	}, SpawnOptions{Name: "p"})

	for i := 0; i < 4; i++ {
		k.Tick()
	}

	if res != -1 {
		t.Errorf("Exec(missing) = %d, want -1", res)
	}
	if k.ProcessTable()[0].ExitCode != 0 {
		t.Error("caller should continue and exit normally after a failed exec")
	}
}

func TestSpawnSyscall_ByName(t *testing.T) {
	k := newTestKernel(Options{})
	if err := k.RegisterProgram("child", func(c *sys.Calls, args []string) int { return 0 }); err != nil {
		t.Fatal(err)
	}

	var child, missing int
	k.Spawn(func(c *sys.Calls, args []string) int {
		child = c.Spawn("child", 2, "a", "b")
		missing = c.Spawn("nope", 1)
		return 0
	}, SpawnOptions{Name: "parent"})

	for i := 0; i < 6; i++ {
		k.Tick()
	}

	if child != 2 {
		t.Errorf("spawned child pid = %d, want 2", child)
	}
	if missing != -1 {
		t.Errorf("spawn of unregistered program = %d, want -1", missing)
	}

	rows := k.ProcessTable()
	if len(rows) != 2 || rows[1].Name != "child" || rows[1].Priority != 2 {
		t.Errorf("child row = %+v", rows)
	}
}

func TestKinfo_Snapshots(t *testing.T) {
	k := newTestKernel(Options{})

	var ps []sys.ProcessInfo
	var ports []sys.PortInfo
	var files []sys.FileInfo
	k.Spawn(func(c *sys.Calls, args []string) int {
		c.Listen(4000)
		c.WriteFile("/tmp/x", "content")
		ps = c.ProcessTable()
		ports = c.PortsTable()
		files = c.FilesTable()
		return 0
	}, SpawnOptions{Name: "inspector"})

	for i := 0; i < 8; i++ {
		k.Tick()
	}

	if len(ps) != 1 || ps[0].PID != 1 {
		t.Errorf("PS snapshot = %+v", ps)
	}
	if len(ports) != 1 || ports[0].Port != "4000" || ports[0].OwnerPID != 1 {
		t.Errorf("PORTS snapshot = %+v", ports)
	}
	if len(files) != 1 || files[0].Path != "/tmp/x" || files[0].Size != 7 {
		t.Errorf("VFS snapshot = %+v", files)
	}
}
