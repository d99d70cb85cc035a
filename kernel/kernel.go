package kernel

import (
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"

	kerrors "vkernel/errors"
	"vkernel/logging"
	"vkernel/sys"
	"vkernel/vfs"
)

// DefaultTickMS is the logical-time step per tick.
const DefaultTickMS = 50

// DefaultMOTD is written to /etc/motd when a restored namespace lacks one.
const DefaultMOTD = "Welcome to vkernel. Type 'help' into the shell port to get started.\n"

// Options configures a kernel instance. The zero value is usable.
type Options struct {
	// TickMS is the logical-time step per tick, independent of the host's
	// wall-clock cadence. Defaults to DefaultTickMS.
	TickMS int64

	// LogCapacity bounds the kernel log ring; clamped to at least
	// DefaultLogCapacity.
	LogCapacity int

	// ID identifies this kernel instance (persistence key, host logs).
	// A random identifier is generated when empty.
	ID string

	// Stdout and Stderr receive userland writes to descriptors 1 and 2.
	// Default to the host's streams.
	Stdout io.Writer
	Stderr io.Writer

	// Logger mirrors kernel log entries to the host. Defaults to the
	// logging package default.
	Logger *slog.Logger

	// Store, when set, is loaded into the file namespace at construction
	// and written back by Persist. A restored namespace missing /etc/motd
	// gets the default welcome.
	Store *vfs.Store
}

// Kernel is one simulated kernel: clock, process table, mailboxes, ports,
// file namespace, program registry, and log ring. It is single-threaded by
// design; the host drives it through Tick and ReapTerminated and reads the
// snapshot methods between ticks.
type Kernel struct {
	id   string
	opts Options

	// now is logical time in milliseconds.
	now int64

	nextPID int
	procs   []*Process
	byPID   map[int]*Process

	mailboxes map[int][]*sys.Message
	ports     map[string]*port
	files     *vfs.Namespace
	programs  map[string]sys.Program

	log    *logRing
	logger *slog.Logger
}

// SpawnOptions configures a top-level spawn.
type SpawnOptions struct {
	// Name labels the process; defaults to "proc<pid>".
	Name string
	// Priority defaults to 1. Higher is more eager.
	Priority int
	// Args are handed to the program body.
	Args []string
}

// New constructs a kernel, restoring the file namespace from the configured
// store when one exists.
func New(opts Options) *Kernel {
	if opts.TickMS <= 0 {
		opts.TickMS = DefaultTickMS
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}

	k := &Kernel{
		id:        opts.ID,
		opts:      opts,
		nextPID:   1,
		byPID:     make(map[int]*Process),
		mailboxes: make(map[int][]*sys.Message),
		ports:     make(map[string]*port),
		files:     vfs.NewNamespace(),
		programs:  make(map[string]sys.Program),
		log:       newLogRing(opts.LogCapacity),
		logger:    logging.WithKernel(opts.Logger, opts.ID),
	}

	if opts.Store != nil {
		k.restore(opts.Store)
	}
	return k
}

// restore loads the persisted namespace, seeding /etc/motd when absent.
func (k *Kernel) restore(store *vfs.Store) {
	snapshot, err := store.Load()
	switch {
	case err == nil:
		k.files.Restore(snapshot)
		k.logger.Info("restored file namespace", "files", k.files.Len())
	case kerrors.HasKind(err, kerrors.ErrNotFound):
		// First boot for this instance
	default:
		k.logger.Warn("could not restore file namespace", "error", err)
	}

	if !k.files.Exists("/etc/motd") {
		k.files.Write("/etc/motd", DefaultMOTD)
	}
}

// Persist writes the file namespace back to the configured store. A kernel
// without a store persists nothing and returns nil.
func (k *Kernel) Persist() error {
	if k.opts.Store == nil {
		return nil
	}
	return k.opts.Store.Save(k.files)
}

// ID returns the kernel instance identifier.
func (k *Kernel) ID() string { return k.id }

// Now returns the current logical time in milliseconds.
func (k *Kernel) Now() int64 { return k.now }

// TickMS returns the configured logical step per tick.
func (k *Kernel) TickMS() int64 { return k.opts.TickMS }

// Files exposes the file namespace for host-side setup and persistence.
func (k *Kernel) Files() *vfs.Namespace { return k.files }

// RegisterProgram installs a factory into the program registry under name.
// Registering a name again replaces the previous factory.
func (k *Kernel) RegisterProgram(name string, program sys.Program) error {
	if name == "" {
		return kerrors.ErrEmptyProgramName
	}
	if program == nil {
		return kerrors.ErrNilFactory
	}
	k.programs[name] = program
	return nil
}

// Programs returns the registered program names.
func (k *Kernel) Programs() []string {
	names := make([]string, 0, len(k.programs))
	for name := range k.programs {
		names = append(names, name)
	}
	return names
}

// Spawn creates a process from a program body, schedules it READY, and
// returns its pid. The pid allocator is monotonic; pids are never reused
// within a kernel lifetime.
func (k *Kernel) Spawn(program sys.Program, opts SpawnOptions) int {
	pid := k.nextPID
	k.nextPID++

	if opts.Name == "" {
		opts.Name = "proc" + strconv.Itoa(pid)
	}
	if opts.Priority == 0 {
		opts.Priority = 1
	}

	calls := sys.NewCalls(pid)
	routine := sys.NewRoutine(program, calls, opts.Args)
	p := newProcess(pid, opts.Name, opts.Priority, routine, calls)

	k.procs = append(k.procs, p)
	k.byPID[pid] = p
	// A fresh, empty mailbox: mail buffered for this pid before it existed
	// is dropped, not handed to the new process.
	k.mailboxes[pid] = []*sys.Message{}

	k.logger.Debug("spawned process", "pid", pid, "name", opts.Name, "priority", opts.Priority)
	return pid
}

// spawnNamed resolves a registered program and spawns it. Returns -1 when
// the name is not registered.
func (k *Kernel) spawnNamed(name string, priority int, args []string) int {
	program, ok := k.programs[name]
	if !ok {
		return -1
	}
	return k.Spawn(program, SpawnOptions{Name: name, Priority: priority, Args: args})
}

// SpawnNamed is the host-facing variant of spawn-by-name.
func (k *Kernel) SpawnNamed(name string, opts SpawnOptions) (int, error) {
	program, ok := k.programs[name]
	if !ok {
		return -1, kerrors.Op("spawn", kerrors.ErrUnknownProgram).WithResource(name)
	}
	if opts.Name == "" {
		opts.Name = name
	}
	return k.Spawn(program, opts), nil
}

// Process looks up a live or terminated-but-unreaped process.
func (k *Kernel) Process(pid int) (*Process, bool) {
	p, ok := k.byPID[pid]
	return p, ok
}

// LiveCount returns the number of processes that are not terminated.
func (k *Kernel) LiveCount() int {
	n := 0
	for _, p := range k.procs {
		if p.state != StateTerminated {
			n++
		}
	}
	return n
}

// ReapTerminated removes every terminated process from the table, together
// with its mailbox and all ports it owns (their queued messages included).
// Reap is explicit: the host runs it between ticks.
func (k *Kernel) ReapTerminated() {
	kept := k.procs[:0]
	for _, p := range k.procs {
		if p.state != StateTerminated {
			kept = append(kept, p)
			continue
		}
		delete(k.byPID, p.pid)
		delete(k.mailboxes, p.pid)
		k.dropPortsOwnedBy(p.pid)
		k.logger.Debug("reaped process", "pid", p.pid, "name", p.name, "exit_code", p.exitCode)
	}
	k.procs = kept
}

// appendLog records a kernel log entry and mirrors it to the host logger.
func (k *Kernel) appendLog(pid int, msg string) {
	k.log.append(sys.LogEntry{Time: k.now, PID: pid, Message: msg})
	k.logger.Info(msg, "ktime", k.now, "pid", pid)
}
