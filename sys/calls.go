package sys

// Calls is the syscall surface handed to a userland program. It is bound to
// one pid for the life of the process; exec replaces the routine but keeps
// the surface. Every method suspends the routine until the kernel has
// dispatched the request, so two consecutive calls from the same program
// observe no interleaved kernel mutation.
type Calls struct {
	pid int
	co  *coroutine
}

// NewCalls builds a surface bound to pid. The kernel binds it to a routine
// via NewRoutine before the first Step.
func NewCalls(pid int) *Calls {
	return &Calls{pid: pid}
}

// PID returns the bound pid without a syscall.
func (c *Calls) PID() int {
	return c.pid
}

func (c *Calls) invoke(req *Request) any {
	return c.co.invoke(req)
}

// Sleep blocks the process for ms of logical time.
func (c *Calls) Sleep(ms int64) {
	c.invoke(&Request{Type: TypeSleep, DurationMS: ms})
}

// Log appends a line to the kernel log.
func (c *Calls) Log(msg string) {
	c.invoke(&Request{Type: TypeLog, Message: msg})
}

// GetPID asks the kernel for the caller's pid.
func (c *Calls) GetPID() int {
	pid, _ := c.invoke(&Request{Type: TypeGetPID}).(int)
	return pid
}

// Send appends a direct message to the target's mailbox. It succeeds even
// when no such process exists; the message is buffered against that pid.
func (c *Calls) Send(to int, payload any) bool {
	ok, _ := c.invoke(&Request{Type: TypeSend, TargetPID: to, Payload: payload}).(bool)
	return ok
}

// Recv dequeues the oldest mailbox message, or returns nil immediately when
// the mailbox is empty. It never blocks.
func (c *Calls) Recv() *Message {
	m, _ := c.invoke(&Request{Type: TypeRecv}).(*Message)
	return m
}

// RecvFrom dequeues the oldest message sent by from, blocking until one
// arrives.
func (c *Calls) RecvFrom(from int) *Message {
	m, _ := c.invoke(&Request{Type: TypeRecv, From: from, HasFrom: true}).(*Message)
	return m
}

// Open allocates a descriptor for path in mode "r", "w", or "a".
// Returns -1 when the file is missing in "r" mode or the mode is invalid.
func (c *Calls) Open(path, mode string) int {
	fd, ok := c.invoke(&Request{Type: TypeOpen, Path: path, Mode: mode}).(int)
	if !ok {
		return -1
	}
	return fd
}

// Read reads up to n units from fd at its current position. ok is false
// when fd is not an open descriptor.
func (c *Calls) Read(fd, n int) (string, bool) {
	s, ok := c.invoke(&Request{Type: TypeRead, FD: fd, Count: n, HasCount: true}).(string)
	return s, ok
}

// ReadAll reads from fd's current position to end of file.
func (c *Calls) ReadAll(fd int) (string, bool) {
	s, ok := c.invoke(&Request{Type: TypeRead, FD: fd}).(string)
	return s, ok
}

// Write writes data at fd's current position, overwriting any overlapping
// range. Descriptors 1 and 2 emit to the host streams instead. Returns the
// number of units written, or -1 on a bad descriptor.
func (c *Calls) Write(fd int, data string) int {
	n, ok := c.invoke(&Request{Type: TypeWrite, FD: fd, Data: data}).(int)
	if !ok {
		return -1
	}
	return n
}

// Close releases fd. Unknown descriptors close without error.
func (c *Calls) Close(fd int) int {
	n, _ := c.invoke(&Request{Type: TypeClose, FD: fd}).(int)
	return n
}

// Exec replaces the caller's routine with a fresh instance of the named
// program, keeping the pid, descriptors, mailbox, heap, and owned ports.
// On success the call does not return; on an unknown program it returns -1
// and the caller continues.
func (c *Calls) Exec(name string, args ...string) int {
	res, ok := c.invoke(&Request{Type: TypeExec, Program: name, Args: args}).(int)
	if !ok {
		return -1
	}
	return res
}

// Exit terminates the process with code. It does not return.
func (c *Calls) Exit(code int) {
	c.invoke(&Request{Type: TypeExit, Code: code})
	panic(errRoutineClosed)
}

// HeapSet stores a value in the per-process heap.
func (c *Calls) HeapSet(key string, value any) {
	c.invoke(&Request{Type: TypeHeapSet, Key: key, Value: value})
}

// HeapGet loads a value from the per-process heap, or nil.
func (c *Calls) HeapGet(key string) any {
	return c.invoke(&Request{Type: TypeHeapGet, Key: key})
}

// Listen claims ownership of a port. Re-listening on an owned port
// succeeds; a port owned by another process returns false.
func (c *Calls) Listen(port any) bool {
	ok, _ := c.invoke(&Request{Type: TypeListen, Port: PortKey(port)}).(bool)
	return ok
}

// Unlisten releases a port the caller owns, discarding its queue.
func (c *Calls) Unlisten(port any) bool {
	ok, _ := c.invoke(&Request{Type: TypeUnlisten, Port: PortKey(port)}).(bool)
	return ok
}

// SendToPort enqueues a payload on a port. Returns false when the port has
// no owner.
func (c *Calls) SendToPort(port any, payload any) bool {
	ok, _ := c.invoke(&Request{Type: TypeSendPort, Port: PortKey(port), Payload: payload}).(bool)
	return ok
}

// RecvFromPort dequeues the oldest message on a port the caller owns,
// blocking until one arrives. Non-owners get nil immediately.
func (c *Calls) RecvFromPort(port any) *PortMessage {
	m, _ := c.invoke(&Request{Type: TypeRecvPort, Port: PortKey(port)}).(*PortMessage)
	return m
}

// RecvFromPortTimeout is RecvFromPort bounded by timeoutMS of logical time;
// nil on expiry.
func (c *Calls) RecvFromPortTimeout(port any, timeoutMS int64) *PortMessage {
	m, _ := c.invoke(&Request{
		Type:       TypeRecvPort,
		Port:       PortKey(port),
		TimeoutMS:  timeoutMS,
		HasTimeout: true,
	}).(*PortMessage)
	return m
}

// Spawn creates a child process from a registered program name. Returns the
// child pid, or -1 when the name is not registered.
func (c *Calls) Spawn(name string, priority int, args ...string) int {
	pid, ok := c.invoke(&Request{
		Type:     TypeSpawn,
		Program:  name,
		Priority: priority,
		Args:     args,
	}).(int)
	if !ok {
		return -1
	}
	return pid
}

// Kinfo returns a kernel snapshot of the requested kind.
func (c *Calls) Kinfo(kind InfoKind) any {
	return c.invoke(&Request{Type: TypeKinfo, Kind: kind})
}

// ProcessTable returns the PS snapshot.
func (c *Calls) ProcessTable() []ProcessInfo {
	ps, _ := c.Kinfo(InfoPS).([]ProcessInfo)
	return ps
}

// PortsTable returns the PORTS snapshot.
func (c *Calls) PortsTable() []PortInfo {
	ports, _ := c.Kinfo(InfoPorts).([]PortInfo)
	return ports
}

// FilesTable returns the VFS snapshot.
func (c *Calls) FilesTable() []FileInfo {
	files, _ := c.Kinfo(InfoVFS).([]FileInfo)
	return files
}

// ListFiles lists the file namespace.
func (c *Calls) ListFiles() []FileInfo {
	files, _ := c.invoke(&Request{Type: TypeListFiles}).([]FileInfo)
	return files
}

// ReadFile reads a whole file without a descriptor. ok is false when the
// path does not exist.
func (c *Calls) ReadFile(path string) (string, bool) {
	s, ok := c.invoke(&Request{Type: TypeReadFile, Path: path}).(string)
	return s, ok
}

// WriteFile replaces a file's content without a descriptor, creating it if
// missing.
func (c *Calls) WriteFile(path, text string) bool {
	ok, _ := c.invoke(&Request{Type: TypeWriteFile, Path: path, Data: text}).(bool)
	return ok
}

// Unlink removes a file. Returns false when the path does not exist.
func (c *Calls) Unlink(path string) bool {
	ok, _ := c.invoke(&Request{Type: TypeUnlink, Path: path}).(bool)
	return ok
}

// ListPorts lists the port registry.
func (c *Calls) ListPorts() []PortInfo {
	ports, _ := c.invoke(&Request{Type: TypeListPorts}).([]PortInfo)
	return ports
}

// Kill forces a process to terminate with exit code -1. It succeeds even
// when the target does not exist.
func (c *Calls) Kill(pid int, signal string) bool {
	ok, _ := c.invoke(&Request{Type: TypeKill, TargetPID: pid, Signal: signal}).(bool)
	return ok
}
