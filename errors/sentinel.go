// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Process lifecycle errors.
var (
	// ErrProcessNotFound indicates the process does not exist.
	ErrProcessNotFound = &KernelError{
		Kind: ErrNotFound,
		Msg:  "process not found",
	}

	// ErrProcessTerminated indicates the process has already terminated.
	ErrProcessTerminated = &KernelError{
		Kind: ErrInvalidState,
		Msg:  "process is terminated",
	}

	// ErrUnknownProgram indicates the program name is not registered.
	ErrUnknownProgram = &KernelError{
		Kind: ErrNotFound,
		Msg:  "program not registered",
	}

	// ErrEmptyProgramName indicates an empty program name.
	ErrEmptyProgramName = &KernelError{
		Kind: ErrInvalidArgument,
		Msg:  "program name cannot be empty",
	}

	// ErrNilFactory indicates a nil program factory.
	ErrNilFactory = &KernelError{
		Kind: ErrInvalidArgument,
		Msg:  "program factory cannot be nil",
	}
)

// Port errors.
var (
	// ErrNoSuchPort indicates the port has no owner.
	ErrNoSuchPort = &KernelError{
		Kind: ErrNotFound,
		Msg:  "no such port",
	}

	// ErrPortTaken indicates the port is owned by another process.
	ErrPortTaken = &KernelError{
		Kind: ErrAlreadyExists,
		Msg:  "port already has an owner",
	}

	// ErrNotPortOwner indicates the caller does not own the port.
	ErrNotPortOwner = &KernelError{
		Kind: ErrPermission,
		Msg:  "caller does not own the port",
	}

	// ErrRecvTimeout indicates a port receive expired without a message.
	ErrRecvTimeout = &KernelError{
		Kind: ErrTimeout,
		Msg:  "receive timed out",
	}
)

// File namespace errors.
var (
	// ErrNoSuchFile indicates the path does not exist.
	ErrNoSuchFile = &KernelError{
		Kind: ErrNotFound,
		Msg:  "no such file",
	}

	// ErrBadDescriptor indicates the descriptor is not open.
	ErrBadDescriptor = &KernelError{
		Kind: ErrInvalidArgument,
		Msg:  "bad file descriptor",
	}

	// ErrBadOpenMode indicates an open mode outside r/w/a.
	ErrBadOpenMode = &KernelError{
		Kind: ErrInvalidArgument,
		Msg:  "invalid open mode",
	}
)

// Dispatch errors.
var (
	// ErrUnknownSyscall indicates a request type the dispatcher does not know.
	ErrUnknownSyscall = &KernelError{
		Kind: ErrInvalidArgument,
		Msg:  "unknown syscall type",
	}

	// ErrRoutineCrashed indicates a routine failed inside a resume.
	ErrRoutineCrashed = &KernelError{
		Kind: ErrCrashed,
		Msg:  "routine crashed",
	}
)

// Persistence errors.
var (
	// ErrNoState indicates no serialized namespace exists.
	ErrNoState = &KernelError{
		Kind: ErrNotFound,
		Msg:  "no persisted state",
	}

	// ErrCorruptState indicates the serialized namespace failed to decode.
	ErrCorruptState = &KernelError{
		Kind: ErrInternal,
		Msg:  "persisted state is corrupt",
	}
)
