package sys

import "time"

// ProcessInfo is one row of the process-table snapshot. It is safe to hold
// across ticks; nothing in it aliases kernel state.
type ProcessInfo struct {
	PID         int       `json:"pid"`
	Name        string    `json:"name"`
	Priority    int       `json:"priority"`
	State       string    `json:"state"`
	BlockReason string    `json:"block_reason,omitempty"`
	WakeTime    int64     `json:"wake_time,omitempty"`
	ExitCode    int       `json:"exit_code"`
	SpawnTime   time.Time `json:"spawn_time"`
}

// PortInfo is one row of the ports-table snapshot.
type PortInfo struct {
	Port        string `json:"port"`
	OwnerPID    int    `json:"owner_pid"`
	QueueLength int    `json:"queue_length"`
}

// FileInfo is one row of the file-namespace snapshot.
type FileInfo struct {
	Path    string `json:"path"`
	Size    int    `json:"size"`
	Preview string `json:"preview"`
}

// LogEntry is one kernel log line. PID is 0 for entries the kernel emits on
// its own behalf.
type LogEntry struct {
	Time    int64  `json:"time"`
	PID     int    `json:"pid"`
	Message string `json:"message"`
}
