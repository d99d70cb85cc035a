// vkernel is an in-process, single-node simulation of a tiny
// operating-system kernel.
//
// Userland programs are resumable routines that yield typed syscall
// requests; the kernel steps them cooperatively, one process per tick,
// maintains a process table, routes messages by pid and by named port, and
// exposes an in-memory file namespace.
//
// Commands:
//
//	run     - Boot the kernel and drive the tick loop
//	ps      - Show the process table of a demo boot
//	ports   - Show the port registry of a demo boot
//	files   - Show the file namespace of a demo boot
//	logs    - Show the kernel log of a demo boot
//	version - Print version information
package main

import (
	"fmt"
	"os"

	"vkernel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
