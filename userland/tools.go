package userland

import (
	"fmt"
	"strings"

	"vkernel/sys"
)

// The small tools write their output to descriptor 1 and exit. The shell
// starts them as children; they work just as well spawned directly.

// PS prints the process table.
func PS(c *sys.Calls, args []string) int {
	var b strings.Builder
	b.WriteString("PID\tNAME\tPRI\tSTATE\tEXIT\n")
	for _, p := range c.ProcessTable() {
		state := p.State
		if p.BlockReason != "" {
			state += " (" + p.BlockReason + ")"
		}
		fmt.Fprintf(&b, "%d\t%s\t%d\t%s\t%d\n", p.PID, p.Name, p.Priority, state, p.ExitCode)
	}
	c.Write(1, b.String())
	return 0
}

// LS prints the file namespace.
func LS(c *sys.Calls, args []string) int {
	var b strings.Builder
	for _, f := range c.ListFiles() {
		fmt.Fprintf(&b, "%s\t%d\n", f.Path, f.Size)
	}
	if b.Len() == 0 {
		b.WriteString("(empty)\n")
	}
	c.Write(1, b.String())
	return 0
}

// Netstat prints the port registry.
func Netstat(c *sys.Calls, args []string) int {
	var b strings.Builder
	b.WriteString("PORT\tOWNER\tQUEUED\n")
	for _, p := range c.ListPorts() {
		fmt.Fprintf(&b, "%s\t%d\t%d\n", p.Port, p.OwnerPID, p.QueueLength)
	}
	c.Write(1, b.String())
	return 0
}

// Cat prints a file, exiting -1 when the path is missing.
func Cat(c *sys.Calls, args []string) int {
	if len(args) == 0 {
		c.Write(2, "cat: path required\n")
		return -1
	}
	content, ok := c.ReadFile(args[0])
	if !ok {
		c.Write(2, "cat: no such file: "+args[0]+"\n")
		return -1
	}
	c.Write(1, content)
	return 0
}

// RM unlinks a file, exiting -1 when the path is missing.
func RM(c *sys.Calls, args []string) int {
	if len(args) == 0 {
		c.Write(2, "rm: path required\n")
		return -1
	}
	if !c.Unlink(args[0]) {
		c.Write(2, "rm: no such file: "+args[0]+"\n")
		return -1
	}
	return 0
}
