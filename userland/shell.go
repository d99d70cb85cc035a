package userland

import (
	"fmt"
	"strconv"
	"strings"

	"vkernel/sys"
)

// ShellResultType tags every shell reply payload.
const ShellResultType = "SHELL_RESULT"

// ShellCommand is the payload the shell accepts on its port. Plain strings
// and {command, args} maps are accepted too and normalized into this shape.
type ShellCommand struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// ShellResult is the payload the shell sends back to the requesting pid.
type ShellResult struct {
	Type   string `json:"type"`
	OK     bool   `json:"ok"`
	Output string `json:"output"`
}

func shellOK(output string) ShellResult {
	return ShellResult{Type: ShellResultType, OK: true, Output: output}
}

func shellErr(output string) ShellResult {
	return ShellResult{Type: ShellResultType, OK: false, Output: output}
}

// Shell owns ShellPort and turns each received command into a reply to the
// sender. Command names that are not built-ins resolve against the program
// registry and run as child processes.
func Shell(c *sys.Calls, args []string) int {
	if !c.Listen(ShellPort) {
		c.Log("shell: port " + ShellPort + " already taken")
		return 1
	}
	c.Log("shell: listening on port " + ShellPort)

	for {
		m := c.RecvFromPort(ShellPort)
		if m == nil {
			continue
		}

		cmd, ok := ParseCommand(m.Payload)
		if !ok || cmd.Command == "" {
			c.Send(m.FromPID, shellErr("cannot parse command"))
			continue
		}
		c.Send(m.FromPID, runCommand(c, cmd))
	}
}

// ParseCommand normalizes the accepted payload shapes into a ShellCommand.
func ParseCommand(payload any) (ShellCommand, bool) {
	switch v := payload.(type) {
	case ShellCommand:
		return v, true
	case *ShellCommand:
		if v == nil {
			return ShellCommand{}, false
		}
		return *v, true
	case string:
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return ShellCommand{}, false
		}
		return ShellCommand{Command: fields[0], Args: fields[1:]}, true
	case map[string]any:
		cmd, _ := v["command"].(string)
		if cmd == "" {
			return ShellCommand{}, false
		}
		out := ShellCommand{Command: cmd}
		switch raw := v["args"].(type) {
		case []string:
			out.Args = raw
		case []any:
			for _, a := range raw {
				out.Args = append(out.Args, fmt.Sprint(a))
			}
		}
		return out, true
	default:
		return ShellCommand{}, false
	}
}

func runCommand(c *sys.Calls, cmd ShellCommand) ShellResult {
	switch cmd.Command {
	case "help":
		return shellOK("built-ins: help, echo, cat <path>, rm <path>, kill <pid>, spawn <program> [args...]; " +
			"anything else runs a registered program")

	case "echo":
		return shellOK(strings.Join(cmd.Args, " "))

	case "cat":
		if len(cmd.Args) == 0 {
			return shellErr("cat: path required")
		}
		content, ok := c.ReadFile(cmd.Args[0])
		if !ok {
			return shellErr("cat: no such file: " + cmd.Args[0])
		}
		return shellOK(content)

	case "rm":
		if len(cmd.Args) == 0 {
			return shellErr("rm: path required")
		}
		if !c.Unlink(cmd.Args[0]) {
			return shellErr("rm: no such file: " + cmd.Args[0])
		}
		return shellOK("removed " + cmd.Args[0])

	case "kill":
		if len(cmd.Args) == 0 {
			return shellErr("kill: pid required")
		}
		pid, err := strconv.Atoi(cmd.Args[0])
		if err != nil {
			return shellErr("kill: bad pid: " + cmd.Args[0])
		}
		c.Kill(pid, "TERM")
		return shellOK(fmt.Sprintf("killed pid %d", pid))

	case "spawn":
		if len(cmd.Args) == 0 {
			return shellErr("spawn: program required")
		}
		return spawnChild(c, cmd.Args[0], cmd.Args[1:])

	default:
		return spawnChild(c, cmd.Command, cmd.Args)
	}
}

func spawnChild(c *sys.Calls, name string, args []string) ShellResult {
	pid := c.Spawn(name, 1, args...)
	if pid < 0 {
		return shellErr("unknown command: " + name)
	}
	return shellOK(fmt.Sprintf("Started %s (pid=%d)", name, pid))
}
