// Package userland carries the sample programs that ship with the
// simulator: an init that boots the system services, an echo server/client
// pair, a shell reachable over a port, and a handful of small tools. They
// are ordinary programs written against the sys.Calls surface; nothing in
// the kernel knows about them.
package userland

import (
	"fmt"

	"vkernel/sys"
)

// Conventional ports. Neither is special to the kernel.
const (
	// ShellPort is where the shell accepts commands.
	ShellPort = "9999"
	// EchoPort is the echo server's default port.
	EchoPort = "8080"
)

const motd = "Welcome to vkernel. Send 'help' to port " + ShellPort + " to get started.\n"

// Registry is the slice of the kernel userland registration needs.
type Registry interface {
	RegisterProgram(name string, program sys.Program) error
}

// RegisterAll installs every sample program.
func RegisterAll(r Registry) error {
	programs := map[string]sys.Program{
		"init":        Init,
		"shell":       Shell,
		"echo_server": EchoServer,
		"echo_client": EchoClient,
		"ps":          PS,
		"ls":          LS,
		"netstat":     Netstat,
		"cat":         Cat,
		"rm":          RM,
	}
	for name, program := range programs {
		if err := r.RegisterProgram(name, program); err != nil {
			return err
		}
	}
	return nil
}

// Init is pid 1 by convention: seed /etc/motd, start the shell and the echo
// server, and get out of the way.
func Init(c *sys.Calls, args []string) int {
	if _, ok := c.ReadFile("/etc/motd"); !ok {
		c.WriteFile("/etc/motd", motd)
	}

	c.Log("init: boot sequence started")
	shell := c.Spawn("shell", 2)
	echo := c.Spawn("echo_server", 2)
	if shell < 0 || echo < 0 {
		c.Log("init: failed to start system services")
		return 1
	}
	c.Log(fmt.Sprintf("init: started shell (pid=%d) and echo_server (pid=%d)", shell, echo))
	return 0
}
