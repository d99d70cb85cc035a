package userland

import (
	"fmt"

	"vkernel/sys"
)

// EchoServer owns a port (args[0], default EchoPort) and echoes every
// payload back to its sender's mailbox. It exits 1 when the port is already
// taken; once listening it never exits on its own.
func EchoServer(c *sys.Calls, args []string) int {
	port := EchoPort
	if len(args) > 0 && args[0] != "" {
		port = sys.PortKey(args[0])
	}

	if !c.Listen(port) {
		c.Log(fmt.Sprintf("echo_server: port %s already taken", port))
		return 1
	}
	c.Log(fmt.Sprintf("echo_server: listening on port %s", port))

	for {
		m := c.RecvFromPort(port)
		if m == nil {
			continue
		}
		c.Log(fmt.Sprintf("echo_server: echo %v for pid %d", m.Payload, m.FromPID))
		c.Send(m.FromPID, m.Payload)
	}
}

// EchoClient sends one payload (args[1], default "ping") to a port
// (args[0], default EchoPort) and polls its mailbox for the echoed reply.
// Exits 0 on a reply, 1 when the port does not exist or no reply arrives
// within the poll budget.
func EchoClient(c *sys.Calls, args []string) int {
	port := EchoPort
	if len(args) > 0 && args[0] != "" {
		port = sys.PortKey(args[0])
	}
	payload := "ping"
	if len(args) > 1 {
		payload = args[1]
	}

	if !c.SendToPort(port, payload) {
		c.Log(fmt.Sprintf("echo_client: no such port %s", port))
		return 1
	}

	// Each empty poll burns one tick; the server outranks us, so it gets to
	// reply before the budget runs out.
	for i := 0; i < 64; i++ {
		if m := c.Recv(); m != nil {
			c.Log(fmt.Sprintf("echo_client: reply = %q", m.Payload))
			return 0
		}
	}

	c.Log("echo_client: no reply")
	return 1
}
