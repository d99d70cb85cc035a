package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vkernel/kernel"
	"vkernel/logging"
	"vkernel/sys"
	"vkernel/userland"
)

var runCmd = &cobra.Command{
	Use:   "run [program [args...]]",
	Short: "Boot the kernel and drive the tick loop",
	Long: `Boot a kernel, register the sample userland, spawn init (or the named
program), and run the scheduler at a fixed wall-clock cadence. With
--console on a terminal, lines typed on stdin are sent to the shell port
and the replies printed.`,
	RunE: runRun,
}

var (
	runTicks    int
	runInterval time.Duration
	runConsole  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runTicks, "ticks", 0, "number of ticks to run (0 = until no live processes)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 50*time.Millisecond, "wall-clock cadence between ticks")
	runCmd.Flags().BoolVar(&runConsole, "console", false, "read shell commands from stdin")
}

func runRun(cmd *cobra.Command, args []string) error {
	k, err := bootKernel()
	if err != nil {
		return err
	}

	program := "init"
	var progArgs []string
	if len(args) > 0 {
		program = args[0]
		progArgs = args[1:]
	}
	if _, err := k.SpawnNamed(program, kernel.SpawnOptions{Priority: 3, Args: progArgs}); err != nil {
		return err
	}

	var lines chan string
	if runConsole {
		lines = make(chan string, 16)
		go readConsole(lines)
	}

	ticker := time.NewTicker(runInterval)
	defer ticker.Stop()

	ticked := 0
	for range ticker.C {
		if lines != nil {
			drainConsole(k, lines)
		}

		k.Tick()
		k.ReapTerminated()
		ticked++

		if runTicks > 0 && ticked >= runTicks {
			break
		}
		if runTicks == 0 && k.LiveCount() == 0 {
			break
		}
	}

	if err := k.Persist(); err != nil {
		logging.Warn("could not persist file namespace", "error", err)
	}
	return nil
}

// readConsole feeds stdin lines to the tick loop. On a real terminal a
// prompt is printed between lines.
func readConsole(lines chan<- string) {
	defer close(lines)

	tty := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if tty {
			fmt.Fprint(os.Stdout, "vkernel> ")
		}
		if !scanner.Scan() {
			return
		}
		if line := scanner.Text(); line != "" {
			lines <- line
		}
	}
}

// drainConsole turns each pending input line into a transient client
// process that forwards it to the shell and prints the reply.
func drainConsole(k *kernel.Kernel, lines <-chan string) {
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			k.Spawn(consoleClient(line, os.Stdout), kernel.SpawnOptions{Name: "console", Priority: 3})
		default:
			return
		}
	}
}

// consoleClient is a one-shot program: send the line to the shell port,
// poll for the reply, print it.
func consoleClient(line string, out io.Writer) sys.Program {
	return func(c *sys.Calls, args []string) int {
		if !c.SendToPort(userland.ShellPort, line) {
			fmt.Fprintln(out, "shell is not running")
			return 1
		}

		for i := 0; i < 128; i++ {
			m := c.Recv()
			if m == nil {
				continue
			}
			if res, ok := m.Payload.(userland.ShellResult); ok {
				if res.OK {
					fmt.Fprintln(out, res.Output)
				} else {
					fmt.Fprintln(out, "error: "+res.Output)
				}
			} else {
				fmt.Fprintf(out, "%v\n", m.Payload)
			}
			return 0
		}

		fmt.Fprintln(out, "no reply from shell")
		return 1
	}
}
