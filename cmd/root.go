// Package cmd implements the CLI commands for vkernel.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vkernel/logging"
)

// Version information set at build time
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags
var (
	globalTickMS    int64
	globalPersist   bool
	globalStateDir  string
	globalID        string
	globalLog       string
	globalLogFormat string
	globalDebug     bool
)

// rootCmd is the base command for vkernel.
var rootCmd = &cobra.Command{
	Use:   "vkernel",
	Short: "In-process operating system simulator",
	Long: `vkernel is a single-node simulation of a tiny operating-system kernel.

Userland programs are resumable routines that yield typed syscall requests;
the kernel steps them cooperatively, one process per tick, routes messages
between processes by pid and by named port, and exposes an in-memory file
namespace.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&globalTickMS, "tick-ms", 0, "logical-time step per tick in milliseconds (default 50)")
	rootCmd.PersistentFlags().BoolVar(&globalPersist, "persist", false, "restore the file namespace at boot and save it on shutdown")
	rootCmd.PersistentFlags().StringVar(&globalStateDir, "state-dir", "", "directory for persisted state (default: XDG state home)")
	rootCmd.PersistentFlags().StringVar(&globalID, "id", "default", "kernel instance identifier (persistence key)")
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "set the log file path")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
}

// setupLogging translates the global flags into a configured host logger.
// A log file that cannot be opened aborts the command rather than silently
// logging elsewhere.
func setupLogging() error {
	opts := logging.Options{
		JSON: globalLogFormat == "json",
	}
	if globalDebug {
		opts.Level = "debug"
	}

	if globalLog != "" {
		f, err := os.OpenFile(globalLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", globalLog, err)
		}
		opts.Output = f
	}

	logging.Configure(opts)
	return nil
}
