package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the kernel log of a demo boot",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

var (
	logsTicks int
	logsLimit int
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVar(&logsTicks, "ticks", 40, "ticks to advance before the snapshot")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 200, "maximum entries, most-recent-last")
	logsCmd.Flags().StringP("format", "f", "table", "output format (table, json)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	k, err := bootDemo(logsTicks)
	if err != nil {
		return err
	}

	entries := k.Logs(logsLimit)
	if resolveFormat(cmd.Flags()) == "json" {
		return outputJSON(entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.Time, 10),
			strconv.Itoa(e.PID),
			e.Message,
		})
	}
	renderTable([]string{"time", "pid", "message"}, rows)
	return nil
}
