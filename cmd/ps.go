package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "Show the process table of a demo boot",
	Long:  `Boot the sample workload, advance the scheduler, and print the process-table snapshot.`,
	Args:  cobra.NoArgs,
	RunE:  runPS,
}

var psTicks int

func init() {
	rootCmd.AddCommand(psCmd)

	psCmd.Flags().IntVar(&psTicks, "ticks", 40, "ticks to advance before the snapshot")
	psCmd.Flags().StringP("format", "f", "table", "output format (table, json)")
}

func runPS(cmd *cobra.Command, args []string) error {
	k, err := bootDemo(psTicks)
	if err != nil {
		return err
	}

	procs := k.ProcessTable()
	if resolveFormat(cmd.Flags()) == "json" {
		return outputJSON(procs)
	}

	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, []string{
			strconv.Itoa(p.PID),
			p.Name,
			strconv.Itoa(p.Priority),
			p.State,
			p.BlockReason,
			strconv.Itoa(p.ExitCode),
			p.SpawnTime.Format("15:04:05"),
		})
	}
	renderTable([]string{"PID", "name", "priority", "state", "block", "exit", "spawned"}, rows)
	return nil
}
