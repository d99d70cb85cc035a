package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Show the port registry of a demo boot",
	Args:  cobra.NoArgs,
	RunE:  runPorts,
}

var portsTicks int

func init() {
	rootCmd.AddCommand(portsCmd)

	portsCmd.Flags().IntVar(&portsTicks, "ticks", 40, "ticks to advance before the snapshot")
	portsCmd.Flags().StringP("format", "f", "table", "output format (table, json)")
}

func runPorts(cmd *cobra.Command, args []string) error {
	k, err := bootDemo(portsTicks)
	if err != nil {
		return err
	}

	ports := k.PortsTable()
	if resolveFormat(cmd.Flags()) == "json" {
		return outputJSON(ports)
	}

	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		rows = append(rows, []string{
			p.Port,
			strconv.Itoa(p.OwnerPID),
			strconv.Itoa(p.QueueLength),
		})
	}
	renderTable([]string{"port", "owner", "queued"}, rows)
	return nil
}
