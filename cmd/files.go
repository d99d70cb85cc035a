package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:     "files",
	Aliases: []string{"ls"},
	Short:   "Show the file namespace of a demo boot",
	Args:    cobra.NoArgs,
	RunE:    runFiles,
}

var filesTicks int

func init() {
	rootCmd.AddCommand(filesCmd)

	filesCmd.Flags().IntVar(&filesTicks, "ticks", 40, "ticks to advance before the snapshot")
	filesCmd.Flags().StringP("format", "f", "table", "output format (table, json)")
}

func runFiles(cmd *cobra.Command, args []string) error {
	k, err := bootDemo(filesTicks)
	if err != nil {
		return err
	}

	files := k.ListFiles()
	if resolveFormat(cmd.Flags()) == "json" {
		return outputJSON(files)
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{
			f.Path,
			strconv.Itoa(f.Size),
			f.Preview,
		})
	}
	renderTable([]string{"path", "size", "preview"}, rows)
	return nil
}
