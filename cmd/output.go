package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
)

// resolveFormat reads the --format flag from a command's flag set.
func resolveFormat(fs *pflag.FlagSet) string {
	format, err := fs.GetString("format")
	if err != nil || format == "" {
		return "table"
	}
	return format
}

// renderTable prints rows as an ASCII table.
func renderTable(header []string, rows [][]string) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
	fmt.Print(buf.String())
}

// outputJSON prints v as indented JSON.
func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
