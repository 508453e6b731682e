package app

import (
	"io"

	"github.com/dukerupert/remote/internal/store"
	"github.com/olekukonko/tablewriter"
)

// printConnections renders entries as a borderless table.
func printConnections(w io.Writer, entries []store.Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Host", "Password"})

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, e := range entries {
		table.Append([]string{e.Name, e.Login + "@" + e.Address, e.Password})
	}
	table.Render()
}
