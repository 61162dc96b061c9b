package utils

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/bridgewatch/bridge-metrics/internal/models"
)

// DisplayOverview prints the whole-range KPIs as a one-row table.
func DisplayOverview(row models.MetricRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Transfers", "Users", "Volume USD"})
	t.AppendRow(table.Row{row.TransferCount, row.UserCount, fmt.Sprintf("%.0f", row.VolumeUSD)})
	t.Render()
}

// DisplayRows prints grouped metric rows under the given group heading.
func DisplayRows(heading string, rows []models.MetricRow) {
	if len(rows) == 0 {
		fmt.Println("No data for the selected range.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{heading, "Transfers", "Users", "Volume USD"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Group,
			row.TransferCount,
			row.UserCount,
			fmt.Sprintf("%.0f", row.VolumeUSD),
		})
	}
	t.Render()
}
