package cli

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

func renderStats(files []fileResult) string {
	var buffer bytes.Buffer
	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"File", "Passes", "Refs removed", "Converged"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_CENTER,
	})

	passes := 0
	removed := 0
	for _, file := range files {
		if len(file.result.Errors) > 0 {
			table.Append([]string{file.name, "-", "-", "error"})
			continue
		}
		converged := "yes"
		if !file.result.Converged {
			converged = "no"
		}
		table.Append([]string{
			file.name,
			fmt.Sprintf("%d", file.result.Passes),
			fmt.Sprintf("%d", file.result.ReferencesRemoved),
			converged,
		})
		passes += file.result.Passes
		removed += file.result.ReferencesRemoved
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total files %d", len(files)),
		fmt.Sprintf("%d", passes),
		fmt.Sprintf("%d", removed),
		"",
	})
	table.Render()
	return buffer.String()
}
