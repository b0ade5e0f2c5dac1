package report

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Report is a renderable table plus a trailing summary line.
type Report struct {
	Header  []string
	Rows    [][]string
	Summary string
}

func (r Report) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(r.Header)
	for _, row := range r.Rows {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	if r.Summary != "" {
		fmt.Fprintf(out, "%s\n", r.Summary)
	}
	return out.String()
}
