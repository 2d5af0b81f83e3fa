package bench

import (
	"fmt"
	"io"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func headerFmt(format string, vals ...any) string {
	return headerStyle.Render(fmt.Sprintf(format, vals...))
}

// Render prints one row per measured call with a column per variant,
// followed by build times and the trie node count.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "%s entries, sample word %q\n\n", utils.FormatWithCommas(int64(r.Entries)), r.Sample)
	if len(r.Results) == 0 {
		return
	}

	columns := []any{"call"}
	for _, res := range r.Results {
		columns = append(columns, res.Kind.String())
	}

	tbl := table.New(columns...).WithWriter(w).WithHeaderFormatter(headerFmt)
	for i, t := range r.Results[0].Timings {
		row := []any{t.Label()}
		for _, res := range r.Results {
			row = append(row, res.Timings[i].PerCall)
		}
		tbl.AddRow(row...)
	}
	tbl.Print()
	fmt.Fprintln(w)

	summary := table.New("variant", "build", "nodes").WithWriter(w).WithHeaderFormatter(headerFmt)
	for _, res := range r.Results {
		nodes := "-"
		if res.Nodes > 0 {
			nodes = utils.FormatWithCommas(int64(res.Nodes))
		}
		summary.AddRow(res.Kind.String(), res.Build, nodes)
	}
	summary.Print()
}
