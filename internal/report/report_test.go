package report

import (
	"strings"
	"testing"
)

func TestReportString(t *testing.T) {
	out := Report{
		Header:  []string{"Region", "Rows"},
		Rows:    [][]string{{"br", "120"}, {"us", "95"}},
		Summary: "2 regions",
	}.String()

	for _, want := range []string{"br", "120", "us", "2 regions"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	// The summary trails the table.
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "2 regions") {
		t.Errorf("expected summary at the end:\n%s", out)
	}
}

func TestReportStringNoSummary(t *testing.T) {
	out := Report{Header: []string{"File"}, Rows: [][]string{{"charts.csv"}}}.String()
	if !strings.Contains(out, "charts.csv") {
		t.Errorf("expected table body:\n%s", out)
	}
	if strings.Contains(out, "Error rendering") {
		t.Errorf("render failed:\n%s", out)
	}
}
