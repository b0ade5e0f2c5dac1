/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/weatherchart/dataset-tools/internal/csvio"
)

func writeDataFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestFilterCharts(t *testing.T) {
	dir := t.TempDir()
	input := writeDataFile(t, dir, "charts.csv",
		"title,rank,date,artist,url,region,chart,trend,streams\n"+
			"Shape of You,1,2017-01-06,Ed Sheeran,https://x,Argentina,top200,UP,253019\n"+
			"Reggaetón Lento,2,2017-01-06,CNCO,https://y,Argentina,top200,DOWN,223988\n"+
			"Safari,3,2017-01-06,\"J Balvin, Pharrell Williams\",https://z,Ecuador,top200,UP,210943\n")
	output := filepath.Join(dir, "charts_cleaned.csv")

	// chunk size 2 so the three rows span two chunks
	rowsRead, rowsWritten, err := filterCharts(FilterChartsConfig{Input: input, Output: output, ChunkSize: 2})
	if err != nil {
		t.Fatalf("filterCharts: %v", err)
	}
	if rowsRead != 3 {
		t.Errorf("expected 3 rows read, got %d", rowsRead)
	}
	if rowsWritten != 3 {
		t.Errorf("expected 3 rows written, got %d", rowsWritten)
	}

	table, err := csvio.LoadTable(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !reflect.DeepEqual(table.Header, []string{"title", "date", "artist", "region"}) {
		t.Errorf("expected the projected header, got %v", table.Header)
	}
	want := [][]string{
		{"Shape of You", "2017-01-06", "Ed Sheeran", "Argentina"},
		{"Reggaetón Lento", "2017-01-06", "CNCO", "Argentina"},
		{"Safari", "2017-01-06", "J Balvin, Pharrell Williams", "Ecuador"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("expected %v, got %v", want, table.Rows)
	}
}

func TestFilterChartsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := writeDataFile(t, dir, "charts.csv", "title,date,artist\na,2020-01-01,b\n")

	_, _, err := filterCharts(FilterChartsConfig{Input: input, Output: filepath.Join(dir, "out.csv"), ChunkSize: 10})
	if err == nil {
		t.Fatal("expected an error for the missing region column")
	}
	if !strings.Contains(err.Error(), "region") {
		t.Errorf("expected the error to name the missing column, got %q", err)
	}
}
