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
	"path/filepath"
	"reflect"
	"testing"

	"github.com/weatherchart/dataset-tools/internal/csvio"
)

func TestJoinClimate(t *testing.T) {
	dir := t.TempDir()
	climate := writeDataFile(t, dir, "country_monthly_temps.csv",
		"country,month,avg_temp\n"+
			"United States,1,0.5\n"+
			"United States,2,1.5\n"+
			"Ecuador,1,24.9\n")
	input := writeDataFile(t, dir, "final_dataset.csv",
		"title,date,artist,region\n"+
			"a,2017-01-06,x,Ecuador\n"+ // direct match
			"b,2017-02-10,y,usa\n"+ // resolved through the alias table
			"c,2017-01-06,z,Global\n"+
			"d,2017-01-13,w,Global\n"+
			"e,,v,usa\n") // no date, so no month to look up
	output := filepath.Join(dir, "final_dataset_v2.csv")

	rowsRead, rowsWritten, unmatched, err := joinClimate(JoinClimateConfig{
		Input:     input,
		Climate:   climate,
		Output:    output,
		ChunkSize: 2,
	})
	if err != nil {
		t.Fatalf("joinClimate: %v", err)
	}
	if rowsRead != 5 {
		t.Errorf("expected 5 rows read, got %d", rowsRead)
	}
	if rowsWritten != 5 {
		t.Errorf("expected every row kept, got %d", rowsWritten)
	}
	if !reflect.DeepEqual(unmatched, map[string]int64{"Global": 2}) {
		t.Errorf("expected Global counted twice as unmatched, got %v", unmatched)
	}

	table, err := csvio.LoadTable(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	wantHeader := []string{"title", "date", "artist", "region", "month", "avg_temp"}
	if !reflect.DeepEqual(table.Header, wantHeader) {
		t.Errorf("expected header %v, got %v", wantHeader, table.Header)
	}
	want := [][]string{
		{"a", "2017-01-06", "x", "Ecuador", "1", "24.9"},
		{"b", "2017-02-10", "y", "usa", "2", "1.5"},
		{"c", "2017-01-06", "z", "Global", "1", ""},
		{"d", "2017-01-13", "w", "Global", "1", ""},
		{"e", "", "v", "usa", "", ""},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("expected %v, got %v", want, table.Rows)
	}
}

func TestJoinClimateBadMonth(t *testing.T) {
	dir := t.TempDir()
	climate := writeDataFile(t, dir, "temps.csv", "country,month,avg_temp\nEcuador,first,24.9\n")
	input := writeDataFile(t, dir, "dataset.csv", "title,date,artist,region\na,2017-01-06,x,Ecuador\n")

	_, _, _, err := joinClimate(JoinClimateConfig{
		Input:     input,
		Climate:   climate,
		Output:    filepath.Join(dir, "out.csv"),
		ChunkSize: 10,
	})
	if err == nil {
		t.Fatal("expected an error for a non-numeric month in the climate file")
	}
}
