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
	"strings"
	"testing"

	"github.com/weatherchart/dataset-tools/internal/csvio"
)

func TestProcessClimate(t *testing.T) {
	dir := t.TempDir()
	input := writeDataFile(t, dir, "GlobalLandTemperaturesByCountry.csv",
		"dt,AverageTemperature,AverageTemperatureUncertainty,Country\n"+
			"1969-12-01,5.0,0.3,Brazil\n"+ // before the modern-era cutoff
			"1970-01-01,25.5,0.3,Brazil\n"+
			"1971-01-01,26.5,0.3,Brazil\n"+
			"1970-02-01,,0.3,Brazil\n"+ // reading with no temperature
			"1970-02-01,24.25,0.3,Brazil\n"+
			"1970-01-01,2.5,0.3,Albania\n")
	output := filepath.Join(dir, "country_monthly_temps.csv")

	rowsRead, rowsWritten, err := processClimate(ProcessClimateConfig{Input: input, Output: output, MinYear: 1970})
	if err != nil {
		t.Fatalf("processClimate: %v", err)
	}
	if rowsRead != 6 {
		t.Errorf("expected 6 readings read, got %d", rowsRead)
	}
	if rowsWritten != 3 {
		t.Errorf("expected 3 profiles written, got %d", rowsWritten)
	}

	table, err := csvio.LoadTable(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !reflect.DeepEqual(table.Header, []string{"country", "month", "avg_temp"}) {
		t.Errorf("expected the profile header, got %v", table.Header)
	}
	want := [][]string{
		{"Albania", "1", "2.5"},
		{"Brazil", "1", "26"},
		{"Brazil", "2", "24.25"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("expected %v, got %v", want, table.Rows)
	}
}

func TestProcessClimateBadTemperature(t *testing.T) {
	dir := t.TempDir()
	input := writeDataFile(t, dir, "readings.csv",
		"dt,AverageTemperature,AverageTemperatureUncertainty,Country\n"+
			"1970-01-01,25.5,0.3,Brazil\n"+
			"1970-02-01,warm,0.3,Brazil\n")

	_, _, err := processClimate(ProcessClimateConfig{Input: input, Output: filepath.Join(dir, "out.csv"), MinYear: 1970})
	if err == nil {
		t.Fatal("expected an error for a non-numeric temperature")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("expected the error to name the offending row, got %q", err)
	}
}
