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
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weatherchart/dataset-tools/internal/countries"
	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/report"
)

type ProcessLatitudeConfig struct {
	Input  string
	Output string
}

var processLatitudeCmd = &cobra.Command{
	Use:   "process-latitude",
	Short: "Extracts coordinates and education/unemployment figures",
	Long: `Reads the geography file, which is not UTF-8 and stores coordinate
magnitudes without signs. Keeps country, latitude, longitude, tertiary
enrollment and unemployment rate, prints a data-quality report, adds
the missing Hong Kong row, and forces latitude negative for southern
hemisphere countries and longitude negative for western ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doProcessLatitude(processLatitudeConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processLatitudeCmd)

	var input string
	processLatitudeCmd.Flags().StringVar(&input, "input", "", "geography table (default <data-dir>/latitude.csv)")
	viper.BindPFlag("process-latitude.input", processLatitudeCmd.Flags().Lookup("input"))

	var output string
	processLatitudeCmd.Flags().StringVar(&output, "output", "", "geography output (default <data-dir>/country_latitude.csv)")
	viper.BindPFlag("process-latitude.output", processLatitudeCmd.Flags().Lookup("output"))
}

func processLatitudeConfigFromViper() ProcessLatitudeConfig {
	return ProcessLatitudeConfig{
		Input:  dataPath(viper.GetString("process-latitude.input"), "latitude.csv"),
		Output: dataPath(viper.GetString("process-latitude.output"), "country_latitude.csv"),
	}
}

func doProcessLatitude(config ProcessLatitudeConfig) error {
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("process-latitude", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := processLatitude(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

// The geography source's column names, in output order, and what they
// become. New columns must also be added to the numeric describe list and
// the manual Hong Kong row below.
var latitudeColumns = []struct {
	source  string
	renamed string
}{
	{"Countries and areas", "country"},
	{"Latitude", "latitude"},
	{"Longitude", "longitude"},
	{"Gross_Tertiary_Education_Enrollment", "tertiary_enrollment"},
	{"Unemployment_Rate", "unemployment_rate"},
}

func latitudeSourceColumns() []string {
	sources := make([]string, len(latitudeColumns))
	for i, c := range latitudeColumns {
		sources[i] = c.source
	}
	return sources
}

func processLatitude(config ProcessLatitudeConfig) (rowsRead, rowsWritten int64, err error) {
	fmt.Println("Loading latitude file...")
	table, enc, err := csvio.LoadLegacyTable(config.Input)
	if err != nil {
		return 0, 0, err
	}
	fmt.Printf("Decoded as %s.\n", enc)
	rowsRead = int64(len(table.Rows))
	fmt.Printf("Original shape: %d rows x %d columns\n", len(table.Rows), len(table.Header))

	sources := latitudeSourceColumns()
	renames := make(map[string]string, len(latitudeColumns))
	for _, c := range latitudeColumns {
		renames[c.source] = c.renamed
	}
	if err := csvio.RequireColumns(table.Header, sources); err != nil {
		return rowsRead, 0, fmt.Errorf("%s: %w", config.Input, err)
	}

	geo, err := table.Project(sources)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := geo.Rename(renames); err != nil {
		return rowsRead, 0, err
	}

	fmt.Println("\n--- Data Quality Report ---")
	if err := printLatitudeQuality(geo); err != nil {
		return rowsRead, 0, err
	}

	fmt.Println("\nAdding missing Hong Kong data...")
	geo.Rows = append(geo.Rows, []string{"Hong Kong", "22.3193", "114.1694", "84.8", "4.11"})

	corrected, err := correctCoordinateSigns(geo)
	if err != nil {
		return rowsRead, 0, err
	}
	fmt.Printf("Corrected coordinate signs for %d countries.\n", corrected)

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := sink.WriteHeader(geo.Header); err != nil {
		sink.Close()
		return rowsRead, 0, err
	}
	if err := sink.WriteAll(geo.Rows); err != nil {
		sink.Close()
		return rowsRead, sink.Rows(), err
	}
	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}

	fmt.Printf("Saved %d countries to %s\n", sink.Rows(), config.Output)
	return rowsRead, sink.Rows(), nil
}

func printLatitudeQuality(geo *csvio.Table) error {
	numericCols := []string{"latitude", "longitude", "tertiary_enrollment", "unemployment_rate"}
	statRows := make([][]string, 0, len(numericCols))
	for _, name := range numericCols {
		values, err := geo.Column(name)
		if err != nil {
			return err
		}
		parsed := make([]float64, 0, len(values))
		for i, v := range values {
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("column %s row %d: bad number %q", name, i+2, v)
			}
			parsed = append(parsed, f)
		}
		statRows = append(statRows, report.Describe(name, parsed).Row())
	}
	fmt.Println(report.Report{Header: report.NumericHeader(), Rows: statRows})

	nullRows := make([][]string, 0, len(geo.Header))
	for _, name := range geo.Header {
		values, err := geo.Column(name)
		if err != nil {
			return err
		}
		nulls := 0
		for _, v := range values {
			if v == "" {
				nulls++
			}
		}
		nullRows = append(nullRows, []string{name, strconv.Itoa(nulls)})
	}
	fmt.Println(report.Report{Header: []string{"Column", "Nulls"}, Rows: nullRows})

	keys, err := geo.Column("country")
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(keys))
	dupes := 0
	for _, k := range keys {
		if seen[k] {
			dupes++
		}
		seen[k] = true
	}
	fmt.Printf("Duplicate countries: %d\n", dupes)

	// An unemployment rate of exactly zero usually means the figure is
	// missing rather than measured. Surface those rows for review.
	unemp, err := geo.Column("unemployment_rate")
	if err != nil {
		return err
	}
	zeros := 0
	var zeroRows [][]string
	for i, v := range unemp {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("column unemployment_rate row %d: bad number %q", i+2, v)
		}
		if f == 0 {
			zeros++
			if len(zeroRows) < 5 {
				zeroRows = append(zeroRows, geo.Rows[i])
			}
		}
	}
	fmt.Printf("Countries with 0 unemployment: %d\n", zeros)
	if zeros > 0 {
		fmt.Println(report.Report{Header: geo.Header, Rows: zeroRows})
	}
	return nil
}

// correctCoordinateSigns flips the stored magnitudes to signed coordinates
// in place and reports how many countries changed. Cell text is rewritten
// only when a sign actually flips, so values that were already correct
// keep their source formatting.
func correctCoordinateSigns(geo *csvio.Table) (int, error) {
	cols, err := csvio.Indices(geo.Header, []string{"country", "latitude", "longitude"})
	if err != nil {
		return 0, err
	}
	countryIdx, latIdx, longIdx := cols[0], cols[1], cols[2]

	corrector := countries.NewSignCorrector()
	corrected := 0
	for i, row := range geo.Rows {
		latText := csvio.Field(row, latIdx)
		longText := csvio.Field(row, longIdx)

		var lat, long float64
		if latText != "" {
			if lat, err = strconv.ParseFloat(latText, 64); err != nil {
				return corrected, fmt.Errorf("column latitude row %d: bad number %q", i+2, latText)
			}
		}
		if longText != "" {
			if long, err = strconv.ParseFloat(longText, 64); err != nil {
				return corrected, fmt.Errorf("column longitude row %d: bad number %q", i+2, longText)
			}
		}

		newLat, newLong := corrector.Correct(csvio.Field(row, countryIdx), lat, long)
		changed := false
		if newLat != lat {
			row[latIdx] = strconv.FormatFloat(newLat, 'f', -1, 64)
			changed = true
		}
		if newLong != long {
			row[longIdx] = strconv.FormatFloat(newLong, 'f', -1, 64)
			changed = true
		}
		if changed {
			corrected++
		}
	}
	return corrected, nil
}
