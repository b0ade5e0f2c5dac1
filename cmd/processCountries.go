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

	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
	"github.com/weatherchart/dataset-tools/internal/report"
)

type ProcessCountriesConfig struct {
	Input  string
	Output string
}

var processCountriesCmd = &cobra.Command{
	Use:   "process-countries",
	Short: "Extracts the socioeconomic columns from the country table",
	Long: `Keeps country, continent, population, and GDP per capita, prints a
data-quality report, and lowercases the header for the join stages.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doProcessCountries(processCountriesConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processCountriesCmd)

	var input string
	processCountriesCmd.Flags().StringVar(&input, "input", "", "country table (default <data-dir>/countries.csv)")
	viper.BindPFlag("process-countries.input", processCountriesCmd.Flags().Lookup("input"))

	var output string
	processCountriesCmd.Flags().StringVar(&output, "output", "", "economy output (default <data-dir>/country_economy.csv)")
	viper.BindPFlag("process-countries.output", processCountriesCmd.Flags().Lookup("output"))
}

func processCountriesConfigFromViper() ProcessCountriesConfig {
	return ProcessCountriesConfig{
		Input:  dataPath(viper.GetString("process-countries.input"), "countries.csv"),
		Output: dataPath(viper.GetString("process-countries.output"), "country_economy.csv"),
	}
}

func doProcessCountries(config ProcessCountriesConfig) error {
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("process-countries", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := processCountries(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

func processCountries(config ProcessCountriesConfig) (rowsRead, rowsWritten int64, err error) {
	fmt.Println("Loading countries file...")
	table, err := csvio.LoadTable(config.Input)
	if err != nil {
		return 0, 0, err
	}
	rowsRead = int64(len(table.Rows))
	fmt.Printf("Original shape: %d rows x %d columns\n", len(table.Rows), len(table.Header))

	keep := []string{"Country", "Continent", "Population", "GDP_per_capita"}
	economy, err := table.Project(keep)
	if err != nil {
		return rowsRead, 0, fmt.Errorf("%s: %w", config.Input, err)
	}

	fmt.Println("\n--- Data Quality Report ---")
	if err := printCountryQuality(economy, "Country", []string{"Population", "GDP_per_capita"}, "Continent"); err != nil {
		return rowsRead, 0, err
	}

	err = economy.Rename(map[string]string{
		"Country":        "country",
		"Continent":      "continent",
		"Population":     "population",
		"GDP_per_capita": "gdp_per_capita",
	})
	if err != nil {
		return rowsRead, 0, err
	}

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := sink.WriteHeader(economy.Header); err != nil {
		sink.Close()
		return rowsRead, 0, err
	}
	if err := sink.WriteAll(economy.Rows); err != nil {
		sink.Close()
		return rowsRead, sink.Rows(), err
	}
	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}

	fmt.Printf("Saved %d countries to %s\n", sink.Rows(), config.Output)
	return rowsRead, sink.Rows(), nil
}

// printCountryQuality renders the shared data-quality sections: null counts,
// duplicate keys, numeric describes, and the categorical distribution.
func printCountryQuality(t *csvio.Table, keyCol string, numericCols []string, distCol string) error {
	nullRows := make([][]string, 0, len(t.Header))
	for _, name := range t.Header {
		values, err := t.Column(name)
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

	keys, err := t.Column(keyCol)
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
	fmt.Printf("Duplicate %s rows: %d\n", keyCol, dupes)

	statRows := make([][]string, 0, len(numericCols))
	for _, name := range numericCols {
		values, err := t.Column(name)
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

	if distCol != "" {
		values, err := t.Column(distCol)
		if err != nil {
			return err
		}
		counts := dataset.SortedByCount(dataset.CountLabels(values))
		distRows := make([][]string, len(counts))
		for i, lc := range counts {
			distRows[i] = []string{lc.Label, strconv.Itoa(lc.Count)}
		}
		fmt.Println(report.Report{Header: []string{distCol, "Countries"}, Rows: distRows})
	}
	return nil
}
