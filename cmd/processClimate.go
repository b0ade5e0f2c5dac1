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
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
	"github.com/weatherchart/dataset-tools/internal/report"
)

type ProcessClimateConfig struct {
	Input   string
	Output  string
	MinYear int
}

var processClimateCmd = &cobra.Command{
	Use:   "process-climate",
	Short: "Builds per-country monthly temperature profiles",
	Long: `Reduces the historical land-temperature readings to a mean temperature
per country and calendar month, keeping only the modern era. Readings
with no temperature are dropped.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doProcessClimate(processClimateConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processClimateCmd)

	var input string
	processClimateCmd.Flags().StringVar(&input, "input", "", "temperature readings (default <data-dir>/GlobalLandTemperaturesByCountry.csv)")
	viper.BindPFlag("process-climate.input", processClimateCmd.Flags().Lookup("input"))

	var output string
	processClimateCmd.Flags().StringVar(&output, "output", "", "monthly profiles output (default <data-dir>/country_monthly_temps.csv)")
	viper.BindPFlag("process-climate.output", processClimateCmd.Flags().Lookup("output"))

	var minYear int
	processClimateCmd.Flags().IntVar(&minYear, "min-year", 1970, "ignore readings from before this year")
	viper.BindPFlag("process-climate.min-year", processClimateCmd.Flags().Lookup("min-year"))
}

func processClimateConfigFromViper() ProcessClimateConfig {
	return ProcessClimateConfig{
		Input:   dataPath(viper.GetString("process-climate.input"), "GlobalLandTemperaturesByCountry.csv"),
		Output:  dataPath(viper.GetString("process-climate.output"), "country_monthly_temps.csv"),
		MinYear: viper.GetInt("process-climate.min-year"),
	}
}

func doProcessClimate(config ProcessClimateConfig) error {
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("process-climate", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := processClimate(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

func processClimate(config ProcessClimateConfig) (rowsRead, rowsWritten int64, err error) {
	fmt.Println("Loading climate data...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	indices, err := csvio.Indices(reader.Header(), []string{"dt", "AverageTemperature", "Country"})
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.Input, err)
	}
	dtIdx, tempIdx, countryIdx := indices[0], indices[1], indices[2]

	fmt.Printf("Averaging readings from %d onwards...\n", config.MinYear)
	agg := dataset.NewClimateAggregator(config.MinYear)
	for {
		batch, err := reader.Next(100000)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rowsRead, 0, err
		}

		for i, record := range batch {
			dt := csvio.Field(record, dtIdx)
			country := csvio.Field(record, countryIdx)
			temp := csvio.Field(record, tempIdx)
			if err := agg.Add(dt, country, temp); err != nil {
				return rowsRead, 0, fmt.Errorf("%s row %d: %w", config.Input, rowsRead+int64(i)+2, err)
			}
		}
		rowsRead += int64(len(batch))
	}

	rows := agg.Rows()
	fmt.Printf("Read %d readings; %d (country, month) profiles.\n", rowsRead, len(rows))

	sample := rows
	if len(sample) > 12 {
		sample = sample[:12]
	}
	fmt.Println(report.Report{Header: agg.Header(), Rows: sample, Summary: "Sample profiles"})

	complete, total := agg.CompleteProfiles()
	fmt.Printf("Countries with 12 months of data: %d / %d\n", complete, total)

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := sink.WriteHeader(agg.Header()); err != nil {
		sink.Close()
		return rowsRead, 0, err
	}
	if err := sink.WriteAll(rows); err != nil {
		sink.Close()
		return rowsRead, sink.Rows(), err
	}
	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}

	fmt.Printf("Saved to %s\n", config.Output)
	return rowsRead, sink.Rows(), nil
}
