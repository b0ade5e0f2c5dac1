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
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weatherchart/dataset-tools/internal/countries"
	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
	"github.com/weatherchart/dataset-tools/internal/resolve"
)

type JoinClimateConfig struct {
	Input     string
	Climate   string
	Output    string
	ChunkSize int
}

var joinClimateCmd = &cobra.Command{
	Use:   "join-climate",
	Short: "Left-joins chart rows with monthly temperatures",
	Long: `Derives the calendar month from each row's date, resolves the region
against the climate countries (exact match, then the alias table for
spellings like "usa"), and attaches the matching monthly mean
temperature. Every row is kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doJoinClimate(joinClimateConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(joinClimateCmd)

	var input string
	joinClimateCmd.Flags().StringVar(&input, "input", "", "dataset to join (default <data-dir>/final_dataset.csv)")
	viper.BindPFlag("join-climate.input", joinClimateCmd.Flags().Lookup("input"))

	var climate string
	joinClimateCmd.Flags().StringVar(&climate, "climate", "", "monthly profiles (default <data-dir>/country_monthly_temps.csv)")
	viper.BindPFlag("join-climate.climate", joinClimateCmd.Flags().Lookup("climate"))

	var output string
	joinClimateCmd.Flags().StringVar(&output, "output", "", "joined output (default <data-dir>/final_dataset_v2.csv)")
	viper.BindPFlag("join-climate.output", joinClimateCmd.Flags().Lookup("output"))

	var chunkSize int
	joinClimateCmd.Flags().IntVar(&chunkSize, "chunk-size", 500000, "rows per processing chunk")
	viper.BindPFlag("join-climate.chunk-size", joinClimateCmd.Flags().Lookup("chunk-size"))
}

func joinClimateConfigFromViper() JoinClimateConfig {
	return JoinClimateConfig{
		Input:     dataPath(viper.GetString("join-climate.input"), "final_dataset.csv"),
		Climate:   dataPath(viper.GetString("join-climate.climate"), "country_monthly_temps.csv"),
		Output:    dataPath(viper.GetString("join-climate.output"), "final_dataset_v2.csv"),
		ChunkSize: viper.GetInt("join-climate.chunk-size"),
	}
}

func doJoinClimate(config JoinClimateConfig) error {
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", config.ChunkSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}
	if err := requireFile(config.Climate); err != nil {
		return err
	}

	led := startRun("join-climate", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, unmatched, err := joinClimate(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.recordUnmatched("region", unmatched)
	led.finish(rowsRead, rowsWritten)
	return nil
}

func joinClimate(config JoinClimateConfig) (rowsRead, rowsWritten int64, unmatched map[string]int64, err error) {
	fmt.Println("Loading climate profiles...")
	climate, err := csvio.LoadTable(config.Climate)
	if err != nil {
		return 0, 0, nil, err
	}

	cols, err := csvio.Indices(climate.Header, []string{"country", "month", "avg_temp"})
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", config.Climate, err)
	}
	countryCol, monthCol, tempCol := cols[0], cols[1], cols[2]

	names, err := climate.Column("country")
	if err != nil {
		return 0, 0, nil, err
	}
	index := resolve.NewIndex(names)
	fmt.Printf("Unique climate countries: %d\n", index.Len())

	// country -> month -> mean temperature
	temps := make(map[string]map[int]string)
	for _, row := range climate.Rows {
		m, err := strconv.Atoi(csvio.Field(row, monthCol))
		if err != nil {
			return 0, 0, nil, fmt.Errorf("%s: bad month %q: %w", config.Climate, csvio.Field(row, monthCol), err)
		}
		name := csvio.Field(row, countryCol)
		if temps[name] == nil {
			temps[name] = make(map[int]string, 12)
		}
		temps[name][m] = csvio.Field(row, tempCol)
	}

	fmt.Println("Loading unique regions from main dataset...")
	regions, _, err := csvio.UniqueColumn(config.Input, "region", config.ChunkSize)
	if err != nil {
		return 0, 0, nil, err
	}
	fmt.Printf("Unique regions found: %d\n", len(regions))

	resolver := &resolve.Resolver{Index: index, Overrides: countries.ClimateOverrides()}
	mapping, stats := resolver.ResolveAll(regions)
	fmt.Printf("Matched regions: %d/%d\n", stats.Matched, stats.Total)
	if len(stats.Unmatched) > 0 {
		topUnmatched := stats.Unmatched
		if len(topUnmatched) > 10 {
			topUnmatched = topUnmatched[:10]
		}
		fmt.Printf("Unmatched regions (top 10): %v\n", topUnmatched)
	}

	fmt.Println("Joining climate data...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, nil, err
	}
	defer reader.Close()

	indices, err := csvio.Indices(reader.Header(), []string{"date", "region"})
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", config.Input, err)
	}
	dateIdx, regionIdx := indices[0], indices[1]
	inHeader := reader.Header()

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return 0, 0, nil, err
	}
	outHeader := append(append([]string{}, inHeader...), "month", "avg_temp")
	if err := sink.WriteHeader(outHeader); err != nil {
		sink.Close()
		return 0, 0, nil, err
	}

	unmatched = make(map[string]int64)
	progress := csvio.NewProgress()
	for {
		batch, err := reader.Next(config.ChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.Close()
			return rowsRead, sink.Rows(), unmatched, err
		}
		rowsRead += int64(len(batch))

		out := make([][]string, len(batch))
		for i, record := range batch {
			monthCell := ""
			tempCell := ""
			month, monthOK := dataset.MonthFromDate(csvio.Field(record, dateIdx))
			if monthOK {
				monthCell = strconv.Itoa(month)
			}

			raw := csvio.Field(record, regionIdx)
			canonical := mapping[raw]
			if canonical == "" {
				unmatched[raw]++
			} else if monthOK {
				tempCell = temps[canonical][month]
			}

			row := make([]string, 0, len(outHeader))
			for c := range inHeader {
				row = append(row, csvio.Field(record, c))
			}
			row = append(row, monthCell, tempCell)
			out[i] = row
		}

		if err := sink.WriteAll(out); err != nil {
			sink.Close()
			return rowsRead, sink.Rows(), unmatched, err
		}
		progress.Mark()
	}
	progress.Finish()

	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), unmatched, err
	}

	fmt.Printf("Join complete. Saved %d rows to %s\n", sink.Rows(), config.Output)
	return rowsRead, sink.Rows(), unmatched, nil
}
