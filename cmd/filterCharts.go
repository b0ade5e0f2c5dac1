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
)

type FilterChartsConfig struct {
	Input     string
	Output    string
	ChunkSize int
}

// chartColumns are the columns the downstream joins need; the rest of the
// chart dump (rank, url, streams, trend) is dead weight.
var chartColumns = []string{"title", "date", "artist", "region"}

var filterChartsCmd = &cobra.Command{
	Use:   "filter-charts",
	Short: "Projects the raw chart dump down to the join columns",
	Long: `Streams the chart dump in row chunks, keeping only title, date, artist,
and region. The dump is too large to load at once.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doFilterCharts(filterChartsConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(filterChartsCmd)

	var input string
	filterChartsCmd.Flags().StringVar(&input, "input", "", "chart dump to filter (default <data-dir>/charts.csv)")
	viper.BindPFlag("filter-charts.input", filterChartsCmd.Flags().Lookup("input"))

	var output string
	filterChartsCmd.Flags().StringVar(&output, "output", "", "filtered output (default <data-dir>/charts_cleaned.csv)")
	viper.BindPFlag("filter-charts.output", filterChartsCmd.Flags().Lookup("output"))

	var chunkSize int
	filterChartsCmd.Flags().IntVar(&chunkSize, "chunk-size", 100000, "rows per processing chunk")
	viper.BindPFlag("filter-charts.chunk-size", filterChartsCmd.Flags().Lookup("chunk-size"))
}

func filterChartsConfigFromViper() FilterChartsConfig {
	return FilterChartsConfig{
		Input:     dataPath(viper.GetString("filter-charts.input"), "charts.csv"),
		Output:    dataPath(viper.GetString("filter-charts.output"), "charts_cleaned.csv"),
		ChunkSize: viper.GetInt("filter-charts.chunk-size"),
	}
}

func doFilterCharts(config FilterChartsConfig) error {
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", config.ChunkSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("filter-charts", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := filterCharts(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

func filterCharts(config FilterChartsConfig) (rowsRead, rowsWritten int64, err error) {
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	cols, err := csvio.Indices(reader.Header(), chartColumns)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.Input, err)
	}

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return 0, 0, err
	}

	if err := sink.WriteHeader(chartColumns); err != nil {
		sink.Close()
		return 0, 0, err
	}

	progress := csvio.NewProgress()
	for {
		batch, err := reader.Next(config.ChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.Close()
			return rowsRead, sink.Rows(), err
		}
		rowsRead += int64(len(batch))

		out := make([][]string, len(batch))
		for i, record := range batch {
			row := make([]string, len(cols))
			for j, c := range cols {
				row[j] = csvio.Field(record, c)
			}
			out[i] = row
		}

		if err := sink.WriteAll(out); err != nil {
			sink.Close()
			return rowsRead, sink.Rows(), err
		}
		progress.Mark()
	}
	progress.Finish()

	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}

	fmt.Printf("Filtering complete. Saved %d rows to %s\n", sink.Rows(), config.Output)
	return rowsRead, sink.Rows(), nil
}
