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
	"github.com/weatherchart/dataset-tools/internal/resolve"
)

type JoinEconomyConfig struct {
	Input     string
	Economy   string
	Output    string
	ChunkSize int
}

var joinEconomyCmd = &cobra.Command{
	Use:   "join-economy",
	Short: "Left-joins chart rows with country economy data",
	Long: `Resolves each region against the economy table by exact normalized
match and attaches continent, population and GDP per capita. The
region spellings in both files come from curated sources, so no
alias table is applied; anything unmatched is printed in full.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doJoinEconomy(joinEconomyConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(joinEconomyCmd)

	var input string
	joinEconomyCmd.Flags().StringVar(&input, "input", "", "dataset to join (default <data-dir>/final_dataset_v2.csv)")
	viper.BindPFlag("join-economy.input", joinEconomyCmd.Flags().Lookup("input"))

	var economy string
	joinEconomyCmd.Flags().StringVar(&economy, "economy", "", "economy table (default <data-dir>/country_economy.csv)")
	viper.BindPFlag("join-economy.economy", joinEconomyCmd.Flags().Lookup("economy"))

	var output string
	joinEconomyCmd.Flags().StringVar(&output, "output", "", "joined output (default <data-dir>/final_dataset_v3.csv)")
	viper.BindPFlag("join-economy.output", joinEconomyCmd.Flags().Lookup("output"))

	var chunkSize int
	joinEconomyCmd.Flags().IntVar(&chunkSize, "chunk-size", 500000, "rows per processing chunk")
	viper.BindPFlag("join-economy.chunk-size", joinEconomyCmd.Flags().Lookup("chunk-size"))
}

func joinEconomyConfigFromViper() JoinEconomyConfig {
	return JoinEconomyConfig{
		Input:     dataPath(viper.GetString("join-economy.input"), "final_dataset_v2.csv"),
		Economy:   dataPath(viper.GetString("join-economy.economy"), "country_economy.csv"),
		Output:    dataPath(viper.GetString("join-economy.output"), "final_dataset_v3.csv"),
		ChunkSize: viper.GetInt("join-economy.chunk-size"),
	}
}

func doJoinEconomy(config JoinEconomyConfig) error {
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", config.ChunkSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}
	if err := requireFile(config.Economy); err != nil {
		return err
	}

	led := startRun("join-economy", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, unmatched, err := joinEconomy(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.recordUnmatched("region", unmatched)
	led.finish(rowsRead, rowsWritten)
	return nil
}

func joinEconomy(config JoinEconomyConfig) (rowsRead, rowsWritten int64, unmatched map[string]int64, err error) {
	fmt.Println("Loading economy data...")
	economy, err := csvio.LoadTable(config.Economy)
	if err != nil {
		return 0, 0, nil, err
	}

	names, err := economy.Column("country")
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", config.Economy, err)
	}
	index := resolve.NewIndex(names)
	fmt.Printf("Loaded %d countries from economy file.\n", index.Len())

	fmt.Println("Scanning unique regions from main dataset...")
	regions, _, err := csvio.UniqueColumn(config.Input, "region", config.ChunkSize)
	if err != nil {
		return 0, 0, nil, err
	}
	fmt.Printf("Unique regions found: %d\n", len(regions))

	resolver := &resolve.Resolver{Index: index}
	mapping, stats := resolver.ResolveAll(regions)
	fmt.Printf("Matched regions: %d/%d\n", stats.Matched, stats.Total)
	if len(stats.Unmatched) > 0 {
		fmt.Printf("Unmatched regions: %v\n", stats.Unmatched)
	}

	// Payload rows keyed by the economy file's own country spelling.
	countryCol, _ := economy.Col("country")
	var payloadHeader []string
	var payloadCols []int
	for i, name := range economy.Header {
		if i == countryCol {
			continue
		}
		payloadHeader = append(payloadHeader, name)
		payloadCols = append(payloadCols, i)
	}

	payload := make(map[string][]string, len(economy.Rows))
	for _, row := range economy.Rows {
		name := csvio.Field(row, countryCol)
		if _, seen := payload[name]; seen {
			continue
		}
		cells := make([]string, len(payloadCols))
		for i, c := range payloadCols {
			cells[i] = csvio.Field(row, c)
		}
		payload[name] = cells
	}
	empty := make([]string, len(payloadHeader))

	fmt.Println("Joining economy data...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, nil, err
	}
	defer reader.Close()

	indices, err := csvio.Indices(reader.Header(), []string{"region"})
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", config.Input, err)
	}
	regionIdx := indices[0]
	inHeader := reader.Header()

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return 0, 0, nil, err
	}
	outHeader := append(append([]string{}, inHeader...), payloadHeader...)
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
			raw := csvio.Field(record, regionIdx)
			cells := empty
			matched := false
			if canonical := mapping[raw]; canonical != "" {
				if p, ok := payload[canonical]; ok {
					cells = p
					matched = true
				}
			}
			if !matched {
				unmatched[raw]++
			}

			row := make([]string, 0, len(outHeader))
			for c := range inHeader {
				row = append(row, csvio.Field(record, c))
			}
			row = append(row, cells...)
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
