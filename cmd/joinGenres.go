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

type JoinGenresConfig struct {
	Input     string
	Genres    string
	Output    string
	ChunkSize int
}

var joinGenresCmd = &cobra.Command{
	Use:   "join-genres",
	Short: "Left-joins chart rows with per-artist genre data",
	Long: `Matches each chart artist against the per-artist table: exact
normalized match first, then the primary name of composite credits
like "A feat. B". Every chart row is kept; unmatched artists get
empty genre fields and are tallied in the run ledger.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doJoinGenres(joinGenresConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(joinGenresCmd)

	var input string
	joinGenresCmd.Flags().StringVar(&input, "input", "", "chart rows to join (default <data-dir>/charts_cleaned.csv)")
	viper.BindPFlag("join-genres.input", joinGenresCmd.Flags().Lookup("input"))

	var genres string
	joinGenresCmd.Flags().StringVar(&genres, "genres", "", "per-artist table (default <data-dir>/artist_genres.csv)")
	viper.BindPFlag("join-genres.genres", joinGenresCmd.Flags().Lookup("genres"))

	var output string
	joinGenresCmd.Flags().StringVar(&output, "output", "", "joined output (default <data-dir>/final_dataset.csv)")
	viper.BindPFlag("join-genres.output", joinGenresCmd.Flags().Lookup("output"))

	var chunkSize int
	joinGenresCmd.Flags().IntVar(&chunkSize, "chunk-size", 500000, "rows per processing chunk")
	viper.BindPFlag("join-genres.chunk-size", joinGenresCmd.Flags().Lookup("chunk-size"))
}

func joinGenresConfigFromViper() JoinGenresConfig {
	return JoinGenresConfig{
		Input:     dataPath(viper.GetString("join-genres.input"), "charts_cleaned.csv"),
		Genres:    dataPath(viper.GetString("join-genres.genres"), "artist_genres.csv"),
		Output:    dataPath(viper.GetString("join-genres.output"), "final_dataset.csv"),
		ChunkSize: viper.GetInt("join-genres.chunk-size"),
	}
}

func doJoinGenres(config JoinGenresConfig) error {
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", config.ChunkSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}
	if err := requireFile(config.Genres); err != nil {
		return err
	}

	led := startRun("join-genres", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, unmatched, err := joinGenres(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.recordUnmatched("artist", unmatched)
	led.finish(rowsRead, rowsWritten)
	return nil
}

func joinGenres(config JoinGenresConfig) (rowsRead, rowsWritten int64, unmatched map[string]int64, err error) {
	fmt.Println("Loading genres data...")
	genres, err := csvio.LoadTable(config.Genres)
	if err != nil {
		return 0, 0, nil, err
	}

	names, err := genres.Column("artist")
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", config.Genres, err)
	}
	index := resolve.NewIndex(names)
	if len(index.Duplicates) > 0 {
		fmt.Printf("Warning: %d artist names collide under normalization; first spelling kept.\n", len(index.Duplicates))
	}
	fmt.Printf("Loaded %d unique artists from genres file.\n", index.Len())

	fmt.Println("Scanning unique artists from charts file...")
	artists, _, err := csvio.UniqueColumn(config.Input, "artist", config.ChunkSize)
	if err != nil {
		return 0, 0, nil, err
	}
	fmt.Printf("Found %d unique artists in charts file.\n", len(artists))

	fmt.Println("Building artist mapping...")
	resolver := &resolve.Resolver{Index: index, SplitComposites: true}
	mapping, stats := resolver.ResolveAll(artists)
	fmt.Printf("Mapping complete. Matched: %d (%.2f%%) | Unmatched: %d\n",
		stats.Matched, stats.MatchRate()*100, len(stats.Unmatched))

	// Payload rows keyed by the genre file's own spelling: every column
	// except the artist key, which the chart side already carries.
	artistCol, _ := genres.Col("artist")
	var payloadHeader []string
	var payloadCols []int
	for i, name := range genres.Header {
		if i == artistCol {
			continue
		}
		payloadHeader = append(payloadHeader, name)
		payloadCols = append(payloadCols, i)
	}

	payload := make(map[string][]string, len(genres.Rows))
	for _, row := range genres.Rows {
		name := csvio.Field(row, artistCol)
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

	fmt.Println("Joining...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, nil, err
	}
	defer reader.Close()

	indices, err := csvio.Indices(reader.Header(), []string{"artist"})
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", config.Input, err)
	}
	artistIdx := indices[0]
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
			raw := csvio.Field(record, artistIdx)
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
