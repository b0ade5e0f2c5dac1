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
)

type ProcessGenresConfig struct {
	Input  string
	Output string
}

var processGenresCmd = &cobra.Command{
	Use:   "process-genres",
	Short: "Aggregates the track table into one row per artist",
	Long: `Explodes the ;-separated artists column, then groups by artist: the
distinct genres become a list and each audio feature becomes its mean
across the artist's tracks.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doProcessGenres(processGenresConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processGenresCmd)

	var input string
	processGenresCmd.Flags().StringVar(&input, "input", "", "track table to aggregate (default <data-dir>/genres.csv)")
	viper.BindPFlag("process-genres.input", processGenresCmd.Flags().Lookup("input"))

	var output string
	processGenresCmd.Flags().StringVar(&output, "output", "", "per-artist output (default <data-dir>/artist_genres.csv)")
	viper.BindPFlag("process-genres.output", processGenresCmd.Flags().Lookup("output"))
}

func processGenresConfigFromViper() ProcessGenresConfig {
	return ProcessGenresConfig{
		Input:  dataPath(viper.GetString("process-genres.input"), "genres.csv"),
		Output: dataPath(viper.GetString("process-genres.output"), "artist_genres.csv"),
	}
}

func doProcessGenres(config ProcessGenresConfig) error {
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("process-genres", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := processGenres(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

func processGenres(config ProcessGenresConfig) (rowsRead, rowsWritten int64, err error) {
	fmt.Println("Loading genres file...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	audio := dataset.AudioFeatures()
	required := append([]string{"artists", "track_genre"}, audio...)
	indices, err := csvio.Indices(reader.Header(), required)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.Input, err)
	}

	agg := dataset.NewArtistAggregator(audio)
	for {
		batch, err := reader.Next(100000)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rowsRead, 0, err
		}

		for i, record := range batch {
			numerics := make([]string, len(audio))
			for j := range audio {
				numerics[j] = csvio.Field(record, indices[2+j])
			}
			artists := csvio.Field(record, indices[0])
			genre := csvio.Field(record, indices[1])
			if err := agg.Add(artists, genre, numerics); err != nil {
				// +2: one for the header, one because rows are 1-indexed.
				return rowsRead, 0, fmt.Errorf("%s row %d: %w", config.Input, rowsRead+int64(i)+2, err)
			}
		}
		rowsRead += int64(len(batch))
	}

	fmt.Printf("Read %d track rows.\n", rowsRead)
	fmt.Printf("Unique artists found: %d\n", agg.Len())

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := sink.WriteHeader(agg.Header()); err != nil {
		sink.Close()
		return rowsRead, 0, err
	}
	if err := sink.WriteAll(agg.Rows()); err != nil {
		sink.Close()
		return rowsRead, sink.Rows(), err
	}
	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}

	fmt.Printf("Saved %d artists to %s\n", sink.Rows(), config.Output)
	return rowsRead, sink.Rows(), nil
}
