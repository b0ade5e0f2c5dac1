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

	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
	"github.com/weatherchart/dataset-tools/internal/report"
)

type CreateTrainingSetConfig struct {
	Input     string
	Output    string
	ChunkSize int
}

var createTrainingSetCmd = &cobra.Command{
	Use:   "create-training-set",
	Short: "Filters the joined dataset down to complete training rows",
	Long: `Keeps only rows where genre, temperature and unemployment rate are
all present. The unemployment rate comes from the last join, so its
presence implies the other geography fields made it too. Afterwards
the output's region distribution is tallied as a sanity check.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doCreateTrainingSet(createTrainingSetConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(createTrainingSetCmd)

	var input string
	createTrainingSetCmd.Flags().StringVar(&input, "input", "", "dataset to filter (default <data-dir>/final_dataset_v4.csv)")
	viper.BindPFlag("create-training-set.input", createTrainingSetCmd.Flags().Lookup("input"))

	var output string
	createTrainingSetCmd.Flags().StringVar(&output, "output", "", "training set output (default <data-dir>/train_dataset.csv)")
	viper.BindPFlag("create-training-set.output", createTrainingSetCmd.Flags().Lookup("output"))

	var chunkSize int
	createTrainingSetCmd.Flags().IntVar(&chunkSize, "chunk-size", 500000, "rows per processing chunk")
	viper.BindPFlag("create-training-set.chunk-size", createTrainingSetCmd.Flags().Lookup("chunk-size"))
}

func createTrainingSetConfigFromViper() CreateTrainingSetConfig {
	return CreateTrainingSetConfig{
		Input:     dataPath(viper.GetString("create-training-set.input"), "final_dataset_v4.csv"),
		Output:    dataPath(viper.GetString("create-training-set.output"), "train_dataset.csv"),
		ChunkSize: viper.GetInt("create-training-set.chunk-size"),
	}
}

func doCreateTrainingSet(config CreateTrainingSetConfig) error {
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", config.ChunkSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("create-training-set", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := createTrainingSet(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

// Rows missing any of these fields cannot be used for training.
var requiredTrainingColumns = []string{"track_genre", "avg_temp", "unemployment_rate"}

func createTrainingSet(config CreateTrainingSetConfig) (rowsRead, rowsWritten int64, err error) {
	fmt.Println("Filtering joined dataset...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	required, err := csvio.Indices(reader.Header(), requiredTrainingColumns)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.Input, err)
	}

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return 0, 0, err
	}
	if err := sink.WriteHeader(reader.Header()); err != nil {
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

		kept := batch[:0]
		for _, record := range batch {
			complete := true
			for _, c := range required {
				if csvio.Field(record, c) == "" {
					complete = false
					break
				}
			}
			if complete {
				kept = append(kept, record)
			}
		}

		if err := sink.WriteAll(kept); err != nil {
			sink.Close()
			return rowsRead, sink.Rows(), err
		}
		progress.Mark()
	}
	progress.Finish()

	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}
	rowsWritten = sink.Rows()

	fmt.Println("Processing complete.")
	fmt.Printf("Original rows: %d\n", rowsRead)
	fmt.Printf("Training set rows: %d\n", rowsWritten)
	if rowsRead > 0 {
		fmt.Printf("Retention rate: %.2f%%\n", float64(rowsWritten)/float64(rowsRead)*100)
	}

	if err := validateRegionDistribution(config.Output, config.ChunkSize); err != nil {
		return rowsRead, rowsWritten, err
	}
	return rowsRead, rowsWritten, nil
}

// validateRegionDistribution re-reads the written training set and tallies
// rows per region, catching join mistakes that concentrate or erase markets.
func validateRegionDistribution(path string, chunkSize int) error {
	fmt.Println("\nValidating training set distribution...")
	reader, err := csvio.NewChunkReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	indices, err := csvio.Indices(reader.Header(), []string{"region"})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	regionIdx := indices[0]

	counts := make(map[string]int)
	for {
		batch, err := reader.Next(chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		for _, record := range batch {
			if region := csvio.Field(record, regionIdx); region != "" {
				counts[region]++
			}
		}
	}

	ordered := dataset.SortedByCount(counts)
	fmt.Printf("Number of regions in training set: %d\n", len(ordered))

	top := ordered
	if len(top) > 10 {
		top = top[:10]
	}
	fmt.Println("Top 10 regions by row count:")
	fmt.Println(report.Report{Header: []string{"Region", "Rows"}, Rows: labelCountRows(top)})

	bottom := ordered
	if len(bottom) > 5 {
		bottom = bottom[len(bottom)-5:]
	}
	fmt.Println("Bottom 5 regions by row count:")
	fmt.Println(report.Report{Header: []string{"Region", "Rows"}, Rows: labelCountRows(bottom)})
	return nil
}

func labelCountRows(counts []dataset.LabelCount) [][]string {
	rows := make([][]string, len(counts))
	for i, lc := range counts {
		rows[i] = []string{lc.Label, strconv.Itoa(lc.Count)}
	}
	return rows
}
