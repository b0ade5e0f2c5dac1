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
	"github.com/weatherchart/dataset-tools/internal/resolve"
)

type AnalyzeMissingConfig struct {
	Input     string
	Genres    string
	Output    string
	ChunkSize int
}

var analyzeMissingCmd = &cobra.Command{
	Use:   "analyze-missing",
	Short: "Tallies chart rows the genre join left empty",
	Long: `Streams the joined dataset, counts rows with no genre per raw artist
name, prints the worst offenders, and re-checks each against the
per-artist table to flag join bugs. The full tally is written out for
curating override aliases.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doAnalyzeMissing(analyzeMissingConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeMissingCmd)

	var input string
	analyzeMissingCmd.Flags().StringVar(&input, "input", "", "joined dataset to scan (default <data-dir>/final_dataset.csv)")
	viper.BindPFlag("analyze-missing.input", analyzeMissingCmd.Flags().Lookup("input"))

	var genres string
	analyzeMissingCmd.Flags().StringVar(&genres, "genres", "", "per-artist table (default <data-dir>/artist_genres.csv)")
	viper.BindPFlag("analyze-missing.genres", analyzeMissingCmd.Flags().Lookup("genres"))

	var output string
	analyzeMissingCmd.Flags().StringVar(&output, "output", "", "full tally output (default <data-dir>/missing_artists.csv)")
	viper.BindPFlag("analyze-missing.output", analyzeMissingCmd.Flags().Lookup("output"))

	var chunkSize int
	analyzeMissingCmd.Flags().IntVar(&chunkSize, "chunk-size", 1000000, "rows per processing chunk")
	viper.BindPFlag("analyze-missing.chunk-size", analyzeMissingCmd.Flags().Lookup("chunk-size"))
}

func analyzeMissingConfigFromViper() AnalyzeMissingConfig {
	return AnalyzeMissingConfig{
		Input:     dataPath(viper.GetString("analyze-missing.input"), "final_dataset.csv"),
		Genres:    dataPath(viper.GetString("analyze-missing.genres"), "artist_genres.csv"),
		Output:    dataPath(viper.GetString("analyze-missing.output"), "missing_artists.csv"),
		ChunkSize: viper.GetInt("analyze-missing.chunk-size"),
	}
}

func doAnalyzeMissing(config AnalyzeMissingConfig) error {
	if config.ChunkSize <= 0 {
		return fmt.Errorf("chunk-size must be positive, got %d", config.ChunkSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}
	if err := requireFile(config.Genres); err != nil {
		return err
	}

	led := startRun("analyze-missing", config.Input, config.Output)
	defer led.close()

	rowsRead, rowsWritten, err := analyzeMissing(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

func analyzeMissing(config AnalyzeMissingConfig) (rowsRead, rowsWritten int64, err error) {
	fmt.Println("Loading unique artists from genres file...")
	genreArtists, _, err := csvio.UniqueColumn(config.Genres, "artist", 100000)
	if err != nil {
		return 0, 0, err
	}
	index := resolve.NewIndex(genreArtists)

	fmt.Println("Analyzing joined dataset for missing genres...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	indices, err := csvio.Indices(reader.Header(), []string{"artist", "track_genre"})
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.Input, err)
	}
	artistIdx, genreIdx := indices[0], indices[1]

	missing := make(map[string]int)
	var missingRows int64
	progress := csvio.NewProgress()
	for {
		batch, err := reader.Next(config.ChunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return rowsRead, 0, err
		}
		rowsRead += int64(len(batch))

		for _, record := range batch {
			if csvio.Field(record, genreIdx) == "" {
				missing[csvio.Field(record, artistIdx)]++
				missingRows++
			}
		}
		progress.Mark()
	}
	progress.Finish()
	fmt.Println("Analysis complete.")

	sorted := dataset.SortedByCount(missing)

	top := sorted
	if len(top) > 20 {
		top = top[:20]
	}
	rows := make([][]string, len(top))
	for i, lc := range top {
		rows[i] = []string{lc.Label, fmt.Sprintf("%d", lc.Count)}
	}
	fmt.Println(report.Report{
		Header: []string{"Artist", "Rows"},
		Rows:   rows,
		Summary: fmt.Sprintf("%d rows with no genre, across %d unique artists",
			missingRows, len(sorted)),
	})

	fmt.Println("Checking top offenders against the genres file (case-insensitive):")
	for _, lc := range top {
		if _, ok := index.Lookup(resolve.Normalize(lc.Label)); ok {
			fmt.Printf("MATCH FOUND: %q exists in the genres file (why wasn't it matched?)\n", lc.Label)
		} else {
			fmt.Printf("NO MATCH:    %q\n", lc.Label)
		}
	}

	sink, err := csvio.NewSink(config.Output)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := sink.WriteHeader([]string{"artist", "missing_rows"}); err != nil {
		sink.Close()
		return rowsRead, 0, err
	}
	out := make([][]string, len(sorted))
	for i, lc := range sorted {
		out[i] = []string{lc.Label, fmt.Sprintf("%d", lc.Count)}
	}
	if err := sink.WriteAll(out); err != nil {
		sink.Close()
		return rowsRead, sink.Rows(), err
	}
	if err := sink.Close(); err != nil {
		return rowsRead, sink.Rows(), err
	}

	fmt.Printf("Full tally saved to %s\n", config.Output)
	return rowsRead, sink.Rows(), nil
}
