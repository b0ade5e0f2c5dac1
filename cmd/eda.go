package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
	"github.com/weatherchart/dataset-tools/internal/report"
)

type EdaConfig struct {
	Input      string
	Report     string
	SampleSize int
}

var edaCmd = &cobra.Command{
	Use:   "eda",
	Short: "Writes a statistical summary of the training set",
	Long: `Loads a bounded sample of the training set and writes a text report:
column types and missing values, numeric and categorical describe
tables, and the top regions and genres by row count.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doEda(edaConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(edaCmd)

	var input string
	edaCmd.Flags().StringVar(&input, "input", "", "training set (default <data-dir>/train_dataset.csv)")
	viper.BindPFlag("eda.input", edaCmd.Flags().Lookup("input"))

	var reportPath string
	edaCmd.Flags().StringVar(&reportPath, "report", "", "report output (default <data-dir>/eda_report.txt)")
	viper.BindPFlag("eda.report", edaCmd.Flags().Lookup("report"))

	var sampleSize int
	edaCmd.Flags().IntVar(&sampleSize, "sample-size", 1000000, "rows to sample from the top of the file")
	viper.BindPFlag("eda.sample-size", edaCmd.Flags().Lookup("sample-size"))
}

func edaConfigFromViper() EdaConfig {
	return EdaConfig{
		Input:      dataPath(viper.GetString("eda.input"), "train_dataset.csv"),
		Report:     dataPath(viper.GetString("eda.report"), "eda_report.txt"),
		SampleSize: viper.GetInt("eda.sample-size"),
	}
}

func doEda(config EdaConfig) error {
	if config.SampleSize <= 0 {
		return fmt.Errorf("sample-size must be positive, got %d", config.SampleSize)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("eda", config.Input, config.Report)
	defer led.close()

	rowsRead, err := eda(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, 0)
	return nil
}

func eda(config EdaConfig) (rowsRead int64, err error) {
	fmt.Printf("Loading data sample (%d rows)...\n", config.SampleSize)
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	sample, err := reader.Next(config.SampleSize)
	if err != nil && err != io.EOF {
		return 0, err
	}
	t := csvio.NewTable(reader.Header(), sample)
	rowsRead = int64(len(t.Rows))
	fmt.Printf("Loaded %d rows.\n", len(t.Rows))

	var out strings.Builder
	log := func(msg string) {
		fmt.Println(msg)
		out.WriteString(msg)
		out.WriteByte('\n')
	}

	log("EDA Report")
	log("==========")
	log("")
	log(fmt.Sprintf("Shape of sample: (%d, %d)", len(t.Rows), len(t.Header)))
	log("")

	log("--- Data Types & Missing Values ---")
	typeRows := make([][]string, 0, len(t.Header))
	missingRows := make([][]string, 0, len(t.Header))
	var numericCols, objectCols []string
	for _, name := range t.Header {
		values, err := t.Column(name)
		if err != nil {
			return rowsRead, err
		}
		dtype, nonNull := inferDtype(values)
		typeRows = append(typeRows, []string{name, dtype, strconv.Itoa(nonNull)})
		missingRows = append(missingRows, []string{name, strconv.Itoa(len(values) - nonNull)})
		if dtype == "object" {
			objectCols = append(objectCols, name)
		} else {
			numericCols = append(numericCols, name)
		}
	}
	log(report.Report{Header: []string{"Column", "Dtype", "Non-Null"}, Rows: typeRows}.String())
	log("Total Missing Values:")
	log(report.Report{Header: []string{"Column", "Missing"}, Rows: missingRows}.String())

	log("--- Numerical Statistics ---")
	statRows := make([][]string, 0, len(numericCols))
	for _, name := range numericCols {
		values, err := t.Column(name)
		if err != nil {
			return rowsRead, err
		}
		parsed := make([]float64, 0, len(values))
		for _, v := range values {
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return rowsRead, fmt.Errorf("column %s: bad number %q", name, v)
			}
			parsed = append(parsed, f)
		}
		statRows = append(statRows, report.Describe(name, parsed).Row())
	}
	log(report.Report{Header: report.NumericHeader(), Rows: statRows}.String())

	log("--- Categorical Statistics ---")
	catRows := make([][]string, 0, len(objectCols))
	for _, name := range objectCols {
		values, err := t.Column(name)
		if err != nil {
			return rowsRead, err
		}
		catRows = append(catRows, report.DescribeCategorical(name, values).Row())
	}
	log(report.Report{Header: report.CategoricalHeader(), Rows: catRows}.String())

	log("--- Top 20 Regions (by Data Volume) ---")
	topRegions, err := topValues(t, "region", 20)
	if err != nil {
		return rowsRead, err
	}
	log(report.Report{Header: []string{"Region", "Rows"}, Rows: labelCountRows(topRegions)}.String())

	log("--- Top 20 Genres ---")
	topGenres, err := topValues(t, "track_genre", 20)
	if err != nil {
		return rowsRead, err
	}
	log(report.Report{Header: []string{"Genre", "Rows"}, Rows: labelCountRows(topGenres)}.String())

	if err := os.WriteFile(config.Report, []byte(out.String()), 0644); err != nil {
		return rowsRead, fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("Report saved to %s\n", config.Report)
	return rowsRead, nil
}

// inferDtype mirrors how a dataframe would type a CSV column: integers
// only is int64, anything numeric (or numeric with gaps) is float64, the
// rest is object. The second return is the non-missing count.
func inferDtype(values []string) (string, int) {
	isInt, isFloat := true, true
	hasEmpty := false
	nonNull := 0
	for _, v := range values {
		if v == "" {
			hasEmpty = true
			continue
		}
		nonNull++
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
	}
	switch {
	case isInt && !hasEmpty && nonNull > 0:
		return "int64", nonNull
	case isFloat:
		return "float64", nonNull
	default:
		return "object", nonNull
	}
}

func topValues(t *csvio.Table, column string, n int) ([]dataset.LabelCount, error) {
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	counts := dataset.CountLabels(values)
	delete(counts, "")
	top := dataset.SortedByCount(counts)
	if len(top) > n {
		top = top[:n]
	}
	return top, nil
}
