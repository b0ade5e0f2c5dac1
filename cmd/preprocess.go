package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/stat"

	"github.com/weatherchart/dataset-tools/internal/csvio"
	"github.com/weatherchart/dataset-tools/internal/dataset"
	"github.com/weatherchart/dataset-tools/internal/mlprep"
)

type PreprocessConfig struct {
	Input         string
	OutputDir     string
	SampleSize    int
	TestSize      float64
	Seed          int64
	MinGenreCount int
}

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Encodes, splits and scales the training set for modelling",
	Long: `Runs the model preparation steps: drop identifier columns, extract
the primary genre, drop rare genres, label encode the categoricals
and the target, split train/test stratified by genre, then scale the
numeric features with statistics fitted on the training partition
only. Writes the four Parquet splits, the preprocessing artifacts as
YAML, and a text report of every step.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doPreprocess(preprocessConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(preprocessCmd)

	var input string
	preprocessCmd.Flags().StringVar(&input, "input", "", "training set (default <data-dir>/train_dataset.csv)")
	viper.BindPFlag("preprocess.input", preprocessCmd.Flags().Lookup("input"))

	var outputDir string
	preprocessCmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the Parquet splits and artifacts (default <data-dir>)")
	viper.BindPFlag("preprocess.output-dir", preprocessCmd.Flags().Lookup("output-dir"))

	var sampleSize int
	preprocessCmd.Flags().IntVar(&sampleSize, "sample-size", 2000000, "rows to sample from the top of the file")
	viper.BindPFlag("preprocess.sample-size", preprocessCmd.Flags().Lookup("sample-size"))

	var testSize float64
	preprocessCmd.Flags().Float64Var(&testSize, "test-size", 0.2, "fraction of rows held out for testing")
	viper.BindPFlag("preprocess.test-size", preprocessCmd.Flags().Lookup("test-size"))

	var seed int64
	preprocessCmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the stratified split")
	viper.BindPFlag("preprocess.seed", preprocessCmd.Flags().Lookup("seed"))

	var minGenreCount int
	preprocessCmd.Flags().IntVar(&minGenreCount, "min-genre-count", 500, "drop genres with fewer rows than this")
	viper.BindPFlag("preprocess.min-genre-count", preprocessCmd.Flags().Lookup("min-genre-count"))
}

func preprocessConfigFromViper() PreprocessConfig {
	outputDir := viper.GetString("preprocess.output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("data-dir")
	}
	return PreprocessConfig{
		Input:         dataPath(viper.GetString("preprocess.input"), "train_dataset.csv"),
		OutputDir:     outputDir,
		SampleSize:    viper.GetInt("preprocess.sample-size"),
		TestSize:      viper.GetFloat64("preprocess.test-size"),
		Seed:          viper.GetInt64("preprocess.seed"),
		MinGenreCount: viper.GetInt("preprocess.min-genre-count"),
	}
}

func doPreprocess(config PreprocessConfig) error {
	if config.SampleSize <= 0 {
		return fmt.Errorf("sample-size must be positive, got %d", config.SampleSize)
	}
	if config.TestSize <= 0 || config.TestSize >= 1 {
		return fmt.Errorf("test-size must be between 0 and 1, got %g", config.TestSize)
	}
	if config.MinGenreCount < 0 {
		return fmt.Errorf("min-genre-count must not be negative, got %d", config.MinGenreCount)
	}
	if err := requireFile(config.Input); err != nil {
		return err
	}

	led := startRun("preprocess", config.Input, config.OutputDir)
	defer led.close()

	rowsRead, rowsWritten, err := preprocess(config)
	if err != nil {
		led.fail(err)
		return err
	}
	led.finish(rowsRead, rowsWritten)
	return nil
}

func preprocess(config PreprocessConfig) (rowsRead, rowsWritten int64, err error) {
	var out strings.Builder
	log := func(msg string) {
		fmt.Println(msg)
		out.WriteString(msg)
		out.WriteByte('\n')
	}

	rule := strings.Repeat("=", 60)
	log(rule)
	log("Preprocessing Pipeline")
	log(rule)

	log("\n[STEP 1] Loading training data...")
	reader, err := csvio.NewChunkReader(config.Input)
	if err != nil {
		return 0, 0, err
	}
	defer reader.Close()

	sample, err := reader.Next(config.SampleSize)
	if err != nil && err != io.EOF {
		return 0, 0, err
	}
	t := csvio.NewTable(reader.Header(), sample)
	rowsRead = int64(len(t.Rows))
	log(fmt.Sprintf("  Loaded sample: %d rows", len(t.Rows)))
	log(fmt.Sprintf("  Columns (%d): %v", len(t.Header), t.Header))

	log("\n[STEP 2] Dropping identifier columns...")
	drop := make(map[string]bool)
	var dropped []string
	for _, name := range dataset.IdentifierColumns() {
		if _, ok := t.Col(name); ok {
			drop[name] = true
			dropped = append(dropped, name)
		}
	}
	var keep []string
	for _, name := range t.Header {
		if !drop[name] {
			keep = append(keep, name)
		}
	}
	t, err = t.Project(keep)
	if err != nil {
		return rowsRead, 0, err
	}
	log(fmt.Sprintf("  Dropped: %v", dropped))
	log(fmt.Sprintf("  Remaining columns (%d): %v", len(t.Header), t.Header))

	log("\n[STEP 3] Extracting primary genre from target column...")
	genreField, err := t.Column(dataset.TargetColumn)
	if err != nil {
		return rowsRead, 0, fmt.Errorf("%s: %w", config.Input, err)
	}
	genres := make([]string, len(genreField))
	for i, g := range genreField {
		genres[i] = dataset.PrimaryGenre(g)
	}

	tally := dataset.CountLabels(genres)
	log(fmt.Sprintf("  Unique primary genres found: %d", len(tally)))
	log("  Top 10 genres:")
	top := dataset.SortedByCount(tally)
	if len(top) > 10 {
		top = top[:10]
	}
	for _, lc := range top {
		log(fmt.Sprintf("    %-25s %8d (%.1f%%)", lc.Label, lc.Count, float64(lc.Count)/float64(len(genres))*100))
	}

	log(fmt.Sprintf("\n  Filtering rare genres (min %d samples)...", config.MinGenreCount))
	keepRow, removed, kept := dataset.FilterRareLabels(genres, config.MinGenreCount)
	log(fmt.Sprintf("  Removed %d rare genres: %s", len(removed), previewLabels(removed, 10)))
	if kept == 0 {
		return rowsRead, 0, fmt.Errorf("no rows left after dropping genres under %d samples", config.MinGenreCount)
	}
	rows := make([][]string, 0, kept)
	labels := make([]string, 0, kept)
	for i, ok := range keepRow {
		if ok {
			rows = append(rows, t.Rows[i])
			labels = append(labels, genres[i])
		}
	}
	t = csvio.NewTable(t.Header, rows)
	log(fmt.Sprintf("  Remaining genres: %d", len(dataset.CountLabels(labels))))
	log(fmt.Sprintf("  Remaining rows: %d", len(t.Rows)))

	log("\n[STEP 4] Encoding categorical features...")
	catCodes := make(map[string][]int)
	encoders := make(map[string]mlprep.EncoderArtifact)
	for _, name := range dataset.CategoricalFeatures() {
		if _, ok := t.Col(name); !ok {
			continue
		}
		values, err := t.Column(name)
		if err != nil {
			return rowsRead, 0, err
		}
		enc := mlprep.FitLabelEncoder(values)
		codes, err := enc.TransformAll(values)
		if err != nil {
			return rowsRead, 0, err
		}
		catCodes[name] = codes
		encoders[name] = mlprep.EncoderArtifact{Classes: enc.Classes}
		log(fmt.Sprintf("  %s: %d unique values -> label encoded", name, len(enc.Classes)))
	}

	targetEnc := mlprep.FitLabelEncoder(labels)
	y, err := targetEnc.TransformAll(labels)
	if err != nil {
		return rowsRead, 0, err
	}
	encoders["primary_genre"] = mlprep.EncoderArtifact{Classes: targetEnc.Classes}
	log(fmt.Sprintf("  primary_genre: %d classes -> label encoded", len(targetEnc.Classes)))
	log(fmt.Sprintf("  Genre mapping (first 10): %s", previewMapping(targetEnc.Classes, 10)))

	cols := make([]mlprep.Column, 0, len(t.Header)-1)
	for _, name := range t.Header {
		if name == dataset.TargetColumn {
			continue
		}
		if codes, ok := catCodes[name]; ok {
			cols = append(cols, mlprep.IntColumn(name, codes))
			continue
		}
		raw, err := t.Column(name)
		if err != nil {
			return rowsRead, 0, err
		}
		values, err := mlprep.ParseFloats(name, raw)
		if err != nil {
			return rowsRead, 0, err
		}
		cols = append(cols, mlprep.FloatColumn(name, values))
	}
	features, err := mlprep.NewFrame(cols)
	if err != nil {
		return rowsRead, 0, err
	}

	log("\n[STEP 5] Stratified train/test split...")
	train, test := mlprep.StratifiedSplit(y, config.TestSize, config.Seed)
	xTrain := features.Select(train)
	xTest := features.Select(test)
	yTrain := selectInts(y, train)
	yTest := selectInts(y, test)
	log(fmt.Sprintf("  X_train: (%d, %d)", xTrain.Rows(), len(xTrain.Cols)))
	log(fmt.Sprintf("  X_test:  (%d, %d)", xTest.Rows(), len(xTest.Cols)))
	log(fmt.Sprintf("  y_train: (%d,) (classes: %d)", len(yTrain), uniqueInts(yTrain)))
	log(fmt.Sprintf("  y_test:  (%d,) (classes: %d)", len(yTest), uniqueInts(yTest)))

	log("\n  Stratification check (top 5 classes):")
	log(fmt.Sprintf("  %-8s %10s %10s", "Class", "Train %", "Test %"))
	for _, c := range topClasses(yTrain, 5) {
		log(fmt.Sprintf("  %-8d %9.2f%% %9.2f%%", c,
			classShare(yTrain, c)*100, classShare(yTest, c)*100))
	}

	log("\n[STEP 6] Scaling numerical features...")
	var numCols []string
	for _, name := range dataset.NumericalFeatures() {
		if _, ok := t.Col(name); ok {
			numCols = append(numCols, name)
		}
	}
	trainData, err := xTrain.FloatData(numCols)
	if err != nil {
		return rowsRead, 0, err
	}
	scaler, err := mlprep.FitScaler(numCols, trainData)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := scaler.Transform(trainData); err != nil {
		return rowsRead, 0, err
	}
	testData, err := xTest.FloatData(numCols)
	if err != nil {
		return rowsRead, 0, err
	}
	if err := scaler.Transform(testData); err != nil {
		return rowsRead, 0, err
	}
	log(fmt.Sprintf("  Scaled %d numerical features", len(numCols)))
	log(fmt.Sprintf("  Features scaled: %v", numCols))

	log("\n  Post-scaling validation (train set):")
	log(fmt.Sprintf("  %-25s %10s %10s", "Feature", "Mean", "Std"))
	preview := len(numCols)
	if preview > 5 {
		preview = 5
	}
	for i := 0; i < preview; i++ {
		log(fmt.Sprintf("  %-25s %10.4f %10.4f",
			numCols[i], stat.Mean(trainData[i], nil), stat.StdDev(trainData[i], nil)))
	}
	log("  ... (all means ~ 0, all stds ~ 1)")

	log("\n[STEP 7] Saving processed data...")
	yTrainFrame, err := mlprep.NewFrame([]mlprep.Column{mlprep.IntColumn("primary_genre", yTrain)})
	if err != nil {
		return rowsRead, 0, err
	}
	yTestFrame, err := mlprep.NewFrame([]mlprep.Column{mlprep.IntColumn("primary_genre", yTest)})
	if err != nil {
		return rowsRead, 0, err
	}
	splits := []struct {
		name  string
		frame *mlprep.Frame
	}{
		{"X_train.parquet", xTrain},
		{"X_test.parquet", xTest},
		{"y_train.parquet", yTrainFrame},
		{"y_test.parquet", yTestFrame},
	}
	for _, s := range splits {
		path := filepath.Join(config.OutputDir, s.name)
		if err := s.frame.WriteParquet(path); err != nil {
			return rowsRead, 0, err
		}
		log(fmt.Sprintf("  Saved %s (%d rows, %d columns)", s.name, s.frame.Rows(), len(s.frame.Cols)))
	}

	artifacts := &mlprep.Artifacts{
		Encoders:        encoders,
		TargetClasses:   targetEnc.Classes,
		Scaler:          mlprep.ScalerArtifact{Columns: scaler.Columns, Means: scaler.Means, Stds: scaler.Stds},
		FeatureNames:    features.Names(),
		NumericalCols:   numCols,
		CategoricalCols: dataset.CategoricalFeatures(),
		SampleSize:      config.SampleSize,
		TestSize:        config.TestSize,
		RandomState:     config.Seed,
	}
	if err := artifacts.Save(filepath.Join(config.OutputDir, "preprocessing_artifacts.yaml")); err != nil {
		return rowsRead, 0, err
	}
	log("  Saved preprocessing_artifacts.yaml")

	log("\n" + rule)
	log("PREPROCESSING COMPLETE")
	log(rule)
	log(fmt.Sprintf("  Input rows:        %12d", rowsRead))
	log(fmt.Sprintf("  Final rows:        %12d", len(train)+len(test)))
	log(fmt.Sprintf("  Training samples:  %12d", len(train)))
	log(fmt.Sprintf("  Testing samples:   %12d", len(test)))
	log(fmt.Sprintf("  Features:          %12d", len(features.Cols)))
	log(fmt.Sprintf("  Target classes:    %12d", len(targetEnc.Classes)))
	log(fmt.Sprintf("  Split ratio:       %12s", fmt.Sprintf("%.0f/%.0f", (1-config.TestSize)*100, config.TestSize*100)))
	log(fmt.Sprintf("  Stratified:        %12s", "yes"))
	log(rule)

	reportPath := filepath.Join(config.OutputDir, "preprocess_report.txt")
	if err := os.WriteFile(reportPath, []byte(out.String()), 0644); err != nil {
		return rowsRead, 0, fmt.Errorf("writing report: %w", err)
	}
	fmt.Printf("\nReport saved to %s\n", reportPath)

	return rowsRead, int64(len(train) + len(test)), nil
}

// previewLabels formats up to n removed labels, marking truncation the way
// the report readers expect.
func previewLabels(counts []dataset.LabelCount, n int) string {
	names := make([]string, 0, n)
	for _, lc := range counts {
		if len(names) == n {
			break
		}
		names = append(names, lc.Label)
	}
	s := fmt.Sprintf("%v", names)
	if len(counts) > n {
		s += "..."
	}
	return s
}

func previewMapping(classes []string, n int) string {
	if len(classes) > n {
		classes = classes[:n]
	}
	pairs := make([]string, len(classes))
	for i, c := range classes {
		pairs[i] = fmt.Sprintf("%s: %d", c, i)
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func selectInts(values []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}

func uniqueInts(values []int) int {
	seen := make(map[int]bool)
	for _, v := range values {
		seen[v] = true
	}
	return len(seen)
}

// topClasses returns the n most frequent codes, most frequent first, ties
// on the smaller code.
func topClasses(codes []int, n int) []int {
	counts := make(map[int]int)
	for _, c := range codes {
		counts[c]++
	}
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool {
		if counts[classes[i]] != counts[classes[j]] {
			return counts[classes[i]] > counts[classes[j]]
		}
		return classes[i] < classes[j]
	})
	if len(classes) > n {
		classes = classes[:n]
	}
	return classes
}

func classShare(codes []int, class int) float64 {
	if len(codes) == 0 {
		return 0
	}
	count := 0
	for _, c := range codes {
		if c == class {
			count++
		}
	}
	return float64(count) / float64(len(codes))
}
