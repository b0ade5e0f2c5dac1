package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var runAllCmd = &cobra.Command{
	Use:   "run-all",
	Short: "Runs every pipeline stage in order",
	Long: `Executes the full chain, from chart filtering through preprocessing,
against the configured data directory. Stops at the first failing
stage; each stage records its own run in the ledger as usual.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doRunAll()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runAllCmd)
}

func doRunAll() error {
	stages := []struct {
		name string
		run  func() error
	}{
		{"filter-charts", func() error { return doFilterCharts(filterChartsConfigFromViper()) }},
		{"process-genres", func() error { return doProcessGenres(processGenresConfigFromViper()) }},
		{"join-genres", func() error { return doJoinGenres(joinGenresConfigFromViper()) }},
		{"analyze-missing", func() error { return doAnalyzeMissing(analyzeMissingConfigFromViper()) }},
		{"process-climate", func() error { return doProcessClimate(processClimateConfigFromViper()) }},
		{"join-climate", func() error { return doJoinClimate(joinClimateConfigFromViper()) }},
		{"process-countries", func() error { return doProcessCountries(processCountriesConfigFromViper()) }},
		{"join-economy", func() error { return doJoinEconomy(joinEconomyConfigFromViper()) }},
		{"process-latitude", func() error { return doProcessLatitude(processLatitudeConfigFromViper()) }},
		{"join-latitude", func() error { return doJoinLatitude(joinLatitudeConfigFromViper()) }},
		{"create-training-set", func() error { return doCreateTrainingSet(createTrainingSetConfigFromViper()) }},
		{"eda", func() error { return doEda(edaConfigFromViper()) }},
		{"preprocess", func() error { return doPreprocess(preprocessConfigFromViper()) }},
	}

	for i, stage := range stages {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(stages), stage.name)
		if err := stage.run(); err != nil {
			return fmt.Errorf("%s: %w", stage.name, err)
		}
	}
	fmt.Println("\nAll stages complete.")
	return nil
}
