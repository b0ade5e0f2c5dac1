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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string
var dataDir string
var databasePath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dataset-tools",
	Short: "Builds the WeatherChart genre-prediction training dataset",
	Long: `A chain of batch stages that joins chart tracks with per-artist genres,
country temperatures, socioeconomic indicators, and coordinates, then
prepares the result for model training. Run the stages in order, or
use run-all.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.dataset-tools.yaml)")

	rootCmd.PersistentFlags().StringVar(
		&dataDir, "data-dir", "./data", "directory holding the pipeline's input and output files")
	viper.BindPFlag("data-dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "", "path to the SQLite run ledger (default <data-dir>/pipeline.db)")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".dataset-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".dataset-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// dataPath resolves a stage file path: an explicit flag value wins,
// otherwise the named default under --data-dir.
func dataPath(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(viper.GetString("data-dir"), name)
}

// ledgerPath resolves the run-ledger location.
func ledgerPath() string {
	return dataPath(viper.GetString("database"), "pipeline.db")
}

// requireFile turns a missing input into a diagnostic instead of a bare
// open error downstream.
func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file %s not found: run the earlier pipeline stages first", path)
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return nil
}
