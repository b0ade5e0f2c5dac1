package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/weatherchart/dataset-tools/internal/report"
	"github.com/weatherchart/dataset-tools/internal/store"
)

type RunsConfig struct {
	Limit     int
	Unmatched int64
	Yaml      bool
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists recent pipeline runs from the ledger",
	Long: `Shows what the pipeline has done lately, newest first: one row per
recorded run with its duration, row counts and status. --unmatched
lists the keys a join run could not resolve, with how many rows each
accounted for. --yaml dumps the runs as YAML instead of a table.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := doRuns(runsConfigFromViper())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	var limit int
	runsCmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	viper.BindPFlag("runs.limit", runsCmd.Flags().Lookup("limit"))

	var unmatched int64
	runsCmd.Flags().Int64Var(&unmatched, "unmatched", 0, "show unmatched join keys for the given run id")
	viper.BindPFlag("runs.unmatched", runsCmd.Flags().Lookup("unmatched"))

	var asYaml bool
	runsCmd.Flags().BoolVar(&asYaml, "yaml", false, "dump runs as YAML")
	viper.BindPFlag("runs.yaml", runsCmd.Flags().Lookup("yaml"))
}

func runsConfigFromViper() RunsConfig {
	return RunsConfig{
		Limit:     viper.GetInt("runs.limit"),
		Unmatched: viper.GetInt64("runs.unmatched"),
		Yaml:      viper.GetBool("runs.yaml"),
	}
}

// runView is the YAML shape of one ledger run.
type runView struct {
	ID          int64  `yaml:"id"`
	Command     string `yaml:"command"`
	Input       string `yaml:"input,omitempty"`
	Output      string `yaml:"output,omitempty"`
	Started     string `yaml:"started"`
	Finished    string `yaml:"finished,omitempty"`
	Duration    string `yaml:"duration,omitempty"`
	RowsRead    int64  `yaml:"rows_read"`
	RowsWritten int64  `yaml:"rows_written"`
	Status      string `yaml:"status"`
	Error       string `yaml:"error,omitempty"`
}

func doRuns(config RunsConfig) error {
	path := ledgerPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("No ledger at %s yet. Run a pipeline stage first.\n", path)
		return nil
	}

	db, err := store.New(path)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer db.Close()

	if config.Unmatched > 0 {
		return printUnmatched(db, config.Unmatched)
	}

	runs, err := db.ListRuns(config.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	if config.Yaml {
		views := make([]runView, len(runs))
		for i, r := range runs {
			views[i] = runView{
				ID:          r.ID,
				Command:     r.Command,
				Input:       r.Input,
				Output:      r.Output,
				Started:     r.Started.Format(time.RFC3339),
				Duration:    runDuration(r),
				RowsRead:    r.RowsRead,
				RowsWritten: r.RowsWritten,
				Status:      r.Status,
				Error:       r.Error,
			}
			if !r.Finished.IsZero() {
				views[i].Finished = r.Finished.Format(time.RFC3339)
			}
		}
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(views); err != nil {
			return fmt.Errorf("encoding runs: %w", err)
		}
		return encoder.Close()
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.Command,
			r.Started.Format("2006-01-02 15:04:05"),
			runDuration(r),
			strconv.FormatInt(r.RowsRead, 10),
			strconv.FormatInt(r.RowsWritten, 10),
			r.Status,
		}
	}
	fmt.Println(report.Report{
		Header: []string{"ID", "Command", "Started", "Duration", "Rows In", "Rows Out", "Status"},
		Rows:   rows,
	})
	return nil
}

// runDuration renders how long a run took, or "-" while it is still open.
func runDuration(r store.Run) string {
	if r.Finished.IsZero() {
		return "-"
	}
	return r.Finished.Sub(r.Started).Round(time.Millisecond).String()
}

func printUnmatched(db *store.Store, runID int64) error {
	keys, err := db.UnmatchedForRun(runID)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Printf("No unmatched keys recorded for run %d.\n", runID)
		return nil
	}

	rows := make([][]string, len(keys))
	var total int64
	for i, k := range keys {
		rows[i] = []string{k.Stage, k.Raw, strconv.FormatInt(k.Count, 10)}
		total += k.Count
	}
	fmt.Println(report.Report{
		Header:  []string{"Stage", "Key", "Rows"},
		Rows:    rows,
		Summary: fmt.Sprintf("%d unmatched keys covering %d rows", len(keys), total),
	})
	return nil
}
