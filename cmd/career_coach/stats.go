package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/observability"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print job market statistics",
	RunE:  runStats,
}

var jobCmd = &cobra.Command{
	Use:   "job <id>",
	Short: "Print a single job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJob,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print stats as JSON")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(jobCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	rt, err := loadApp()
	if err != nil {
		return err
	}

	database, closeStore, err := rt.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	stats := database.Stats(cmd.Context())
	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	observability.NewPrinter(os.Stdout).PrintStats(stats)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	rt, err := loadApp()
	if err != nil {
		return err
	}

	database, closeStore, err := rt.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	job := database.GetJobByID(cmd.Context(), args[0])
	if job == nil {
		return fmt.Errorf("job not found: %s", args[0])
	}
	observability.NewPrinter(os.Stdout).PrintJob(job)
	return nil
}
