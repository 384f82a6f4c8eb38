package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/observability"
	"github.com/jonathan/career-coach/internal/tools"
	"github.com/jonathan/career-coach/internal/types"
)

var (
	searchRole       string
	searchLocation   string
	searchRemoteOnly bool
	searchLimit      int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search jobs and print the scored matches",
	Long:  `Run search_jobs against a fresh session and print the matches. Without a profile every match carries the base score.`,
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchRole, "role", "", "Role category, e.g. cfo or cto")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "Location substring, e.g. London")
	searchCmd.Flags().BoolVar(&searchRemoteOnly, "remote", false, "Only remote jobs")
	searchCmd.Flags().IntVar(&searchLimit, "limit", tools.DefaultSearchLimit, "Maximum number of matches")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print matches as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchArgs turns flag values into a search request; empty flags stay unset
func searchArgs(role, location string, remoteOnly bool, limit int) tools.SearchJobsArgs {
	args := tools.SearchJobsArgs{RemoteOnly: remoteOnly, Limit: &limit}
	if r := strings.TrimSpace(role); r != "" {
		args.Role = &r
	}
	if l := strings.TrimSpace(location); l != "" {
		args.Location = &l
	}
	return args
}

func runSearch(cmd *cobra.Command, _ []string) error {
	rt, err := loadApp()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	database, closeStore, err := rt.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	toolbox := tools.New(database,
		tools.WithLogger(rt.logger),
		tools.WithMaxSearchLimit(rt.cfg.SearchMaxLimit))

	state := types.NewSessionState()
	result, err := toolbox.Dispatch(ctx, state, searchArgs(searchRole, searchLocation, searchRemoteOnly, searchLimit))
	if err != nil {
		return err
	}
	matches, _ := result.([]types.JobMatch)

	if searchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	query := ""
	if state.LastSearchQuery != nil {
		query = *state.LastSearchQuery
	}
	observability.NewPrinter(os.Stdout).PrintMatches(query, matches)
	return nil
}
