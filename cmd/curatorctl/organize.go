// Organize job commands: status, stats, start, reset, dedupe.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current organize job state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var state domain.JobState
		if err := getJSON(cmd.Context(), "/api/v1/organize/state", nil, &state); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(state)
		}
		printJobState(&state)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate collection statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var stats domain.Stats
		if err := getJSON(cmd.Context(), "/api/v1/organize/stats", nil, &stats); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(stats)
		}
		fmt.Printf("bookmarks:  %d\n", stats.TotalBookmarks)
		fmt.Printf("categories: %d\n", stats.CategoriesCreated)
		fmt.Printf("recent:     %d (last 7 days)\n", stats.RecentCount)
		if len(stats.PerCategory) > 0 {
			slugs := make([]string, 0, len(stats.PerCategory))
			for slug := range stats.PerCategory {
				slugs = append(slugs, slug)
			}
			sort.Strings(slugs)
			fmt.Println("per category:")
			for _, slug := range slugs {
				fmt.Printf("  %-24s %d\n", slug, stats.PerCategory[slug])
			}
		}
		return nil
	},
}

var flagStrategy string

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Start an organize job",
	Long: `Organize starts a batch job that classifies every unorganized
bookmark and places it into the category tree. Only one job can run
at a time; a second start is rejected, not queued.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{}
		if flagStrategy != "" {
			body["strategy"] = flagStrategy
		}
		var state domain.JobState
		if err := postJSON(cmd.Context(), "/api/v1/organize/start", body, &state); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(state)
		}
		fmt.Printf("organize job started (%d items, strategy %s)\n", state.Total, state.Strategy)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the organize job to idle, cancelling a running one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var state domain.JobState
		if err := postJSON(cmd.Context(), "/api/v1/organize/reset", nil, &state); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(state)
		}
		fmt.Println("organize job reset")
		return nil
	},
}

// dedupeResult mirrors the daemon's duplicate sweep payload.
type dedupeResult struct {
	Found   int `json:"duplicatesFound"`
	Removed int `json:"duplicatesRemoved"`
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate bookmarks from the organized tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var res dedupeResult
		if err := postJSON(cmd.Context(), "/api/v1/bookmarks/dedupe", nil, &res); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(res)
		}
		fmt.Printf("%d duplicates found, %d removed\n", res.Found, res.Removed)
		return nil
	},
}

func init() {
	organizeCmd.Flags().StringVar(&flagStrategy, "strategy", "", `placement strategy: "clone" or "move" (default: daemon setting)`)
}

func printJobState(s *domain.JobState) {
	fmt.Printf("status:   %s\n", s.Status)
	if s.Strategy != "" {
		fmt.Printf("strategy: %s\n", s.Strategy)
	}
	if s.Provider != "" {
		fmt.Printf("provider: %s\n", s.Provider)
	}
	if s.Total > 0 {
		fmt.Printf("progress: %d/%d\n", s.Done, s.Total)
	}
	if s.LastTitle != "" {
		fmt.Printf("last:     %s\n", s.LastTitle)
	}
	if !s.StartedAt.IsZero() {
		fmt.Printf("started:  %s\n", s.StartedAt.Format("2006-01-02 15:04:05"))
	}
	if !s.CompletedAt.IsZero() {
		fmt.Printf("finished: %s\n", s.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if s.Error != "" {
		fmt.Printf("error:    %s\n", s.Error)
	}
}
