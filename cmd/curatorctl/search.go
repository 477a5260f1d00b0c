// Search command, backed by the daemon's full-text index.
package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type searchHit struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

type searchResult struct {
	Query string       `json:"query"`
	Hits  []*searchHit `json:"hits"`
}

var flagSearchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the organized bookmarks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		query.Set("q", strings.Join(args, " "))
		query.Set("limit", strconv.Itoa(flagSearchLimit))

		var res searchResult
		if err := getJSON(cmd.Context(), "/api/v1/search", query, &res); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(res)
		}
		if len(res.Hits) == 0 {
			fmt.Println("no results")
			return nil
		}
		for _, h := range res.Hits {
			if h.Category != "" {
				fmt.Printf("[%s] %s\n    %s\n", h.Category, h.Title, h.URL)
			} else {
				fmt.Printf("%s\n    %s\n", h.Title, h.URL)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "maximum number of results")
}
