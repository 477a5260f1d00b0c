// Add command: classify and file a single URL.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type addResult struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

var (
	flagAddTitle    string
	flagAddCategory string
	flagAddTags     []string
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Classify a URL and file it into its category",
	Long: `Add sends one URL to the daemon, which classifies it and places it
directly into its category folder. Passing --category pins the
bookmark so automatic runs never move it again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"url": args[0]}
		if flagAddTitle != "" {
			body["title"] = flagAddTitle
		}
		if flagAddCategory != "" {
			body["category"] = flagAddCategory
		}
		if len(flagAddTags) > 0 {
			body["tags"] = flagAddTags
		}

		var res addResult
		if err := postJSON(cmd.Context(), "/api/v1/bookmarks", body, &res); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(res)
		}
		fmt.Printf("filed under %s", res.Category)
		if len(res.Tags) > 0 {
			fmt.Printf(" [%s]", strings.Join(res.Tags, ", "))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&flagAddTitle, "title", "", "bookmark title (default: fetched from the page)")
	addCmd.Flags().StringVar(&flagAddCategory, "category", "", "pin to this category instead of classifying")
	addCmd.Flags().StringSliceVar(&flagAddTags, "tags", nil, "tags to attach")
}
