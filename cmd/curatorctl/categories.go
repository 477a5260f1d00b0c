// Category taxonomy commands.
package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/curator/internal/domain"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage the category taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cats []*domain.Category
		if err := getJSON(cmd.Context(), "/api/v1/categories", nil, &cats); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cats)
		}
		for _, c := range cats {
			label := c.Name
			if c.Emoji != "" {
				label = c.Emoji + " " + label
			}
			fmt.Printf("%-24s %s\n", c.Slug, label)
		}
		return nil
	},
}

var flagCategoryEmoji string

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[0]}
		if flagCategoryEmoji != "" {
			body["emoji"] = flagCategoryEmoji
		}
		var cat domain.Category
		if err := postJSON(cmd.Context(), "/api/v1/categories", body, &cat); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cat)
		}
		fmt.Printf("created category %s (%s)\n", cat.Slug, cat.Name)
		return nil
	},
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename <slug> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{"name": args[1]}
		var cat domain.Category
		path := "/api/v1/categories/" + url.PathEscape(args[0])
		if err := doJSON(cmd.Context(), http.MethodPut, path, nil, body, &cat); err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cat)
		}
		fmt.Printf("renamed %s to %s\n", cat.Slug, cat.Name)
		return nil
	},
}

var categoriesRmCmd = &cobra.Command{
	Use:   "rm <slug>",
	Short: "Delete a category, relocating its bookmarks to the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/v1/categories/" + url.PathEscape(args[0])
		if err := doJSON(cmd.Context(), http.MethodDelete, path, nil, nil, nil); err != nil {
			return err
		}
		fmt.Printf("deleted category %s\n", args[0])
		return nil
	},
}

func init() {
	categoriesAddCmd.Flags().StringVar(&flagCategoryEmoji, "emoji", "", "emoji shown before the folder title")

	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRenameCmd)
	categoriesCmd.AddCommand(categoriesRmCmd)
}
