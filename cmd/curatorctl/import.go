// Import command: push a browser bookmark export to the daemon.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

type importResult struct {
	Folders   int `json:"folders"`
	Bookmarks int `json:"bookmarks"`
}

var importCmd = &cobra.Command{
	Use:   "import <export.html>",
	Short: "Import a Netscape-format bookmark export",
	Long: `Import uploads a bookmark export file (the HTML file every browser
writes from its export dialog) to the daemon, which loads the folder
structure and bookmarks into the tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open export file: %w", err)
		}
		defer func() { _ = f.Close() }()

		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost,
			apiURL("/api/v1/bookmarks/import", nil), f)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "text/html")

		client := &http.Client{Timeout: flagTimeout}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("contact daemon at %s: %w", serverURL, err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusCreated {
			var apiErr apiError
			if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error != "" {
				return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
			}
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var res importResult
		if err := json.Unmarshal(data, &res); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if flagJSON {
			return printJSON(res)
		}
		fmt.Printf("imported %d bookmarks in %d folders\n", res.Bookmarks, res.Folders)
		return nil
	},
}
