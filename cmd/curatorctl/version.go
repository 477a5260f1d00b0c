// Version command for curatorctl.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/curator/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the curatorctl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("curatorctl", version.Version)
	},
}
