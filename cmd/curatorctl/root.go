// Root command for curatorctl.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global flag values.
var (
	flagServer  string
	flagTimeout time.Duration
	flagJSON    bool
)

// serverURL is resolved by PersistentPreRunE so every subcommand can
// use it: --server flag > CURATORCTL_SERVER env > config.yaml > default.
var serverURL string

var rootCmd = &cobra.Command{
	Use:   "curatorctl",
	Short: "curatorctl controls a running curator daemon",
	Long: `curatorctl talks to the HTTP API of a running curator daemon.

It can start and watch organize jobs, manage the category taxonomy,
import bookmark exports and search the organized collection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		serverURL = flagServer
		if serverURL == "" {
			serverURL = cfg.GetString(cfgKeyServer)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "base URL of the curator daemon (default: http://localhost:8080)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output raw JSON")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(versionCmd)
}

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyServer = "server"

	defaultServer = "http://localhost:8080"
)

// loadConfig reads config.yaml from ~/.config/curatorctl using Viper.
// A missing config file is not an error.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyServer, defaultServer)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.SetEnvPrefix("CURATORCTL")
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "curatorctl"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}
