// Package cli implements pilotctl, the operator tool for pilot accounts and leaderboards.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"galaxymath/config"
	"galaxymath/internal/app"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Opener builds the application the commands operate on
type Opener func(ctx context.Context, configPath string) (*app.App, error)

// OpenFromConfig loads configPath and connects to the configured storage
func OpenFromConfig(ctx context.Context, configPath string) (*app.App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

type options struct {
	configPath string
	output     string
}

// NewRootCmd creates the pilotctl command tree
func NewRootCmd(open Opener) *cobra.Command {
	opts := &options{configPath: "./config/config.yml", output: "text"}
	var a *app.App

	rootCmd := &cobra.Command{
		Use:   "pilotctl",
		Short: "Manage Galaxy Math pilots",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = open(cmd.Context(), opts.configPath)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.Close(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", opts.configPath, "Config file path")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", opts.output, "Output format: text, json")

	current := func() *app.App { return a }
	rootCmd.AddCommand(newCreateCmd(current, opts))
	rootCmd.AddCommand(newSeedCmd(current, opts))
	rootCmd.AddCommand(newLeaderboardCmd(current, opts))
	return rootCmd
}

// Execute runs pilotctl against the real configuration
func Execute() {
	if err := NewRootCmd(OpenFromConfig).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
