package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ts1257/acme-blogs/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "acme-blogs",
	Short: "Acme Blogs shows employees' posts and their comments",
	Long: `Acme Blogs fetches employees, their posts and the posts' comments from a
JSONPlaceholder-style API and renders them as a page with collapsible comment sections.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.Bool("offline", false, "Serve the bundled fixtures instead of the remote API")
	flags.String("fixtures", "", "YAML fixtures used with --offline")
	flags.String("base-url", "", "Override api.base_url")
	flags.String("failure-policy", "", "Override board.failure_policy (skip or abort)")
	flags.String("log-level", "", "Override log.level (debug, info, warn, error)")
	flags.Bool("debug", false, "Enable debug logging")
}

// newApp builds the shared application from the persistent flags.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	flags := cmd.Flags()
	opts := cli.Options{}
	opts.ConfigPath, _ = flags.GetString("config")
	opts.Offline, _ = flags.GetBool("offline")
	opts.FixturesPath, _ = flags.GetString("fixtures")
	opts.BaseURL, _ = flags.GetString("base-url")
	opts.FailurePolicy, _ = flags.GetString("failure-policy")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.Debug, _ = flags.GetBool("debug")
	return cli.NewApp(opts, os.Stderr)
}
