package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/internal/cli"
	"github.com/ts1257/acme-blogs/internal/presentation/tui"
	"github.com/ts1257/acme-blogs/pkg/runner"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Browse the posts interactively",
	Long:  `Starts an interactive session: select employees and toggle comment sections from the prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")

		board, err := app.NewBoard()
		if err != nil {
			return err
		}

		var handler runner.IOHandler
		if jsonMode {
			handler = runner.NewJSONHandler(os.Stdin, os.Stdout)
		} else {
			tui.PrintBanner(os.Stdout, blogs.Version)
			render, err := app.Renderer(os.Stdout, false)
			if err != nil {
				return err
			}
			handler = runner.NewTextHandler(os.Stdin, os.Stdout, runner.WithTextHandlerRenderer(render))
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		r := runner.NewRunner(handler)
		r.Logger = app.Logger
		if err := r.Run(sigCtx, board); err != nil {
			return err
		}
		if sig := sigCtx.Signal(); sig != nil && !jsonMode {
			fmt.Fprintf(os.Stdout, "\nInterrupted (%v)\n", sig)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
}
