package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ts1257/acme-blogs/internal/presentation/tui"
	"github.com/ts1257/acme-blogs/pkg/dom"
)

var renderCmd = &cobra.Command{
	Use:   "render [user id]",
	Short: "Render the posts of an employee once and exit",
	Long: `Renders the page for one employee. Comment sections listed with --expand are shown.

Formats:
- markdown (default): rendered for the terminal when stdout is a TTY, plain otherwise.
- html: the full document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		expand, _ := cmd.Flags().GetIntSlice("expand")
		value := ""
		if len(args) > 0 {
			value = args[0]
		}

		ctx := cmd.Context()
		board, err := app.NewBoard()
		if err != nil {
			return err
		}
		if err := board.InitPage(ctx); err != nil {
			return err
		}
		res, err := board.Select(ctx, value)
		if err != nil {
			return err
		}
		if res.Refresh != nil {
			for _, sp := range res.Refresh.Skipped {
				app.Logger.Warn("Post skipped", "post_id", sp.PostID, "reason", sp.Reason)
			}
		}
		for _, id := range expand {
			if _, err := board.Click(ctx, id); err != nil {
				return fmt.Errorf("expand %d: %w", id, err)
			}
		}

		switch strings.ToLower(format) {
		case "html":
			var buf bytes.Buffer
			if err := board.Render(&buf); err != nil {
				return err
			}
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		case "markdown", "md":
			var md string
			_ = board.View(func(doc *dom.Document) error {
				md = tui.Markdown(doc)
				return nil
			})
			render, err := app.Renderer(os.Stdout, false)
			if err != nil {
				return err
			}
			if render != nil {
				if out, err := render(md); err == nil {
					md = out
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		default:
			return fmt.Errorf("unknown format %s. Supported: markdown, html", strconv.Quote(format))
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("format", "f", "markdown", "Output format: 'markdown' or 'html'")
	renderCmd.Flags().IntSlice("expand", nil, "Post IDs whose comments are shown")
}
