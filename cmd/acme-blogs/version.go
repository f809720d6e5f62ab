package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	blogs "github.com/ts1257/acme-blogs"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of acme-blogs",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "acme-blogs version %s\n", strings.TrimSpace(blogs.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
