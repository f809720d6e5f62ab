package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect stored viewer sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored session IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		sessions, closeStore, err := app.NewSessions(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		ids, err := sessions.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session id>",
	Short: "Print a stored session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		sessions, closeStore, err := app.NewSessions(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		s, err := sessions.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "rm <session id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		sessions, closeStore, err := app.NewSessions(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := sessions.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Session %s deleted\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
}
