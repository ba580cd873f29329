package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions kept in the configured store (files under <dir>/.intake/sessions or Redis).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, closeFn, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ids, err := sessions.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		sessions, closeFn, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		state, err := sessions.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		var payload any = state
		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			_, _, engine, err := openEngine(cmd)
			if err != nil {
				return err
			}
			entries, err := engine.Summary(cmd.Context(), state)
			if err != nil {
				return err
			}
			payload = entries
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id...]",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all && len(args) > 0 {
			return errors.New("pass session IDs or --all, not both")
		}
		if !all && len(args) == 0 {
			return errors.New("requires at least 1 session ID (or --all)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, closeFn, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		ids := args
		if all, _ := cmd.Flags().GetBool("all"); all {
			if ids, err = sessions.List(cmd.Context()); err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, id := range ids {
			if err := sessions.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(out, "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "Removed session '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d session(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("summary", false, "Print the answer summary instead of the raw state")
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

func openSessions(cmd *cobra.Command) (*session.Manager, func() error, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cli.OpenSessions(cmd.Context(), cfg, logger)
}
