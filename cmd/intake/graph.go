package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print a flow as a Mermaid diagram",
	Long: `Prints the steps of a flow and their branching conditions as a Mermaid
flowchart. With --session the visited steps and the current step of that
session are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, engine, err := openEngine(cmd)
		if err != nil {
			return err
		}

		flowID, _ := cmd.Flags().GetString("flow")
		sessionID, _ := cmd.Flags().GetString("session")

		var overlay *graph.Overlay
		if sessionID != "" {
			sessions, closeFn, err := cli.OpenSessions(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := sessions.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			if flowID == "" {
				flowID = state.FlowID
			}
			overlay = graph.NewOverlay(state)
		}

		flowID, err = cli.ResolveFlow(engine, flowID)
		if err != nil {
			return err
		}
		f, err := engine.Flow(flowID)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(f, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("flow", "", "Flow to draw")
	graphCmd.Flags().StringP("session", "s", "", "Highlight the progress of this session")
}
