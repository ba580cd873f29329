package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check flow definitions for errors and suspicious constructs",
	Long: `Loads every flow from --dir (or the built-in catalog). Broken definitions
fail with a configuration error; questions that can never be shown or
options that no condition can reach are reported as warnings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, engine, err := openEngine(cmd)
		if err != nil {
			return err
		}

		reports, err := validator.ValidateLoader(engine.Loader())
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		warnings := 0
		for _, r := range reports {
			if len(r.Warnings) == 0 {
				fmt.Fprintf(out, "✓ %s\n", r.FlowID)
				continue
			}
			fmt.Fprintf(out, "! %s\n", r.FlowID)
			for _, w := range r.Warnings {
				fmt.Fprintf(out, "    %s\n", w)
				warnings++
			}
		}
		fmt.Fprintf(out, "%d flow(s) checked, %d warning(s).\n", len(reports), warnings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
