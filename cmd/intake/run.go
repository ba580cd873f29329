package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/pkg/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer a flow in the terminal",
	Long: `Starts a wizard session in the terminal.

Type an answer (or the number of an option) and press enter. "next" or an
empty line continues, "back" returns to the previous question, "confirm"
submits the summary and "quit" leaves. With --session the progress is saved
after every step and resumed on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cli.RunOptions{
			Config: cfg,
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
		}
		flags := cmd.Flags()
		opts.FlowID, _ = flags.GetString("flow")
		if len(args) > 0 {
			opts.FlowID = args[0]
		}
		opts.SessionID, _ = flags.GetString("session")
		opts.Fresh, _ = flags.GetBool("fresh")
		opts.JSON, _ = flags.GetBool("json")
		opts.Watch, _ = flags.GetBool("watch")
		opts.TypingDelay, _ = flags.GetDuration("typing-delay")

		// Without an explicit choice, piped input means headless.
		if flags.Changed("headless") {
			opts.Headless, _ = flags.GetBool("headless")
		} else {
			opts.Headless = !runner.IsTerminal(opts.In) || !runner.IsTerminal(os.Stdout)
		}

		return cli.Run(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("flow", "", "Flow to run (required when several are available)")
	runCmd.Flags().StringP("session", "s", "", "Session ID; saves progress and resumes it")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("headless", false, "Plain output without banner or markdown rendering")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload when flow files change (needs --dir)")
	runCmd.Flags().Duration("typing-delay", 0, "Show a typing indicator for this long before each question")
}
