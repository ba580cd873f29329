package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake runs branching questionnaires",
	Long: `Intake runs step-by-step onboarding and intake wizards.

Flows are read from a directory of markdown, YAML or JSON documents (--dir)
or, when no directory is given, from the built-in catalog. Sessions can be
answered in the terminal, over HTTP or through MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		return cli.LoadDotEnv(envFile, cmd.Flags().Changed("env-file"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", "", "Directory containing flow definitions (default: built-in catalog)")
	flags.String("env-file", cli.DefaultEnvFile, "File with INTAKE_* variables to load")
	flags.String("session-dir", "", "Directory for file-backed sessions (default: <dir>/.intake/sessions)")
	flags.String("redis-addr", "", "Redis address for sessions (env "+cli.EnvRedisAddr+")")
	flags.String("hooks", "", "Completion hooks file (default: <dir>/hooks.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default: off)")
	flags.String("log-format", "", "Log format: text or json")
}

// loadConfig merges the persistent flags with the INTAKE_* environment.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	flags := cmd.Flags()
	var cfg cli.Config
	cfg.Dir, _ = flags.GetString("dir")
	cfg.SessionDir, _ = flags.GetString("session-dir")
	cfg.RedisAddr, _ = flags.GetString("redis-addr")
	cfg.HooksPath, _ = flags.GetString("hooks")
	cfg.LogLevel, _ = flags.GetString("log-level")
	cfg.LogFormat, _ = flags.GetString("log-format")
	return cfg.WithEnv()
}
