package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/cli"
)

// openEngine resolves the configuration, its logger and an engine in one go.
func openEngine(cmd *cobra.Command, opts ...intake.Option) (cli.Config, *slog.Logger, *intake.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Config{}, nil, nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return cli.Config{}, nil, nil, err
	}
	engine, err := cli.NewEngine(cfg, logger, opts...)
	if err != nil {
		return cli.Config{}, nil, nil, err
	}
	return cfg, logger, engine, nil
}
