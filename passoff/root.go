package main

import (
	"fmt"

	"passoffbot"
	"passoffbot/locales"
	"passoffbot/store"

	"github.com/caarlos0/env"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cfg := &passoffbot.Config{}

	cmd := &cobra.Command{
		Use:   "passoff",
		Short: "Passoff queue for classroom help desks",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cfg, cmd)
		},
	}

	cmd.AddCommand(newInvokeCommand(cfg))
	cmd.AddCommand(newServeCommand(cfg))

	return cmd
}

// loadConfig fills cfg from the environment and sets up logging, the
// reply catalogue and the TA roster.
func loadConfig(cfg *passoffbot.Config, cmd *cobra.Command) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("cant parse config: %w", err)
	}

	logger := log.New()
	logger.Out = cmd.ErrOrStderr()
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	logger.Level = level
	cfg.Logger = logger

	bundle, err := locales.NewBundle(cfg.LocaleFile)
	if err != nil {
		return err
	}
	cfg.Bundle = bundle

	cfg.Roster = store.FileRoster{Path: cfg.RosterPath}
	return nil
}
