package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"passoffbot"
	"passoffbot/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(cfg *passoffbot.Config) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Poll the bot API and answer queue commands until interrupted",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*cfg)
		},
	}
}

func serve(cfg passoffbot.Config) error {
	logger := cfg.Logger

	if cfg.DBPath == "" {
		logger.Warn("DB_PATH is empty, queue will not survive restarts")
		cfg.Queue = store.NewMemQueue()
	} else {
		q, err := store.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer q.Close()
		cfg.Queue = q
	}

	bot, err := passoffbot.NewBot(cfg)
	if err != nil {
		return err
	}

	botInfo := bot.BotInfo()
	logger.WithFields(log.Fields{
		"bot_nick": botInfo.Nick,
		"bot_name": botInfo.FirstName,
		"db_path":  cfg.DBPath,
	}).Info("starting bot")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = bot.StartPolling(ctx)
	if ctx.Err() != nil {
		logger.Info("stopped bot by signal")
		return nil
	}

	logger.WithField("err", err).Error("polling stopped")
	return fmt.Errorf("polling stopped: %w", err)
}
