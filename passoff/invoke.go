package main

import (
	"errors"
	"fmt"

	"passoffbot"
	"passoffbot/slack"
	"passoffbot/store"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errFatal marks an invocation that already emitted its fatal reply.
var errFatal = errors.New("fatal reply sent")

func newInvokeCommand(cfg *passoffbot.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <get-json> <post-json>",
		Short: "Handle one slash command and print the reply",
		Long: `Handle one slash command and print the reply envelope on stdout.

The arguments are the HTTP GET and POST parameters of the slash-command
request, each encoded as a JSON object. Exits with status 1 after a fatal
reply.

Example:
  passoff invoke '{}' '{"command":"/passoff","text":"","user_id":"U1"}'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := invoke(cfg, args)
			if err != nil {
				cfg.Logger.WithField("error", err).Error("invocation failed")
			}

			out, merr := slack.Render(resp)
			if merr != nil {
				return fmt.Errorf("render reply: %w", merr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if err != nil {
				return errFatal
			}
			return nil
		},
	}
}

// invoke runs one unit of work: parse, open the queue, route, close.
// The returned response is always set; err means it is a fatal one.
func invoke(cfg *passoffbot.Config, args []string) (passoffbot.Response, error) {
	localizer := cfg.Localizer()

	_, post, err := slack.ParseArgs(args)
	if err != nil {
		return passoffbot.Fatal(localizer, err.Error()), err
	}
	req, err := slack.ExtractRequest(post)
	if err != nil {
		return passoffbot.Fatal(localizer, err.Error()), err
	}

	q, err := store.Open(cfg.DBPath)
	if err != nil {
		return passoffbot.Fatal(localizer, err.Error()), err
	}
	defer func() {
		if err := q.Close(); err != nil {
			cfg.Logger.WithFields(log.Fields{
				"db_path": cfg.DBPath,
				"error":   err,
			}).Warn("cant close queue")
		}
	}()

	router := passoffbot.NewRouter(q, cfg.Roster, localizer, passoffbot.SlackMention, cfg.Logger)
	return router.Handle(req)
}
