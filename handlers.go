package passoffbot

import (
	"context"
	"regexp"
	"strings"

	botgolang "github.com/mail-ru-im/bot-golang"
	log "github.com/sirupsen/logrus"
)

var (
	botCmdRegexp = regexp.MustCompile("^/([a-zA-Z0-9_]+)(?:@\\S+)?")
)

// parseCommand splits "/action arg1 arg2" into its parts.
// ok is false if text is not a command.
func parseCommand(text string) (action string, args []string, ok bool) {
	m := botCmdRegexp.FindStringSubmatchIndex(text)
	if m == nil {
		return "", nil, false
	}
	return text[m[2]:m[3]], strings.Fields(text[m[1]:]), true
}

// replyChatID picks where resp goes: the originating chat for broadcasts,
// the requester's direct chat otherwise.
func replyChatID(resp Response, chatID, userID string) string {
	if resp.Broadcast {
		return chatID
	}
	return userID
}

func (b *Bot) handleApiEvent(ctx context.Context, e *botgolang.Event) {
	b.logger.WithFields(log.Fields{
		"event_id":   e.EventID,
		"event_type": e.Type,
	}).Debug("handling event")

	if e.Type != botgolang.NEW_MESSAGE {
		return
	}

	msg := e.Payload.Message()

	action, args, ok := parseCommand(msg.Text)
	if !ok {
		if e.Payload.Chat.ID == e.Payload.From.ID {
			b.sendHelp(e)
		}
		return
	}

	switch action {
	case "start", "help":
		b.sendHelp(e)
	default:
		b.handleCommand(e, Request{
			Action:      action,
			RequesterID: e.Payload.From.ID,
			Args:        args,
		})
	}
}

func (b *Bot) handleCommand(e *botgolang.Event, req Request) {
	b.logger.WithFields(log.Fields{
		"event_id": e.EventID,
		"command":  req.Action,
	}).Debug("handling command")

	resp, err := b.router.Handle(req)
	if err != nil {
		b.logger.WithFields(log.Fields{
			"event_id": e.EventID,
			"command":  req.Action,
			"user_id":  req.RequesterID,
			"error":    err,
		}).Error("command failed")
	}

	chatID := replyChatID(resp, e.Payload.Chat.ID, req.RequesterID)
	rmsg := b.bot.NewTextMessage(chatID, resp.Text)
	b.sendLog(e.EventID, rmsg)
}

func (b *Bot) sendHelp(e *botgolang.Event) {
	text := b.router.l("HelpMessage", map[string]interface{}{
		"Name": e.Payload.From.FirstName,
	})
	rmsg := b.bot.NewTextMessage(e.Payload.From.ID, text)
	b.sendLog(e.EventID, rmsg)
}
