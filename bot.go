package passoffbot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	botgolang "github.com/mail-ru-im/bot-golang"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
)

// BotMention renders @[userId], which the bot API turns into a user link.
func BotMention(userID string) string {
	return "@[" + userID + "]"
}

// Bot serves queue commands over the bot API, sharing one Queue for the
// lifetime of the process.
type Bot struct {
	bot       *botgolang.Bot
	cfg       Config
	router    *Router
	localizer *i18n.Localizer
	logger    *log.Logger
}

func NewBot(cfg Config) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	bot := Bot{
		cfg: cfg,
	}

	if cfg.Logger != nil {
		bot.logger = cfg.Logger
	} else {
		bot.logger = log.StandardLogger()
	}

	var err error

	var opts []botgolang.BotOption
	if cfg.APIURL != "" {
		opts = append(opts, botgolang.BotApiURL(cfg.APIURL))
	}

	bot.bot, err = botgolang.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("cant create botgolang bot: %w", err)
	}

	bot.localizer = cfg.Localizer()
	bot.router = NewRouter(cfg.Queue, cfg.Roster, bot.localizer, BotMention, bot.logger)

	return &bot, nil
}

func (b *Bot) BotInfo() *botgolang.BotInfo {
	return b.bot.Info
}

var errEventsClosed = errors.New("events channel closed")

// StartPolling handles events until ctx is done or the API stops delivering
// them, then waits for handlers still running.
func (b *Bot) StartPolling(ctx context.Context) error {
	return b.dispatch(ctx, b.bot.GetUpdatesChannel(ctx), func(e *botgolang.Event) {
		b.handleApiEvent(ctx, e)
	})
}

func (b *Bot) dispatch(ctx context.Context, events <-chan botgolang.Event, handle func(*botgolang.Event)) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		var e botgolang.Event
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok = <-events:
		}
		if !ok {
			return errEventsClosed
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.WithFields(log.Fields{
						"error":    r,
						"event_id": e.EventID,
					}).Error("panic during event handling")
				}
			}()

			handle(&e)
		}()
	}
}
