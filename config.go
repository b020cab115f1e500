package passoffbot

import (
	"passoffbot/store"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

type Config struct {
	// Token and APIURL are only needed by the polling bot
	Token  string `env:"API_TOKEN"`
	APIURL string `env:"API_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DBPath empty means in-memory queue, which only makes sense for the polling bot
	DBPath     string `env:"DB_PATH" envDefault:"./db/queue.sqlite"`
	RosterPath string `env:"TA_ROSTER_PATH" envDefault:"./secrets/ta_slack_user_ids.json"`
	LocaleFile string `env:"LOCALE_FILE"`

	Queue  store.Queue  `env:"-"`
	Roster store.Roster `env:"-"`

	Bundle *i18n.Bundle
	Logger *log.Logger
}

// Localizer returns an English localizer over cfg.Bundle.
func (cfg Config) Localizer() *i18n.Localizer {
	return i18n.NewLocalizer(cfg.Bundle, language.English.String())
}
