// Package locales holds reply catalogues for the passoff bot.
package locales

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed en.toml
var en []byte

// NewBundle returns a bundle with the embedded English catalogue, overlaid
// with messages from extraFiles.
func NewBundle(extraFiles ...string) (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.ParseMessageFileBytes(en, "en.toml"); err != nil {
		return nil, fmt.Errorf("parse embedded catalogue: %w", err)
	}

	for _, f := range extraFiles {
		if f == "" {
			continue
		}
		if _, err := bundle.LoadMessageFile(f); err != nil {
			return nil, fmt.Errorf("load catalogue %s: %w", f, err)
		}
	}

	return bundle, nil
}
