package locales

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBundle_Embedded(t *testing.T) {
	bundle, err := NewBundle()
	require.NoError(t, err)

	l := i18n.NewLocalizer(bundle, "en")
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    "Wait_Size",
		TemplateData: map[string]interface{}{"Size": 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "There are 3 people in the queue!", msg)
}

func TestNewBundle_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.toml")
	require.NoError(t, os.WriteFile(path, []byte("[TAOnly]\nother = \"TAs only.\"\n"), 0o644))

	bundle, err := NewBundle(path)
	require.NoError(t, err)

	l := i18n.NewLocalizer(bundle, "en")
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: "TAOnly"})
	require.NoError(t, err)
	assert.Equal(t, "TAs only.", msg)
}

func TestNewBundle_MissingFile(t *testing.T) {
	_, err := NewBundle(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
