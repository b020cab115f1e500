package slack

import (
	"testing"

	"passoffbot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	get, post, err := ParseArgs([]string{`{}`, `{"command":"/passoff","text":"","user_id":"U1"}`})
	require.NoError(t, err)
	assert.Empty(t, get)
	assert.Equal(t, "/passoff", post["command"])

	_, _, err = ParseArgs([]string{`{}`})
	assert.EqualError(t, err, "Not enough arguments provided to the script.")

	_, _, err = ParseArgs([]string{`{}`, `{nope`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error decoding JSON arguments")
}

func TestExtractRequest(t *testing.T) {
	req, err := ExtractRequest(map[string]interface{}{
		"command": "/next",
		"text":    "  one  two ",
		"user_id": "TA1",
	})
	require.NoError(t, err)
	assert.Equal(t, passoffbot.Request{
		Action:      "next",
		RequesterID: "TA1",
		Args:        []string{"one", "two"},
	}, req)
}

func TestExtractRequest_BadFields(t *testing.T) {
	_, err := ExtractRequest(map[string]interface{}{"command": "/next", "text": ""})
	assert.EqualError(t, err, "Failed to parse HTTP request: Could not find field 'user_id'.")

	_, err = ExtractRequest(map[string]interface{}{"command": 7, "text": "", "user_id": "U1"})
	assert.EqualError(t, err, "Failed to parse HTTP request: Field 'command' is not a string.")
}

func TestRender(t *testing.T) {
	b, err := Render(passoffbot.Response{Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(b))

	b, err = Render(passoffbot.Response{Text: "hi all", Broadcast: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi all","response_type":"in_channel"}`, string(b))
}
