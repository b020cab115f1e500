// Package slack adapts slash-command invocations to the queue router.
//
// The webhook runner passes the HTTP GET and POST parameters of the
// slash-command request as two JSON documents on the command line, and
// expects the reply envelope on stdout.
package slack

import (
	"encoding/json"
	"fmt"
	"strings"

	"passoffbot"
)

const responseTypeInChannel = "in_channel"

// Envelope is the slash-command reply body.
type Envelope struct {
	Text         string `json:"text"`
	ResponseType string `json:"response_type,omitempty"`
}

// ParseArgs decodes the GET and POST documents from args.
func ParseArgs(args []string) (get, post map[string]interface{}, err error) {
	if len(args) < 2 {
		return nil, nil, fmt.Errorf("Not enough arguments provided to the script.")
	}
	if err := json.Unmarshal([]byte(args[0]), &get); err != nil {
		return nil, nil, fmt.Errorf("Error decoding JSON arguments: %v", err)
	}
	if err := json.Unmarshal([]byte(args[1]), &post); err != nil {
		return nil, nil, fmt.Errorf("Error decoding JSON arguments: %v", err)
	}
	return get, post, nil
}

// ExtractRequest builds a router request from the POST parameters:
// "command" ("/passoff"), "text" (space separated args) and "user_id".
func ExtractRequest(post map[string]interface{}) (passoffbot.Request, error) {
	command, err := requireField(post, "command")
	if err != nil {
		return passoffbot.Request{}, err
	}
	text, err := requireField(post, "text")
	if err != nil {
		return passoffbot.Request{}, err
	}
	userID, err := requireField(post, "user_id")
	if err != nil {
		return passoffbot.Request{}, err
	}

	return passoffbot.Request{
		Action:      strings.TrimPrefix(command, "/"),
		RequesterID: userID,
		Args:        strings.Fields(text),
	}, nil
}

func requireField(data map[string]interface{}, field string) (string, error) {
	v, ok := data[field]
	if !ok {
		return "", fmt.Errorf("Failed to parse HTTP request: Could not find field '%s'.", field)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("Failed to parse HTTP request: Field '%s' is not a string.", field)
	}
	return s, nil
}

// Render encodes resp as a reply envelope. Private replies carry no
// response_type, which Slack shows to the requester only.
func Render(resp passoffbot.Response) ([]byte, error) {
	env := Envelope{Text: resp.Text}
	if resp.Broadcast {
		env.ResponseType = responseTypeInChannel
	}
	return json.Marshal(env)
}
