package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"passoffbot/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	Text         string `json:"text"`
	ResponseType string `json:"response_type"`
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	roster := filepath.Join(dir, "secrets", "tas.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(roster), 0o755))
	require.NoError(t, os.WriteFile(roster, []byte(`["TA1"]`), 0o644))

	dbPath := filepath.Join(dir, "db", "queue.sqlite")
	t.Setenv("DB_PATH", dbPath)
	t.Setenv("TA_ROSTER_PATH", roster)
	t.Setenv("LOG_LEVEL", "error")
	return dbPath
}

func runInvoke(t *testing.T, args ...string) (reply, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"invoke"}, args...))

	err := cmd.Execute()

	var r reply
	require.NoError(t, json.Unmarshal(out.Bytes(), &r), "stdout: %s", out.String())
	return r, err
}

func post(command, userID string) string {
	b, _ := json.Marshal(map[string]string{
		"command": command,
		"text":    "",
		"user_id": userID,
	})
	return string(b)
}

func TestInvoke_PassoffThenNext(t *testing.T) {
	dbPath := setupEnv(t)

	r, err := runInvoke(t, "{}", post("/passoff", "U1"))
	require.NoError(t, err)
	assert.Equal(t, "in_channel", r.ResponseType)
	assert.Contains(t, r.Text, "0 people in front of you")

	r, err = runInvoke(t, "{}", post("/passoff", "U2"))
	require.NoError(t, err)
	assert.Contains(t, r.Text, "1 people in front of you")

	r, err = runInvoke(t, "{}", post("/next", "TA1"))
	require.NoError(t, err)
	assert.Equal(t, "in_channel", r.ResponseType)
	assert.Contains(t, r.Text, "<@U1>")

	q, err := store.Open(dbPath)
	require.NoError(t, err)
	defer q.Close()
	users, err := q.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"U2"}, users)
}

func TestInvoke_NonTADenied(t *testing.T) {
	setupEnv(t)

	_, err := runInvoke(t, "{}", post("/passoff", "U1"))
	require.NoError(t, err)

	r, err := runInvoke(t, "{}", post("/clearqueue", "U1"))
	require.NoError(t, err)
	assert.Empty(t, r.ResponseType)
	assert.Equal(t, "TA command only, sorry.", r.Text)

	r, err = runInvoke(t, "{}", post("/wait", "U1"))
	require.NoError(t, err)
	assert.Equal(t, "There are 1 people in the queue! There are 0 people in front of you.", r.Text)
}

func TestInvoke_UnknownActionFails(t *testing.T) {
	setupEnv(t)

	r, err := runInvoke(t, "{}", post("/frobnicate", "U1"))
	assert.ErrorIs(t, err, errFatal)
	assert.Empty(t, r.ResponseType)
	assert.Equal(t, "Error (please contact a TA!): Unrecognized action: 'frobnicate'. Args were '[]'", r.Text)
}

func TestInvoke_MalformedInputFails(t *testing.T) {
	setupEnv(t)

	r, err := runInvoke(t, "{}")
	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, "Error (please contact a TA!): Not enough arguments provided to the script.", r.Text)

	r, err = runInvoke(t, "{}", `{"command":"/wait","text":""}`)
	assert.ErrorIs(t, err, errFatal)
	assert.Contains(t, r.Text, "Could not find field 'user_id'")
}
