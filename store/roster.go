package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// Roster tells whether a user is a TA.
type Roster interface {
	IsTA(userID string) (bool, error)
}

// FileRoster reads TA user ids from the JSON file at Path on every call,
// so the file can be edited without restarting anything. The file holds
// either an array of ids or an object keyed by id; object values are ignored.
type FileRoster struct {
	Path string
}

func (r FileRoster) IsTA(userID string) (bool, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return false, fmt.Errorf("read ta roster: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		for _, id := range ids {
			if id == userID {
				return true, nil
			}
		}
		return false, nil
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(data, &byID); err != nil {
		return false, fmt.Errorf("parse ta roster %s: want array or object of user ids", r.Path)
	}
	_, ok := byID[userID]
	return ok, nil
}

// MemRoster is a fixed set of TA user ids
type MemRoster map[string]struct{}

func NewMemRoster(userIDs ...string) MemRoster {
	r := make(MemRoster, len(userIDs))
	for _, u := range userIDs {
		r[u] = struct{}{}
	}
	return r
}

func (r MemRoster) IsTA(userID string) (bool, error) {
	_, ok := r[userID]
	return ok, nil
}
