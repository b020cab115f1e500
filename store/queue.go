package store

import "errors"

// Queue is a FIFO waiting line of user ids. A user id is present at most once.
//
// Compound operations (Add, Pick) are read-then-write and are not atomic
// across processes sharing the same backing storage.
type Queue interface {
	// List returns all user ids, front first.
	List() ([]string, error)
	// Position returns zero-based rank of userID or ErrUserNotFound.
	Position(userID string) (int, error)
	Size() (int, error)
	Has(userID string) (bool, error)
	// Add appends userID and returns its position, or ErrUserExists.
	Add(userID string) (int, error)
	// Remove deletes userID; removing an absent user is not an error.
	Remove(userID string) error
	Clear() error
	// Pick removes and returns the front user id, or ErrQueueEmpty.
	Pick() (userID string, err error)
}

var (
	ErrQueueEmpty   = errors.New("queue is empty")
	ErrUserExists   = errors.New("userID already present")
	ErrUserNotFound = errors.New("userID not in queue")
)

// position scans users front to back.
func position(users []string, userID string) (int, error) {
	for i, u := range users {
		if u == userID {
			return i, nil
		}
	}
	return 0, ErrUserNotFound
}
