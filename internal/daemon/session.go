package daemon

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Session is the poll loop state for one daemon run.
type Session struct {
	ID        ulid.ULID
	StartedAt time.Time

	// First is true until the first poll completes.
	First bool
	// Last is the AC state observed by the previous poll.
	Last bool

	Transitions int
}

// NewSession returns a session awaiting its first sample.
func NewSession() (Session, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}
	return Session{
		ID:        id,
		StartedAt: now,
		First:     true,
	}, nil
}

func powerSource(acPresent bool) string {
	if acPresent {
		return "ac"
	}
	return "battery"
}
