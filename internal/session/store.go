package session

import (
	"context"
	"errors"
)

// ErrNoSession is returned by a Store when the profile has no saved session.
var ErrNoSession = errors.New("session: no session for profile")

// Store persists one opaque payload per browser profile.
// Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, profile string) ([]byte, error)
	Save(ctx context.Context, profile string, payload []byte) error
	Delete(ctx context.Context, profile string) error
	Ping(ctx context.Context) error
}
