package session

import (
	"context"
	"fmt"
	"strings"
)

type sessionStore interface {
	Exists(ctx context.Context, key string) (bool, error)
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Checker verifies that the login collaborator still holds a live session for a token id.
type Checker struct {
	store sessionStore
	keyer sessionKeyer
}

// NewChecker builds a Checker backed by the Redis client.
func NewChecker(store sessionStore, keyer sessionKeyer) (*Checker, error) {
	if store == nil || keyer == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Checker{store: store, keyer: keyer}, nil
}

// HasSession reports whether the provided access ID still has an active session.
func (c *Checker) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	return c.store.Exists(ctx, c.keyer.AccessSessionKey(accessID))
}
