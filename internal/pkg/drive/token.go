package drive

import (
	"context"
	"sync"
)

// StaticTokenSource serves a fixed credential. Refresh re-issues the same
// value, which satisfies the retry contract for providers whose credential
// never rotates (the local store, long-lived API keys).
type StaticTokenSource struct {
	mu    sync.Mutex
	token string
}

// NewStaticTokenSource creates a token source that always returns token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *StaticTokenSource) Refresh(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}
