package service

import (
	"context"
	"fmt"

	"github.com/jengzang/ecorisk-backend-go/internal/auth"
	"github.com/jengzang/ecorisk-backend-go/internal/session"
	"github.com/jengzang/ecorisk-backend-go/internal/sources"
)

// SessionService handles map session lifecycle
type SessionService struct {
	store  *session.Store
	tokens *auth.TokenManager
}

// NewSessionService creates a new session service
func NewSessionService(store *session.Store, tokens *auth.TokenManager) *SessionService {
	return &SessionService{store: store, tokens: tokens}
}

// CreatedSession is a new session and the token that addresses it
type CreatedSession struct {
	session.Snapshot
	Token string `json:"token"`
}

// Create starts a session over the demo sources
func (s *SessionService) Create(ctx context.Context) (*CreatedSession, error) {
	sess, err := s.store.Create(ctx, sources.Demo())
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &CreatedSession{Snapshot: sess.Snapshot(), Token: token}, nil
}

// Get returns the viewport and cache status of a session
func (s *SessionService) Get(ctx context.Context, id string) (session.Snapshot, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}
