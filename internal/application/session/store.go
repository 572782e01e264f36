package session

import (
	"context"
	"errors"
	"sync"

	"sitesafety/internal/domain/auth"

	"github.com/rs/zerolog"
)

// TokenHolder receives the bearer token whenever the session changes.
// Only the Store calls it.
type TokenHolder interface {
	SetToken(token string)
	ClearToken()
}

// Listener is called with the new snapshot after every transition.
// Listeners run while the transition lock is held and must not call
// Initialize, Login or Logout.
type Listener func(auth.Snapshot)

// Store owns the session of one visitor. Transitions are serialized and
// written through to the durable slot.
type Store struct {
	codec  *Codec
	slot   auth.TokenSlot
	holder TokenHolder
	logger zerolog.Logger

	transition sync.Mutex
	initOnce   sync.Once

	mu           sync.RWMutex
	rawToken     string
	identity     *auth.Identity
	initializing bool

	subMu     sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store that has not been initialized yet
func NewStore(codec *Codec, slot auth.TokenSlot, holder TokenHolder, logger zerolog.Logger) *Store {
	return &Store{
		codec:        codec,
		slot:         slot,
		holder:       holder,
		logger:       logger,
		initializing: true,
		listeners:    make(map[int]Listener),
	}
}

// Initialize restores the persisted token. It runs at most once; later
// calls return immediately.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		s.transition.Lock()
		defer s.transition.Unlock()

		raw, err := s.slot.Load(ctx)
		switch {
		case errors.Is(err, auth.ErrTokenNotFound):
			s.holder.ClearToken()
			s.setState("", nil, false)
			return
		case err != nil:
			s.logger.Warn().Err(err).Msg("failed to load persisted token")
			s.logoutLocked(ctx)
			s.setInitialized()
			return
		}

		identity, err := s.codec.Check(raw)
		if err != nil {
			s.logger.Info().Err(err).Msg("discarding persisted token")
			s.logoutLocked(ctx)
			s.setInitialized()
			return
		}

		s.holder.SetToken(raw)
		s.setState(raw, identity, false)
	})
}

// startEmpty completes initialization without looking for a persisted
// token. Used for visitors whose id was issued on this request.
func (s *Store) startEmpty() {
	s.initOnce.Do(func() {
		s.transition.Lock()
		defer s.transition.Unlock()
		s.holder.ClearToken()
		s.setState("", nil, false)
	})
}

// Refresh ends the session once its token is no longer live and reports
// whether it did
func (s *Store) Refresh(ctx context.Context) bool {
	if id := s.Identity(); id == nil || s.codec.IsLive(id) {
		return false
	}

	s.transition.Lock()
	defer s.transition.Unlock()
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()
	// a concurrent transition may have replaced the token meanwhile
	if identity == nil || s.codec.IsLive(identity) {
		return false
	}
	s.logger.Info().Msg("session expired")
	s.logoutLocked(ctx)
	return true
}

// Login adopts raw as the current session. It returns false without any
// state change when the token is undecodable, not live, or cannot be
// persisted.
func (s *Store) Login(ctx context.Context, raw string) bool {
	identity, err := s.codec.Check(raw)
	if err != nil {
		s.logger.Info().Err(err).Msg("login rejected")
		return false
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	if err := s.slot.Save(ctx, raw); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist token")
		return false
	}
	s.holder.SetToken(raw)
	s.setState(raw, identity, s.IsInitializing())
	return true
}

// Logout clears the session, the durable slot and the bearer token. It is
// safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.transition.Lock()
	defer s.transition.Unlock()
	s.logoutLocked(ctx)
}

func (s *Store) logoutLocked(ctx context.Context) {
	if err := s.slot.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted token")
	}
	s.holder.ClearToken()
	s.setState("", nil, s.IsInitializing())
}

func (s *Store) setInitialized() {
	s.mu.Lock()
	changed := s.initializing
	s.initializing = false
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

func (s *Store) setState(raw string, identity *auth.Identity, initializing bool) {
	s.mu.Lock()
	s.rawToken = raw
	s.identity = identity
	s.initializing = initializing
	s.mu.Unlock()
	s.publish()
}

// Identity returns a copy of the current identity or nil
func (s *Store) Identity() *auth.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

func (s *Store) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rawToken
}

// IsInitializing reports whether the persisted token is still being restored
func (s *Store) IsInitializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initializing
}

// Snapshot returns the identity and initialization flag read together
func (s *Store) Snapshot() auth.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := auth.Snapshot{Initializing: s.initializing}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

// Subscribe registers fn for every future transition and returns a func
// that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) publish() {
	snap := s.Snapshot()
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}
