package session

import (
	"context"
	"encoding/hex"
	"sync"
	"time"

	"sitesafety/internal/domain/auth"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"
)

const vaultTimeout = 10 * time.Second

// Entry pairs the session store of one visitor with the client it drives
type Entry[C TokenHolder] struct {
	Store  *Store
	Client C

	mu       sync.Mutex
	lastSeen time.Time
}

func (e *Entry[C]) touch(now time.Time) {
	e.mu.Lock()
	e.lastSeen = now
	e.mu.Unlock()
}

func (e *Entry[C]) idleSince(cutoff time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSeen.Before(cutoff)
}

// Registry keeps one Entry per visitor. Tokens live in the vault, so an
// evicted visitor is restored on the next request.
type Registry[C TokenHolder] struct {
	codec     *Codec
	vault     auth.TokenVault
	newClient func() C
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry[C]
}

// NewRegistry creates a registry backed by vault
func NewRegistry[C TokenHolder](codec *Codec, vault auth.TokenVault, newClient func() C, logger zerolog.Logger) *Registry[C] {
	return &Registry[C]{
		codec:     codec,
		vault:     vault,
		newClient: newClient,
		logger:    logger,
		now:       time.Now,
		entries:   make(map[string]*Entry[C]),
	}
}

// VaultKey derives the vault key for a visitor id
func VaultKey(visitorID string) string {
	sum := blake2b.Sum256([]byte(visitorID))
	return hex.EncodeToString(sum[:])
}

// Acquire returns the entry for visitorID, creating and initializing it on
// first use. Concurrent callers for a new visitor may observe the entry
// while it is still initializing. A reused entry whose token is no longer
// live is logged out before it is returned.
func (r *Registry[C]) Acquire(ctx context.Context, visitorID string) *Entry[C] {
	now := r.now()

	r.mu.Lock()
	entry, ok := r.entries[visitorID]
	if ok {
		r.mu.Unlock()
		entry.touch(now)
		refreshCtx, cancel := detached(ctx)
		defer cancel()
		entry.Store.Refresh(refreshCtx)
		return entry
	}
	entry = r.newEntry(visitorID, now)
	r.entries[visitorID] = entry
	r.mu.Unlock()

	initCtx, cancel := detached(ctx)
	defer cancel()
	entry.Store.Initialize(initCtx)
	return entry
}

// Fresh returns an anonymous entry for a visitor id issued on this request.
// The entry is not kept and no vault lookup is made; the visitor is
// registered once it comes back with the id.
func (r *Registry[C]) Fresh(visitorID string) *Entry[C] {
	entry := r.newEntry(visitorID, r.now())
	entry.Store.startEmpty()
	return entry
}

func (r *Registry[C]) newEntry(visitorID string, now time.Time) *Entry[C] {
	key := VaultKey(visitorID)
	client := r.newClient()
	logger := r.logger.With().Str("visitor", key[:12]).Logger()
	store := NewStore(r.codec, auth.VaultSlot{Vault: r.vault, Key: key}, client, logger)
	store.Subscribe(logTransitions(logger))
	return &Entry[C]{Store: store, Client: client, lastSeen: now}
}

// detached bounds a vault call without inheriting the request's cancellation
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), vaultTimeout)
}

func logTransitions(logger zerolog.Logger) Listener {
	return func(s auth.Snapshot) {
		event := logger.Debug().Bool("authenticated", s.Authenticated())
		if s.Identity != nil {
			event = event.Str("role", string(s.Identity.Role))
		}
		event.Msg("session changed")
	}
}

// Len returns the number of live entries
func (r *Registry[C]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops entries idle for longer than idle and returns how many were dropped
func (r *Registry[C]) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, entry := range r.entries {
		if entry.idleSince(cutoff) {
			delete(r.entries, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done
func (r *Registry[C]) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Debug().Int("dropped", n).Int("remaining", r.Len()).Msg("swept idle sessions")
			}
		}
	}
}
