// Package lists holds the token-list state machine behind a single
// serialized dispatch entry point.
package lists

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/devlongs/swapsync/internal/tokenlist"
)

// Persister saves and restores list state across restarts
type Persister interface {
	Load() (State, error)
	Save(State) error
}

// Store owns the list state. Every update goes through Dispatch.
type Store struct {
	mu            sync.Mutex
	state         State
	rehydrated    bool
	defaultActive map[string]bool
	initialURLs   []string
	persister     Persister
	subs          []chan struct{}
}

// NewStore creates a store tracking initialURLs once rehydrated.
// persister may be nil, in which case state lives only in memory.
func NewStore(persister Persister, initialURLs, defaultActiveURLs []string) *Store {
	active := make(map[string]bool, len(defaultActiveURLs))
	for _, u := range defaultActiveURLs {
		active[u] = true
	}
	return &Store{
		state:         newState(),
		defaultActive: active,
		initialURLs:   initialURLs,
		persister:     persister,
	}
}

// Rehydrate loads persisted state and marks the store ready
func (s *Store) Rehydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister != nil {
		loaded, err := s.persister.Load()
		if err != nil {
			return fmt.Errorf("load list state: %w", err)
		}
		if loaded.ByURL != nil {
			s.state = loaded
		}
	}

	for _, u := range s.initialURLs {
		if _, ok := s.state.ByURL[u]; !ok {
			s.state.ByURL[u] = &ListState{}
		}
	}
	s.rehydrated = true

	log.Info().
		Int("lists", len(s.state.ByURL)).
		Int("active", len(s.state.ActiveListURLs)).
		Msg("List state rehydrated")

	s.notifyLocked()
	return nil
}

// Rehydrated reports whether persisted state has finished loading
func (s *Store) Rehydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rehydrated
}

// Dispatch applies one action. State is untouched when the action fails.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	changed, err := a.apply(&next, s.defaultActive)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	s.state = next

	if s.persister != nil && s.rehydrated {
		if err := s.persister.Save(s.state); err != nil {
			log.Warn().Err(err).Msg("Failed to persist list state")
		}
	}

	s.notifyLocked()
	return nil
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// CurrentLists returns the accepted version of every loaded list
func (s *Store) CurrentLists() map[string]*tokenlist.TokenList {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*tokenlist.TokenList, len(s.state.ByURL))
	for u, ls := range s.state.ByURL {
		if ls.Current != nil {
			out[u] = ls.Current
		}
	}
	return out
}

// Subscribe returns a channel signalled after every state change.
// Signals coalesce: a slow reader sees one pending signal, not one per change.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
