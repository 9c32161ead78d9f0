package inventory

import (
	"sync"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// Store keeps the latest InventoryState of every unit in memory.
// Reads hand out clones so callers never share maps with the store.
type Store struct {
	mu     sync.RWMutex
	states map[string]*models.InventoryState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{states: make(map[string]*models.InventoryState)}
}

// Get returns a copy of the unit's state.
func (s *Store) Get(userID string) (*models.InventoryState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	if !ok {
		return nil, false
	}
	return state.Clone(), true
}

// Snapshot copies every state, keyed by user id.
func (s *Store) Snapshot() map[string]*models.InventoryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.InventoryState, len(s.states))
	for id, state := range s.states {
		out[id] = state.Clone()
	}
	return out
}

// Put stores a state for a unit.
func (s *Store) Put(userID string, state *models.InventoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state.Clone()
}

// Replace swaps the whole content, as done after a full re-fetch.
func (s *Store) Replace(all map[string]*models.InventoryState) {
	next := make(map[string]*models.InventoryState, len(all))
	for id, state := range all {
		if state == nil {
			continue
		}
		c := state.Clone()
		c.Normalize()
		next[id] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = next
}
