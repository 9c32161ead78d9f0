package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Outcome messages returned by Save.
const (
	MessageSynced    = "Data saved and synced with the central server"
	MessageLocalOnly = "Saved locally, but the central server sync failed"
	MessageLocal     = "Saved locally"
)

// Repository persists unit documents.
type Repository interface {
	SaveInventory(ctx context.Context, userID string, state *models.InventoryState) error
	ListInventories(ctx context.Context) (map[string]*models.InventoryState, error)
}

// RemoteSyncer pushes a saved document to the central server.
type RemoteSyncer interface {
	SyncInventory(ctx context.Context, userID string, state *models.InventoryState) error
}

// SaveResult reports how far a save got. A remote failure is not an error.
type SaveResult struct {
	State   *models.InventoryState `json:"state"`
	Synced  bool                   `json:"synced"`
	Message string                 `json:"message"`
}

// Service applies checklist mutations and persists unit documents.
type Service struct {
	store  *Store
	repo   Repository
	remote RemoteSyncer
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	// serializes read-modify-write cycles on the store
	mu sync.Mutex
}

// NewService wires the inventory service. remote may be nil when no central server is configured.
func NewService(store *Store, repo Repository, remote RemoteSyncer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		repo:   repo,
		remote: remote,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// State returns the unit's document, or a fresh one when nothing was recorded yet.
func (s *Service) State(user models.User) *models.InventoryState {
	if state, ok := s.store.Get(user.ID); ok {
		return state
	}
	return models.NewInventoryState(user, s.now())
}

// Lookup returns a copy of one stored document without copying the rest of the fleet.
func (s *Service) Lookup(userID string) (*models.InventoryState, bool) {
	return s.store.Get(userID)
}

// Snapshot returns every stored document keyed by user id.
func (s *Service) Snapshot() map[string]*models.InventoryState {
	return s.store.Snapshot()
}

// Apply runs one action against the unit's document and writes it through.
func (s *Service) Apply(ctx context.Context, user models.User, action Action) (*models.InventoryState, error) {
	if !user.IsMobile() {
		return nil, fmt.Errorf("user %s has no unit: %w", user.Username, domain.ErrForbidden)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.State(user)
	env := actionEnv{
		user:    user,
		catalog: models.ItemsFor(user.Kind),
		now:     s.now(),
		newID:   s.newID,
	}
	if err := action.apply(next, env); err != nil {
		return nil, err
	}

	if err := s.repo.SaveInventory(ctx, user.ID, next); err != nil {
		return nil, fmt.Errorf("persist inventory: %w", err)
	}
	s.store.Put(user.ID, next)
	return next.Clone(), nil
}

// Save stamps the document, stores it and then tries the central server once.
func (s *Service) Save(ctx context.Context, user models.User) (SaveResult, error) {
	if !user.IsMobile() {
		return SaveResult{}, fmt.Errorf("user %s has no unit: %w", user.Username, domain.ErrForbidden)
	}

	s.mu.Lock()
	next := s.State(user)
	if strings.TrimSpace(next.Header.Responsible) == "" {
		s.mu.Unlock()
		return SaveResult{}, domain.NewValidationError("responsable", "the responsible person is required")
	}
	saved := s.now().UTC()
	next.LastSaved = &saved

	if err := s.repo.SaveInventory(ctx, user.ID, next); err != nil {
		s.mu.Unlock()
		return SaveResult{}, fmt.Errorf("persist inventory: %w", err)
	}
	s.store.Put(user.ID, next)
	s.mu.Unlock()

	result := SaveResult{State: next, Message: MessageLocal}
	if s.remote == nil {
		return result, nil
	}

	if err := s.remote.SyncInventory(ctx, user.ID, next); err != nil {
		s.logger.Warn("central sync failed", zap.String("user_id", user.ID), zap.Error(err))
		result.Message = MessageLocalOnly
		return result, nil
	}

	result.Synced = true
	result.Message = MessageSynced
	return result, nil
}

// Reload re-fetches every document and replaces the store content.
func (s *Service) Reload(ctx context.Context) error {
	all, err := s.repo.ListInventories(ctx)
	if err != nil {
		return fmt.Errorf("list inventories: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Replace(all)
	s.logger.Debug("inventory store reloaded", zap.Int("units", len(all)))
	return nil
}
