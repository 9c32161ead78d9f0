package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/synccode"
)

var (
	// ErrNoPending is returned by Analyze when there is nothing to dispatch.
	ErrNoPending = errors.New("no pending requests to analyze")
	// ErrAnalysisDisabled is returned by Analyze when no AI client is configured.
	ErrAnalysisDisabled = errors.New("dispatch analysis is not configured")
)

// Repository persists supply requests.
type Repository interface {
	SaveRequest(ctx context.Context, req models.SupplyRequest) error
	GetRequest(ctx context.Context, id string) (models.SupplyRequest, error)
	ListRequests(ctx context.Context) ([]models.SupplyRequest, error)
}

// Analyzer writes a dispatch plan for pending requests.
type Analyzer interface {
	SummarizeDispatch(ctx context.Context, pending []models.SupplyRequest) (string, error)
}

// Stats are the warehouse dashboard counters.
type Stats struct {
	Pending int `json:"pending"`
	Mobiles int `json:"mobiles"`
}

// Service imports sync codes and tracks their fulfillment.
type Service struct {
	repo     Repository
	analyzer Analyzer
	logger   *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewService wires the warehouse service. analyzer may be nil.
func NewService(repo Repository, analyzer Analyzer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, analyzer: analyzer, logger: logger, now: time.Now}
}

// Import decodes a sync code into a new PENDING request.
func (s *Service) Import(ctx context.Context, code string) (models.SupplyRequest, error) {
	payload, err := synccode.Decode(code)
	if err != nil {
		return models.SupplyRequest{}, err
	}

	now := s.now()
	req := models.SupplyRequest{
		ID:         s.nextID(now),
		MobileID:   payload.MobileID,
		MobileName: payload.MobileName,
		Date:       payload.Date,
		Items:      make([]models.SupplyItem, 0, len(payload.Items)),
		Status:     models.RequestPending,
		CreatedAt:  now.UTC(),
	}
	for _, it := range payload.Items {
		req.Items = append(req.Items, models.SupplyItem{
			Name:          it.Name,
			Deficit:       it.Deficit,
			Current:       it.Current,
			HistoryNumber: it.HistoryNumber,
		})
	}

	if err := s.repo.SaveRequest(ctx, req); err != nil {
		return models.SupplyRequest{}, fmt.Errorf("save request: %w", err)
	}

	s.logger.Info("supply request imported",
		zap.String("request_id", req.ID),
		zap.String("mobile_id", req.MobileID),
		zap.Int("items", len(req.Items)))
	return req, nil
}

// List returns requests newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status models.RequestStatus) ([]models.SupplyRequest, error) {
	all, err := s.repo.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if status == "" {
		return all, nil
	}

	out := make([]models.SupplyRequest, 0, len(all))
	for _, r := range all {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// Stats counts pending requests and distinct requesting units.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.repo.ListRequests(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list requests: %w", err)
	}
	mobiles := map[string]struct{}{}
	var st Stats
	for _, r := range all {
		if r.Status == models.RequestPending {
			st.Pending++
		}
		mobiles[r.MobileID] = struct{}{}
	}
	st.Mobiles = len(mobiles)
	return st, nil
}

// Complete marks a request as fulfilled. Completing twice is a no-op.
func (s *Service) Complete(ctx context.Context, id string) (models.SupplyRequest, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return models.SupplyRequest{}, fmt.Errorf("get request %s: %w", id, err)
	}
	if req.Status == models.RequestCompleted {
		return req, nil
	}

	completed := s.now().UTC()
	req.Status = models.RequestCompleted
	req.CompletedAt = &completed
	if err := s.repo.SaveRequest(ctx, req); err != nil {
		return models.SupplyRequest{}, fmt.Errorf("save request: %w", err)
	}

	s.logger.Info("supply request completed", zap.String("request_id", id))
	return req, nil
}

// Analyze asks the AI client for a dispatch plan over pending requests.
func (s *Service) Analyze(ctx context.Context) (string, error) {
	pending, err := s.List(ctx, models.RequestPending)
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		return "", ErrNoPending
	}
	if s.analyzer == nil {
		return "", ErrAnalysisDisabled
	}

	text, err := s.analyzer.SummarizeDispatch(ctx, pending)
	if err != nil {
		return "", fmt.Errorf("dispatch analysis: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// nextID returns REQ-<unix millis>, bumped when two imports land in the same millisecond.
func (s *Service) nextID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return fmt.Sprintf("REQ-%d", id)
}
