package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// ErrDisabled is returned when no central server is configured.
var ErrDisabled = errors.New("archive server is not configured")

// Lister reads the archive of the central server.
type Lister interface {
	ListHistory(ctx context.Context, folder string) ([]string, error)
	DownloadURL(path string) string
}

// Entry is one archived report.
type Entry struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Service lists archived monthly reports per unit.
type Service struct {
	lister Lister
	logger *zap.Logger
}

// NewService wires the archive service. lister may be nil.
func NewService(lister Lister, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{lister: lister, logger: logger}
}

// List returns the archived files of the unit named displayName.
func (s *Service) List(ctx context.Context, displayName string) ([]Entry, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, domain.NewValidationError("name", "unit name is required")
	}
	if s.lister == nil {
		return nil, ErrDisabled
	}

	folder := models.FolderName(displayName)
	paths, err := s.lister.ListHistory(ctx, folder)
	if err != nil {
		s.logger.Warn("history listing failed", zap.String("folder", folder), zap.Error(err))
		return nil, fmt.Errorf("list history %s: %w", folder, err)
	}

	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, Entry{Path: p, URL: s.lister.DownloadURL(p)})
	}
	return entries, nil
}
