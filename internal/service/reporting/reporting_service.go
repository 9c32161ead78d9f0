package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

const (
	consolidatedRange = ConsolidatedSheet + "!A1"
	complianceRange   = "Cumplimiento!A:E"
	dateLayout        = "2006-01-02"
)

var (
	// ErrPublishDisabled is returned when Google Sheets is not configured.
	ErrPublishDisabled = errors.New("google sheets publishing is not configured")
	// ErrTemplateDisabled is returned when no template source is configured.
	ErrTemplateDisabled = errors.New("template export is not configured")
)

// Directory lists the unit accounts.
type Directory interface {
	MobileUsers() []models.User
}

// StateSource exposes the latest document of every unit.
type StateSource interface {
	Lookup(userID string) (*models.InventoryState, bool)
	Snapshot() map[string]*models.InventoryState
}

// SheetWriter is the subset of the Google Sheets repository used for publishing.
type SheetWriter interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
	ReplaceRange(ctx context.Context, sheetRange string, values [][]interface{}) error
}

// Service exports checklist data to workbooks and Google Sheets.
type Service struct {
	users     Directory
	states    StateSource
	sheets    SheetWriter
	templates TemplateFetcher
	template  TemplateConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the reporting service. sheets and templates may be nil.
func NewService(users Directory, states StateSource, sheets SheetWriter, templates TemplateFetcher, template TemplateConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:     users,
		states:    states,
		sheets:    sheets,
		templates: templates,
		template:  template,
		logger:    logger,
		now:       time.Now,
	}
}

// Rows builds the consolidated rows from the current store.
func (s *Service) Rows() []Row {
	return BuildRows(s.users.MobileUsers(), s.states.Snapshot())
}

// Consolidated renders the fleet-wide workbook and its download name.
func (s *Service) Consolidated(day int) (string, []byte, error) {
	data, err := ConsolidatedWorkbook(s.Rows())
	if err != nil {
		return "", nil, err
	}
	return ConsolidatedFileName(day, s.now().Month()), data, nil
}

// UnitControl renders the control workbook of one unit.
func (s *Service) UnitControl(user models.User) ([]byte, error) {
	state, _ := s.states.Lookup(user.ID)
	return UnitControlWorkbook(user, state)
}

// Template fills the configured template for one unit.
func (s *Service) Template(ctx context.Context, user models.User, day int) ([]byte, error) {
	if s.templates == nil || s.template.Name == "" {
		return nil, ErrTemplateDisabled
	}
	state, _ := s.states.Lookup(user.ID)
	return FillTemplate(ctx, s.templates, s.template, user, state, day)
}

// PublishConsolidated overwrites the consolidated sheet with the current rows.
func (s *Service) PublishConsolidated(ctx context.Context) (int, error) {
	if s.sheets == nil {
		return 0, ErrPublishDisabled
	}

	rows := s.Rows()
	header := Headers()
	values := make([][]interface{}, 0, len(rows)+1)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values = append(values, headerRow)
	for _, r := range rows {
		values = append(values, r.Values())
	}

	if err := s.sheets.ReplaceRange(ctx, consolidatedRange, values); err != nil {
		return 0, fmt.Errorf("publish consolidated: %w", err)
	}

	s.logger.Info("consolidated sheet published", zap.Int("rows", len(rows)))
	return len(rows), nil
}

// RecordCompliance appends the day's completion counts to the compliance log sheet.
func (s *Service) RecordCompliance(ctx context.Context, day, done, total int) error {
	if s.sheets == nil {
		return ErrPublishDisabled
	}

	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total) * 100
	}
	row := []interface{}{s.now().Format(dateLayout), day, done, total, fmt.Sprintf("%.1f%%", pct)}
	if err := s.sheets.WriteRow(ctx, complianceRange, row); err != nil {
		return fmt.Errorf("record compliance: %w", err)
	}
	return nil
}
