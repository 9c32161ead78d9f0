package reporting

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// TemplateFetcher downloads a named spreadsheet template.
type TemplateFetcher interface {
	FetchTemplate(ctx context.Context, name string) ([]byte, error)
}

// TemplateConfig names the template file and the sheet it must contain.
type TemplateConfig struct {
	Name  string
	Sheet string
}

type templateCell struct {
	cell  string
	value func(u models.User, h models.InventoryHeader) string
}

// templateHeaderCells maps header fields onto the template. Per-item rows are
// not mapped yet: only sampleCell receives item data until the real row layout
// of the template is known.
var templateHeaderCells = []templateCell{
	{"C3", func(u models.User, _ models.InventoryHeader) string { return u.DisplayName }},
	{"C4", func(_ models.User, h models.InventoryHeader) string { return h.Plate }},
	{"C5", func(_ models.User, h models.InventoryHeader) string { return h.Responsible }},
	{"H3", func(_ models.User, h models.InventoryHeader) string { return h.Month }},
	{"H4", func(_ models.User, h models.InventoryHeader) string { return h.Year }},
	{"H5", func(_ models.User, h models.InventoryHeader) string { return h.SDSCode }},
	{"K3", func(_ models.User, h models.InventoryHeader) string { return h.InternalCode }},
}

const sampleCell = "E10"

// FillTemplate fetches the configured template and writes the unit header and
// the sample cell (first catalog item on day) into it.
func FillTemplate(ctx context.Context, fetcher TemplateFetcher, cfg TemplateConfig, user models.User, state *models.InventoryState, day int) ([]byte, error) {
	blob, err := fetcher.FetchTemplate(ctx, cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("open template %s: %w", cfg.Name, err)
	}
	defer func() { _ = f.Close() }()

	if idx, err := f.GetSheetIndex(cfg.Sheet); err != nil || idx < 0 {
		return nil, domain.NewValidationError("template", fmt.Sprintf("template %s has no sheet %q", cfg.Name, cfg.Sheet))
	}

	var h models.InventoryHeader
	if state != nil {
		h = state.Header
	}
	for _, c := range templateHeaderCells {
		if err := f.SetCellValue(cfg.Sheet, c.cell, c.value(user, h)); err != nil {
			return nil, fmt.Errorf("write %s: %w", c.cell, err)
		}
	}

	day = models.ClampDay(day)
	catalog := models.ItemsFor(user.Kind)
	if len(catalog) > 0 {
		item := catalog[0]
		check, found := state.CheckIndex()[models.CheckKey{ItemID: item.ID, Day: day}]
		if err := f.SetCellValue(cfg.Sheet, sampleCell, cellValue(encodeDay(user, item, check, found))); err != nil {
			return nil, fmt.Errorf("write %s: %w", sampleCell, err)
		}
	}

	return writeWorkbook(f)
}
