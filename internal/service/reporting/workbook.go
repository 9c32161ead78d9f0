package reporting

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// ConsolidatedSheet is the sheet name of the fleet-wide export.
const ConsolidatedSheet = "VOM_Consolidado"

// ConsolidatedFileName is the download name for the export of day in month.
func ConsolidatedFileName(day int, month time.Month) string {
	return fmt.Sprintf("REPORTE_VOM_%d_%d.xlsx", models.ClampDay(day), int(month))
}

// ConsolidatedWorkbook renders rows into a single-sheet xlsx document.
func ConsolidatedWorkbook(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ConsolidatedSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := Headers()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(ConsolidatedSheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		values := r.Values()
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ConsolidatedSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return writeWorkbook(f)
}

// UnitControlSheet is the monthly control grid of one unit: one row per
// catalog item with the encoded day cells. Driver grids end with a row
// counting the photos of each day.
func UnitControlSheet(user models.User, state *models.InventoryState) [][]string {
	header := []string{"Categoría", "Insumo", "Req"}
	for d := models.MinDay; d <= models.MaxDay; d++ {
		header = append(header, fmt.Sprintf("D%d", d))
	}
	grid := [][]string{header}

	index := state.CheckIndex()
	for _, item := range models.ItemsFor(user.Kind) {
		line := []string{item.Category, item.Name, fmt.Sprint(item.RequiredStock)}
		for d := models.MinDay; d <= models.MaxDay; d++ {
			check, found := index[models.CheckKey{ItemID: item.ID, Day: d}]
			line = append(line, encodeDay(user, item, check, found))
		}
		grid = append(grid, line)
	}

	if user.IsDriver() {
		line := []string{"EVIDENCIA", "Fotos", ""}
		for d := models.MinDay; d <= models.MaxDay; d++ {
			n := 0
			if state != nil {
				n = len(state.Photos[d])
			}
			line = append(line, fmt.Sprint(n))
		}
		grid = append(grid, line)
	}
	return grid
}

// UnitControlWorkbook renders UnitControlSheet with the header block above it.
func UnitControlWorkbook(user models.User, state *models.InventoryState) ([]byte, error) {
	const sheet = "Control"
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	var h models.InventoryHeader
	if state != nil {
		h = state.Header
	}
	meta := [][]interface{}{
		{"Unidad", user.DisplayName},
		{"Placa", h.Plate},
		{"Responsable", h.Responsible},
		{"Mes", h.Month + " " + h.Year},
	}
	for i, m := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		row := m
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write header block: %w", err)
		}
	}

	offset := len(meta) + 2
	for i, line := range UnitControlSheet(user, state) {
		values := make([]interface{}, len(line))
		for j, v := range line {
			values[j] = cellValue(v)
		}
		cell, _ := excelize.CoordinatesToCellName(1, offset+i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write control row: %w", err)
		}
	}

	return writeWorkbook(f)
}

func writeWorkbook(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
