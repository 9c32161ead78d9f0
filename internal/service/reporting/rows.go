package reporting

import (
	"fmt"
	"strconv"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

const placeholder = "-"

// Row is one (unit, item) line of the consolidated export.
type Row struct {
	Unit     string
	Plate    string
	Category string
	Item     string
	Required int
	Days     [models.MaxDay]string
}

// Headers returns the column titles of the consolidated export.
func Headers() []string {
	h := []string{"Móvil", "Placa", "Categoría", "Insumo", "Req"}
	for d := models.MinDay; d <= models.MaxDay; d++ {
		h = append(h, fmt.Sprintf("D%d", d))
	}
	return h
}

// Values flattens the row in header order.
func (r Row) Values() []interface{} {
	out := make([]interface{}, 0, 5+models.MaxDay)
	out = append(out, r.Unit, r.Plate, r.Category, r.Item, r.Required)
	for _, v := range r.Days {
		out = append(out, cellValue(v))
	}
	return out
}

// BuildRows projects every unit document into one row per catalog item.
// Units without a stored document are skipped.
func BuildRows(units []models.User, states map[string]*models.InventoryState) []Row {
	var rows []Row
	for _, u := range units {
		if !u.IsMobile() {
			continue
		}
		state, ok := states[u.ID]
		if !ok || state == nil {
			continue
		}
		index := state.CheckIndex()
		for _, item := range models.ItemsFor(u.Kind) {
			row := Row{
				Unit:     u.DisplayName,
				Plate:    state.Header.Plate,
				Category: item.Category,
				Item:     item.Name,
				Required: item.RequiredStock,
			}
			for d := models.MinDay; d <= models.MaxDay; d++ {
				check, found := index[models.CheckKey{ItemID: item.ID, Day: d}]
				row.Days[d-1] = encodeDay(u, item, check, found)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// encodeDay renders one day cell. Drivers get a B/R/M grade. Crew get the
// required stock when ok and the counted stock when missing.
func encodeDay(u models.User, item models.InventoryItem, check models.DayCheck, found bool) string {
	if !found {
		return placeholder
	}
	if u.IsDriver() {
		return check.Status.Letter()
	}
	switch check.Status {
	case models.StatusOK:
		return strconv.Itoa(item.RequiredStock)
	case models.StatusMissing:
		if check.CurrentStock == "" {
			return "0"
		}
		return check.CurrentStock
	default:
		return placeholder
	}
}

// cellValue writes numbers as numbers so spreadsheets can sum them.
func cellValue(v string) interface{} {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, ok := models.ParseNumber(v); ok {
		return f
	}
	return v
}
