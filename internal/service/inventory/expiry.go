package inventory

import (
	"math"
	"time"

	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// Severity orders expiry states; higher is worse.
type Severity int

const (
	SeverityNone Severity = iota - 1
	SeveritySafe
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Expiry thresholds in days.
const (
	criticalWindowDays = 90
	alertWindowDays    = 180
)

// LifeStatus describes how close a batch is to its expiry date.
type LifeStatus struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
	Days     int      `json:"days"`
}

// ItemExpiry is the worst batch status of one catalog item.
type ItemExpiry struct {
	Item    models.InventoryItem `json:"item"`
	Status  LifeStatus           `json:"status"`
	Batches int                  `json:"batches"`
}

// LifeStatusOf classifies an expiry date (YYYY-MM-DD) relative to today.
func LifeStatusOf(expiry string, today time.Time) LifeStatus {
	if expiry == "" {
		return LifeStatus{Label: "PENDIENTE", Severity: SeverityNone}
	}
	exp, err := time.Parse(dateLayout, expiry)
	if err != nil {
		return LifeStatus{Label: "PENDIENTE", Severity: SeverityNone}
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	days := int(math.Ceil(exp.Sub(start).Hours() / 24))

	switch {
	case days <= 0:
		return LifeStatus{Label: "VENCIDO", Severity: SeverityCritical, Days: days}
	case days <= criticalWindowDays:
		return LifeStatus{Label: "CRÍTICO", Severity: SeverityHigh, Days: days}
	case days <= alertWindowDays:
		return LifeStatus{Label: "ALERTA", Severity: SeverityMedium, Days: days}
	default:
		return LifeStatus{Label: "VIGENTE", Severity: SeveritySafe, Days: days}
	}
}

// WorstLifeStatus picks the most severe status among batches.
func WorstLifeStatus(batches []models.BatchEntry, today time.Time) LifeStatus {
	worst := LifeStatus{Label: "SIN DATOS", Severity: SeverityNone}
	for _, b := range batches {
		s := LifeStatusOf(b.ExpiryDate, today)
		if s.Severity > worst.Severity {
			worst = s
		}
	}
	return worst
}

// ExpiryReport lists every catalog item of the unit with its worst batch status.
func (s *Service) ExpiryReport(user models.User) []ItemExpiry {
	state := s.State(user)
	today := s.now()

	catalog := models.ItemsFor(user.Kind)
	out := make([]ItemExpiry, 0, len(catalog))
	for _, item := range catalog {
		info := state.TechnicalData[item.ID]
		out = append(out, ItemExpiry{
			Item:    item,
			Status:  WorstLifeStatus(info.Batches, today),
			Batches: len(info.Batches),
		})
	}
	return out
}
