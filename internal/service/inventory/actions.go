package inventory

import (
	"fmt"
	"time"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

// MaxPhotosPerDay caps photo evidence for a single day.
const MaxPhotosPerDay = 4

// Action is one typed mutation of a unit's InventoryState.
type Action interface {
	apply(state *models.InventoryState, env actionEnv) error
}

type actionEnv struct {
	user    models.User
	catalog []models.InventoryItem
	now     time.Time
	newID   func() string
}

func (e actionEnv) requireItem(itemID string) error {
	if _, ok := models.FindItem(e.catalog, itemID); !ok {
		return domain.NewValidationError("itemId", fmt.Sprintf("unknown item %q", itemID))
	}
	return nil
}

// ToggleCheck is the crew gesture: pressing the same grade twice clears it.
type ToggleCheck struct {
	ItemID string
	Day    int
	Status models.CheckStatus
}

func (a ToggleCheck) apply(state *models.InventoryState, env actionEnv) error {
	if err := env.requireItem(a.ItemID); err != nil {
		return err
	}
	if a.Status != models.StatusOK && a.Status != models.StatusMissing {
		return domain.NewValidationError("status", "toggle accepts ok or missing")
	}
	day := models.ClampDay(a.Day)

	check, ok := state.FindCheck(a.ItemID, day)
	if !ok {
		check = models.DayCheck{ItemID: a.ItemID, Day: day, Status: a.Status}
	} else if check.Status == a.Status {
		check.Status = models.StatusNone
	} else {
		check.Status = a.Status
	}
	state.UpsertCheck(check)
	return nil
}

// SetCheckStatus is the driver gesture: the grade is set as given.
type SetCheckStatus struct {
	ItemID string
	Day    int
	Status models.CheckStatus
}

func (a SetCheckStatus) apply(state *models.InventoryState, env actionEnv) error {
	if err := env.requireItem(a.ItemID); err != nil {
		return err
	}
	if !a.Status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown status %q", a.Status))
	}
	day := models.ClampDay(a.Day)

	check, ok := state.FindCheck(a.ItemID, day)
	if !ok {
		check = models.DayCheck{ItemID: a.ItemID, Day: day}
	}
	check.Status = a.Status
	state.UpsertCheck(check)
	return nil
}

// UpdateCheckDetail edits stock count or reference number of an existing check.
// Nil fields are left untouched.
type UpdateCheckDetail struct {
	ItemID        string
	Day           int
	CurrentStock  *string
	HistoryNumber *string
}

func (a UpdateCheckDetail) apply(state *models.InventoryState, _ actionEnv) error {
	day := models.ClampDay(a.Day)
	check, ok := state.FindCheck(a.ItemID, day)
	if !ok {
		return fmt.Errorf("check %s/day %d: %w", a.ItemID, day, domain.ErrNotFound)
	}
	if a.CurrentStock != nil {
		check.CurrentStock = *a.CurrentStock
	}
	if a.HistoryNumber != nil {
		check.HistoryNumber = *a.HistoryNumber
	}
	state.UpsertCheck(check)
	return nil
}

// UpdateHeader sets one header field, addressed by its JSON name.
type UpdateHeader struct {
	Field string
	Value string
}

func (a UpdateHeader) apply(state *models.InventoryState, _ actionEnv) error {
	h := &state.Header
	fields := map[string]*string{
		"responsable":        &h.Responsible,
		"sdsCode":            &h.SDSCode,
		"placa":              &h.Plate,
		"mes":                &h.Month,
		"ano":                &h.Year,
		"codigoInterno":      &h.InternalCode,
		"observaciones":      &h.Observations,
		"marca":              &h.Brand,
		"linea":              &h.Line,
		"modelo":             &h.Model,
		"cilindraje":         &h.Displacement,
		"kilometrajeInicial": &h.InitialMileage,
		"vencimientoSoat":    &h.InsuranceExpiry,
		"aseguradora":        &h.Insurer,
		"vencimientoTecno":   &h.InspectionDue,
		"cda":                &h.InspectionCDA,
	}
	target, ok := fields[a.Field]
	if !ok {
		return domain.NewValidationError("field", fmt.Sprintf("unknown header field %q", a.Field))
	}
	*target = a.Value
	return nil
}

// UpdateTechnical sets one technical field, creating the record on first edit.
type UpdateTechnical struct {
	ItemID string
	Field  string
	Value  string
}

func (a UpdateTechnical) apply(state *models.InventoryState, env actionEnv) error {
	if err := env.requireItem(a.ItemID); err != nil {
		return err
	}
	info := technicalFor(state, a.ItemID, env.now)
	fields := map[string]*string{
		"fechaRegistro":         &info.RegisteredOn,
		"descripcion":           &info.Description,
		"marca":                 &info.Brand,
		"presentacionComercial": &info.Presentation,
		"registroInvima":        &info.SanitaryRegistration,
		"claseRiesgo":           &info.RiskClass,
		"vidaUtil":              &info.ShelfLife,
		"principioActivo":       &info.ActiveIngredient,
		"formaFarmaceutica":     &info.PharmaceuticalForm,
		"concentracion":         &info.Concentration,
		"unidadMedida":          &info.MeasureUnit,
		"serie":                 &info.Serial,
	}
	target, ok := fields[a.Field]
	if !ok {
		return domain.NewValidationError("field", fmt.Sprintf("unknown technical field %q", a.Field))
	}
	*target = a.Value
	state.TechnicalData[a.ItemID] = info
	return nil
}

// AddBatch appends an empty lot to an item.
type AddBatch struct {
	ItemID string
}

func (a AddBatch) apply(state *models.InventoryState, env actionEnv) error {
	if err := env.requireItem(a.ItemID); err != nil {
		return err
	}
	info := technicalFor(state, a.ItemID, env.now)
	info.Batches = append(info.Batches, models.BatchEntry{ID: env.newID()})
	state.TechnicalData[a.ItemID] = info
	return nil
}

// UpdateBatch sets lot, expiryDate or quantity of a batch.
type UpdateBatch struct {
	ItemID  string
	BatchID string
	Field   string
	Value   string
}

func (a UpdateBatch) apply(state *models.InventoryState, _ actionEnv) error {
	info, ok := state.TechnicalData[a.ItemID]
	if !ok {
		return fmt.Errorf("technical data %s: %w", a.ItemID, domain.ErrNotFound)
	}
	for i := range info.Batches {
		if info.Batches[i].ID != a.BatchID {
			continue
		}
		switch a.Field {
		case "lot":
			info.Batches[i].Lot = a.Value
		case "expiryDate":
			if a.Value != "" {
				if _, err := time.Parse(dateLayout, a.Value); err != nil {
					return domain.NewValidationError("value", "expiry date must be YYYY-MM-DD")
				}
			}
			info.Batches[i].ExpiryDate = a.Value
		case "quantity":
			info.Batches[i].Quantity = a.Value
		default:
			return domain.NewValidationError("field", fmt.Sprintf("unknown batch field %q", a.Field))
		}
		state.TechnicalData[a.ItemID] = info
		return nil
	}
	return fmt.Errorf("batch %s: %w", a.BatchID, domain.ErrNotFound)
}

// RemoveBatch drops a used lot.
type RemoveBatch struct {
	ItemID  string
	BatchID string
}

func (a RemoveBatch) apply(state *models.InventoryState, _ actionEnv) error {
	info, ok := state.TechnicalData[a.ItemID]
	if !ok {
		return fmt.Errorf("technical data %s: %w", a.ItemID, domain.ErrNotFound)
	}
	kept := info.Batches[:0]
	for _, b := range info.Batches {
		if b.ID != a.BatchID {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(info.Batches) {
		return fmt.Errorf("batch %s: %w", a.BatchID, domain.ErrNotFound)
	}
	info.Batches = kept
	state.TechnicalData[a.ItemID] = info
	return nil
}

// SetClimate records one of the four climate fields for a day.
type SetClimate struct {
	Day   int
	Field string
	Value string
}

func (a SetClimate) apply(state *models.InventoryState, _ actionEnv) error {
	day := models.ClampDay(a.Day)
	reading := state.ClimateData[day]
	switch a.Field {
	case "tempAM":
		reading.TempAM = a.Value
	case "humAM":
		reading.HumAM = a.Value
	case "tempPM":
		reading.TempPM = a.Value
	case "humPM":
		reading.HumPM = a.Value
	default:
		return domain.NewValidationError("field", fmt.Sprintf("unknown climate field %q", a.Field))
	}
	state.ClimateData[day] = reading
	return nil
}

// AddPhoto attaches a data-URL photo to a day.
type AddPhoto struct {
	Day  int
	Data string
}

func (a AddPhoto) apply(state *models.InventoryState, _ actionEnv) error {
	if a.Data == "" {
		return domain.NewValidationError("data", "photo is empty")
	}
	day := models.ClampDay(a.Day)
	if state.Photos == nil {
		state.Photos = map[int][]string{}
	}
	if len(state.Photos[day]) >= MaxPhotosPerDay {
		return domain.NewValidationError("photos", fmt.Sprintf("at most %d photos per day", MaxPhotosPerDay))
	}
	state.Photos[day] = append(state.Photos[day], a.Data)
	return nil
}

// RemovePhoto deletes the photo at Index for a day.
type RemovePhoto struct {
	Day   int
	Index int
}

func (a RemovePhoto) apply(state *models.InventoryState, _ actionEnv) error {
	day := models.ClampDay(a.Day)
	photos := state.Photos[day]
	if a.Index < 0 || a.Index >= len(photos) {
		return fmt.Errorf("photo %d of day %d: %w", a.Index, day, domain.ErrNotFound)
	}
	state.Photos[day] = append(photos[:a.Index:a.Index], photos[a.Index+1:]...)
	return nil
}

func technicalFor(state *models.InventoryState, itemID string, now time.Time) models.TechnicalInfo {
	if info, ok := state.TechnicalData[itemID]; ok {
		return info
	}
	return models.TechnicalInfo{
		RegisteredOn: now.Format(dateLayout),
		Batches:      []models.BatchEntry{},
	}
}
