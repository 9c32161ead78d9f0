package models

import (
	"fmt"
	"strconv"
	"time"
)

// Day bounds for checklist and climate entries.
const (
	MinDay = 1
	MaxDay = 31
)

// ClampDay forces a day number into the 1..31 range.
func ClampDay(day int) int {
	switch {
	case day < MinDay:
		return MinDay
	case day > MaxDay:
		return MaxDay
	default:
		return day
	}
}

// NextDay moves forward one day without leaving the range.
func NextDay(day int) int { return ClampDay(ClampDay(day) + 1) }

// PrevDay moves back one day without leaving the range.
func PrevDay(day int) int { return ClampDay(ClampDay(day) - 1) }

// CheckStatus is the grade recorded for one item on one day.
type CheckStatus string

const (
	StatusNone    CheckStatus = "none"
	StatusOK      CheckStatus = "ok"
	StatusRegular CheckStatus = "regular"
	StatusMissing CheckStatus = "missing"
)

// Valid reports whether the status is one of the known grades.
func (s CheckStatus) Valid() bool {
	switch s {
	case StatusNone, StatusOK, StatusRegular, StatusMissing:
		return true
	}
	return false
}

// Letter returns the B/R/M grade used on driver sheets, "-" otherwise.
func (s CheckStatus) Letter() string {
	switch s {
	case StatusOK:
		return "B"
	case StatusRegular:
		return "R"
	case StatusMissing:
		return "M"
	default:
		return "-"
	}
}

// DayCheck is the single record for an (item, day) pair.
type DayCheck struct {
	ItemID        string      `bson:"item_id" json:"itemId"`
	Day           int         `bson:"day" json:"day"`
	Status        CheckStatus `bson:"status" json:"status"`
	CurrentStock  string      `bson:"current_stock,omitempty" json:"currentStock,omitempty"`
	HistoryNumber string      `bson:"history_number,omitempty" json:"historyNumber,omitempty"`
}

// CurrentStockValue coerces the free-text stock count from its leading number;
// anything else counts as zero.
func (c DayCheck) CurrentStockValue() float64 {
	v, _ := LeadingNumber(c.CurrentStock)
	return v
}

// BatchEntry is one lot of an item with its expiry.
type BatchEntry struct {
	ID         string `bson:"id" json:"id"`
	Lot        string `bson:"lot" json:"lot"`
	ExpiryDate string `bson:"expiry_date" json:"expiryDate"`
	Quantity   string `bson:"quantity,omitempty" json:"quantity,omitempty"`
}

// TechnicalInfo holds traceability metadata for an item on one unit.
type TechnicalInfo struct {
	RegisteredOn         string       `bson:"registered_on" json:"fechaRegistro"`
	Description          string       `bson:"description" json:"descripcion"`
	Brand                string       `bson:"brand" json:"marca"`
	Presentation         string       `bson:"presentation" json:"presentacionComercial"`
	SanitaryRegistration string       `bson:"sanitary_registration" json:"registroInvima"`
	RiskClass            string       `bson:"risk_class" json:"claseRiesgo"`
	ShelfLife            string       `bson:"shelf_life" json:"vidaUtil"`
	ActiveIngredient     string       `bson:"active_ingredient,omitempty" json:"principioActivo,omitempty"`
	PharmaceuticalForm   string       `bson:"pharmaceutical_form,omitempty" json:"formaFarmaceutica,omitempty"`
	Concentration        string       `bson:"concentration,omitempty" json:"concentracion,omitempty"`
	MeasureUnit          string       `bson:"measure_unit,omitempty" json:"unidadMedida,omitempty"`
	Serial               string       `bson:"serial,omitempty" json:"serie,omitempty"`
	Batches              []BatchEntry `bson:"batches" json:"batches"`
}

// ClimateReading is the AM/PM temperature and humidity pair for one day.
type ClimateReading struct {
	TempAM string `bson:"temp_am" json:"tempAM"`
	HumAM  string `bson:"hum_am" json:"humAM"`
	TempPM string `bson:"temp_pm" json:"tempPM"`
	HumPM  string `bson:"hum_pm" json:"humPM"`
}

// HasAny reports whether at least one field was filled in.
func (r ClimateReading) HasAny() bool {
	return r.TempAM != "" || r.HumAM != "" || r.TempPM != "" || r.HumPM != ""
}

// InventoryHeader is free-form vehicle and responsible-person metadata.
type InventoryHeader struct {
	Responsible     string `bson:"responsible" json:"responsable"`
	SDSCode         string `bson:"sds_code" json:"sdsCode"`
	Plate           string `bson:"plate" json:"placa"`
	Month           string `bson:"month" json:"mes"`
	Year            string `bson:"year" json:"ano"`
	InternalCode    string `bson:"internal_code" json:"codigoInterno"`
	Observations    string `bson:"observations" json:"observaciones"`
	Brand           string `bson:"brand,omitempty" json:"marca,omitempty"`
	Line            string `bson:"line,omitempty" json:"linea,omitempty"`
	Model           string `bson:"model,omitempty" json:"modelo,omitempty"`
	Displacement    string `bson:"displacement,omitempty" json:"cilindraje,omitempty"`
	InitialMileage  string `bson:"initial_mileage,omitempty" json:"kilometrajeInicial,omitempty"`
	InsuranceExpiry string `bson:"insurance_expiry,omitempty" json:"vencimientoSoat,omitempty"`
	Insurer         string `bson:"insurer,omitempty" json:"aseguradora,omitempty"`
	InspectionDue   string `bson:"inspection_due,omitempty" json:"vencimientoTecno,omitempty"`
	InspectionCDA   string `bson:"inspection_cda,omitempty" json:"cda,omitempty"`
}

// InventoryState is the per-unit document: the unit of persistence and sync.
type InventoryState struct {
	Header        InventoryHeader          `bson:"header" json:"header"`
	Checks        []DayCheck               `bson:"checks" json:"checks"`
	TechnicalData map[string]TechnicalInfo `bson:"technical_data" json:"technicalData"`
	ClimateData   map[int]ClimateReading   `bson:"climate_data" json:"climateData"`
	Photos        map[int][]string         `bson:"photos,omitempty" json:"liquidPhotos,omitempty"`
	LastSaved     *time.Time               `bson:"last_saved,omitempty" json:"lastSaved,omitempty"`
}

var spanishMonths = [...]string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// MonthName returns the upper-case Spanish month name used in sheet headers.
func MonthName(m time.Month) string {
	return spanishMonths[m-1]
}

// NewInventoryState builds the empty document a unit starts from.
func NewInventoryState(user User, now time.Time) *InventoryState {
	return &InventoryState{
		Header: InventoryHeader{
			Plate: fmt.Sprintf("ABC-%d", user.UnitNumber),
			Month: MonthName(now.Month()),
			Year:  strconv.Itoa(now.Year()),
		},
		Checks:        []DayCheck{},
		TechnicalData: map[string]TechnicalInfo{},
		ClimateData:   map[int]ClimateReading{},
	}
}

// FindCheck returns the check recorded for an item on a day.
func (s *InventoryState) FindCheck(itemID string, day int) (DayCheck, bool) {
	if s == nil {
		return DayCheck{}, false
	}
	for _, c := range s.Checks {
		if c.ItemID == itemID && c.Day == day {
			return c, true
		}
	}
	return DayCheck{}, false
}

// CheckIndex maps (item, day) to the recorded check. Later duplicates win.
func (s *InventoryState) CheckIndex() map[CheckKey]DayCheck {
	idx := make(map[CheckKey]DayCheck)
	if s == nil {
		return idx
	}
	for _, c := range s.Checks {
		idx[CheckKey{ItemID: c.ItemID, Day: c.Day}] = c
	}
	return idx
}

// CheckKey identifies a DayCheck.
type CheckKey struct {
	ItemID string
	Day    int
}

// UpsertCheck replaces the check for (item, day) or appends it.
func (s *InventoryState) UpsertCheck(check DayCheck) {
	for i := range s.Checks {
		if s.Checks[i].ItemID == check.ItemID && s.Checks[i].Day == check.Day {
			s.Checks[i] = check
			return
		}
	}
	s.Checks = append(s.Checks, check)
}

// Clone returns a deep copy so callers can mutate without sharing slices or maps.
func (s *InventoryState) Clone() *InventoryState {
	if s == nil {
		return nil
	}
	out := &InventoryState{Header: s.Header}
	out.Checks = append([]DayCheck{}, s.Checks...)

	out.TechnicalData = make(map[string]TechnicalInfo, len(s.TechnicalData))
	for id, info := range s.TechnicalData {
		info.Batches = append([]BatchEntry{}, info.Batches...)
		out.TechnicalData[id] = info
	}

	out.ClimateData = make(map[int]ClimateReading, len(s.ClimateData))
	for day, reading := range s.ClimateData {
		out.ClimateData[day] = reading
	}

	if s.Photos != nil {
		out.Photos = make(map[int][]string, len(s.Photos))
		for day, photos := range s.Photos {
			out.Photos[day] = append([]string{}, photos...)
		}
	}

	if s.LastSaved != nil {
		saved := *s.LastSaved
		out.LastSaved = &saved
	}
	return out
}

// Normalize fills nil collections left by decoders.
func (s *InventoryState) Normalize() {
	if s.Checks == nil {
		s.Checks = []DayCheck{}
	}
	if s.TechnicalData == nil {
		s.TechnicalData = map[string]TechnicalInfo{}
	}
	if s.ClimateData == nil {
		s.ClimateData = map[int]ClimateReading{}
	}
}
