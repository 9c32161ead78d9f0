package fleet

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/status"
)

// Directory lists the accounts attached to units.
type Directory interface {
	MobileUsers() []models.User
}

// StateSource exposes the latest document of every unit.
type StateSource interface {
	Lookup(userID string) (*models.InventoryState, bool)
	Snapshot() map[string]*models.InventoryState
}

// Side is one account of a unit with its derived status.
type Side struct {
	UserID    string         `json:"userId"`
	Name      string         `json:"name"`
	Plate     string         `json:"plate,omitempty"`
	Status    status.Summary `json:"status"`
	LastSaved *time.Time     `json:"lastSaved,omitempty"`
}

// Unit pairs the crew and driver accounts sharing a unit number.
type Unit struct {
	Number int   `json:"number"`
	Crew   *Side `json:"crew,omitempty"`
	Driver *Side `json:"driver,omitempty"`
}

// DetailRow is one catalog item as recorded on the selected day.
type DetailRow struct {
	Item          models.InventoryItem `json:"item"`
	Status        models.CheckStatus   `json:"status"`
	Letter        string               `json:"letter"`
	CurrentStock  string               `json:"currentStock,omitempty"`
	HistoryNumber string               `json:"historyNumber,omitempty"`
}

// Detail is the audit view of one side of a unit.
type Detail struct {
	Unit    int                    `json:"unit"`
	Kind    models.UnitKind        `json:"kind"`
	User    models.User            `json:"user"`
	Day     int                    `json:"day"`
	Header  models.InventoryHeader `json:"header"`
	Status  status.Summary         `json:"status"`
	Rows    []DetailRow            `json:"rows"`
	Climate models.ClimateReading  `json:"climate"`
	Photos  int                    `json:"photos"`
}

// Service builds the admin fleet views.
type Service struct {
	users     Directory
	states    StateSource
	fleetSize int
}

// NewService wires the fleet view over units 1..fleetSize.
func NewService(users Directory, states StateSource, fleetSize int) *Service {
	return &Service{users: users, states: states, fleetSize: fleetSize}
}

// Overview returns every unit that has at least one account, with both sides' status for day.
func (s *Service) Overview(day int) []Unit {
	day = models.ClampDay(day)
	snapshot := s.states.Snapshot()
	crew, drivers := s.index()

	units := make([]Unit, 0, s.fleetSize)
	for n := 1; n <= s.fleetSize; n++ {
		c, hasCrew := crew[n]
		d, hasDriver := drivers[n]
		if !hasCrew && !hasDriver {
			continue
		}
		u := Unit{Number: n}
		if hasCrew {
			u.Crew = side(c, snapshot[c.ID], day, fmt.Sprintf("Móvil %d", n))
		}
		if hasDriver {
			u.Driver = side(d, snapshot[d.ID], day, fmt.Sprintf("Conductor %d", n))
		}
		units = append(units, u)
	}
	return units
}

// UnitDetail lists the catalog of one side of a unit with the checks recorded on day.
func (s *Service) UnitDetail(unit int, kind models.UnitKind, day int) (Detail, error) {
	day = models.ClampDay(day)
	crew, drivers := s.index()

	var (
		user models.User
		ok   bool
	)
	switch models.UnitKind(strings.ToUpper(string(kind))) {
	case models.UnitCrew:
		user, ok = crew[unit]
	case models.UnitDriver:
		user, ok = drivers[unit]
	default:
		return Detail{}, domain.NewValidationError("kind", "must be CREW or DRIVER")
	}
	if !ok {
		return Detail{}, fmt.Errorf("unit %d %s: %w", unit, kind, domain.ErrNotFound)
	}

	state, _ := s.states.Lookup(user.ID)
	detail := Detail{
		Unit:   unit,
		Kind:   user.Kind,
		User:   user,
		Day:    day,
		Status: status.Compute(user, state, day),
	}

	index := state.CheckIndex()
	for _, item := range models.ItemsFor(user.Kind) {
		row := DetailRow{Item: item, Status: models.StatusNone, Letter: models.StatusNone.Letter()}
		if c, found := index[models.CheckKey{ItemID: item.ID, Day: day}]; found {
			row.Status = c.Status
			row.Letter = c.Status.Letter()
			row.CurrentStock = c.CurrentStock
			row.HistoryNumber = c.HistoryNumber
		}
		detail.Rows = append(detail.Rows, row)
	}

	if state != nil {
		detail.Header = state.Header
		detail.Climate = state.ClimateData[day]
		detail.Photos = len(state.Photos[day])
	}
	return detail, nil
}

// Tally counts the accounts that completed day and the ones still pending.
func (s *Service) Tally(day int) (done, total int, pending []string) {
	for _, u := range s.Overview(day) {
		for _, sd := range []*Side{u.Crew, u.Driver} {
			if sd == nil {
				continue
			}
			total++
			if sd.Status.Done {
				done++
			} else {
				pending = append(pending, sd.Name)
			}
		}
	}
	return done, total, pending
}

// Digest is a short plain-text completion summary for day.
func (s *Service) Digest(day int) string {
	day = models.ClampDay(day)
	done, total, pending := s.Tally(day)

	var b strings.Builder
	fmt.Fprintf(&b, "Fleet checklist, day %d: %d/%d complete.", day, done, total)
	if len(pending) > 0 {
		fmt.Fprintf(&b, "\nPending: %s", strings.Join(pending, ", "))
	}
	return b.String()
}

func (s *Service) index() (crew, drivers map[int]models.User) {
	crew = map[int]models.User{}
	drivers = map[int]models.User{}
	for _, u := range s.users.MobileUsers() {
		switch u.Kind {
		case models.UnitCrew:
			crew[u.UnitNumber] = u
		case models.UnitDriver:
			drivers[u.UnitNumber] = u
		}
	}
	return crew, drivers
}

func side(user models.User, state *models.InventoryState, day int, fallbackName string) *Side {
	name := user.DisplayName
	if name == "" {
		name = fallbackName
	}
	sd := &Side{UserID: user.ID, Name: name, Status: status.Compute(user, state, day)}
	if state != nil {
		sd.Plate = state.Header.Plate
		sd.LastSaved = state.LastSaved
	}
	return sd
}
