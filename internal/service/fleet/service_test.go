package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

type directoryStub []models.User

func (d directoryStub) MobileUsers() []models.User { return d }

type snapshotStub map[string]*models.InventoryState

func (s snapshotStub) Snapshot() map[string]*models.InventoryState { return s }

func (s snapshotStub) Lookup(userID string) (*models.InventoryState, bool) {
	state, ok := s[userID]
	return state, ok
}

// unitOnlyStub serves single-unit reads and fails the test on a fleet-wide copy.
type unitOnlyStub struct {
	t      *testing.T
	states map[string]*models.InventoryState
}

func (s unitOnlyStub) Lookup(userID string) (*models.InventoryState, bool) {
	state, ok := s.states[userID]
	return state, ok
}

func (s unitOnlyStub) Snapshot() map[string]*models.InventoryState {
	s.t.Helper()
	s.t.Fatal("single-unit read copied the whole fleet")
	return nil
}

var (
	crew1   = models.User{ID: "movil-1", Username: "Movil-1", Role: models.RoleMobile, Kind: models.UnitCrew, UnitNumber: 1, DisplayName: "Móvil 1"}
	driver1 = models.User{ID: "condmovil-1", Username: "CONDMOVIL-1", Role: models.RoleMobile, Kind: models.UnitDriver, UnitNumber: 1, DisplayName: "Conductor 1"}
	driver3 = models.User{ID: "condmovil-3", Username: "CONDMOVIL-3", Role: models.RoleMobile, Kind: models.UnitDriver, UnitNumber: 3}
)

func okOnDay(itemID string, day int) *models.InventoryState {
	return &models.InventoryState{
		Header:        models.InventoryHeader{Plate: "XYZ-101"},
		Checks:        []models.DayCheck{{ItemID: itemID, Day: day, Status: models.StatusOK}},
		TechnicalData: map[string]models.TechnicalInfo{},
		ClimateData:   map[int]models.ClimateReading{},
	}
}

func TestOverviewPairsUnitsAndAppliesDriverPolicy(t *testing.T) {
	states := snapshotStub{
		crew1.ID:   okOnDay("med-adrenalina", 5),
		driver1.ID: okOnDay("doc-soat", 5),
	}
	svc := NewService(directoryStub{crew1, driver1, driver3}, states, 30)

	units := svc.Overview(5)
	require.Len(t, units, 2)

	u1 := units[0]
	assert.Equal(t, 1, u1.Number)
	require.NotNil(t, u1.Crew)
	require.NotNil(t, u1.Driver)
	assert.True(t, u1.Crew.Status.Daily)
	assert.False(t, u1.Crew.Status.Done)
	assert.True(t, u1.Driver.Status.Done)
	assert.Equal(t, "XYZ-101", u1.Crew.Plate)

	u3 := units[1]
	assert.Equal(t, 3, u3.Number)
	assert.Nil(t, u3.Crew)
	require.NotNil(t, u3.Driver)
	assert.Equal(t, "Conductor 3", u3.Driver.Name)
	assert.False(t, u3.Driver.Status.Daily)
}

func TestOverviewClampsDay(t *testing.T) {
	states := snapshotStub{driver1.ID: okOnDay("doc-soat", 31)}
	svc := NewService(directoryStub{driver1}, states, 30)

	units := svc.Overview(40)
	require.Len(t, units, 1)
	assert.True(t, units[0].Driver.Status.Done)
}

func TestUnitDetail(t *testing.T) {
	state := okOnDay("doc-soat", 2)
	state.Checks = append(state.Checks, models.DayCheck{ItemID: "liq-aceite", Day: 2, Status: models.StatusRegular})
	state.Photos = map[int][]string{2: {"a", "b"}}
	svc := NewService(directoryStub{crew1, driver1}, unitOnlyStub{t: t, states: map[string]*models.InventoryState{driver1.ID: state}}, 30)

	d, err := svc.UnitDetail(1, "driver", 2)
	require.NoError(t, err)
	assert.Equal(t, driver1.ID, d.User.ID)
	require.Len(t, d.Rows, len(models.DriverItems))
	assert.Equal(t, 2, d.Photos)

	letters := map[string]string{}
	for _, r := range d.Rows {
		letters[r.Item.ID] = r.Letter
	}
	assert.Equal(t, "B", letters["doc-soat"])
	assert.Equal(t, "R", letters["liq-aceite"])
	assert.Equal(t, "-", letters["seg-extintor"])
}

func TestUnitDetailErrors(t *testing.T) {
	svc := NewService(directoryStub{crew1}, unitOnlyStub{t: t}, 30)

	_, err := svc.UnitDetail(1, models.UnitDriver, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UnitDetail(1, "PILOT", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	d, err := svc.UnitDetail(1, models.UnitCrew, 1)
	require.NoError(t, err)
	assert.Len(t, d.Rows, len(models.CrewItems))
	assert.False(t, d.Status.Daily)
}

func TestDigest(t *testing.T) {
	states := snapshotStub{driver1.ID: okOnDay("doc-soat", 7)}
	svc := NewService(directoryStub{crew1, driver1}, states, 30)

	msg := svc.Digest(7)
	assert.Contains(t, msg, "day 7: 1/2 complete")
	assert.Contains(t, msg, "Pending: Móvil 1")
}
