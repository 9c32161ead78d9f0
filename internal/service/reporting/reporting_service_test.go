package reporting

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
)

var (
	crew   = models.User{ID: "movil-1", Role: models.RoleMobile, Kind: models.UnitCrew, UnitNumber: 1, DisplayName: "Móvil 1"}
	driver = models.User{ID: "condmovil-1", Role: models.RoleMobile, Kind: models.UnitDriver, UnitNumber: 1, DisplayName: "Conductor 1"}
	admin  = models.User{ID: "admin", Role: models.RoleAdmin}
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

type sheetMock struct {
	replaceFunc func(ctx context.Context, rng string, values [][]interface{}) error
	ranges      []string
	values      [][]interface{}
	appended    [][]interface{}
}

func (m *sheetMock) WriteRow(_ context.Context, rng string, values []interface{}) error {
	m.ranges = append(m.ranges, rng)
	m.appended = append(m.appended, values)
	return nil
}

func (m *sheetMock) ReplaceRange(ctx context.Context, rng string, values [][]interface{}) error {
	m.ranges = append(m.ranges, rng)
	m.values = values
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, rng, values)
	}
	return nil
}

type fetcherMock struct {
	fetchFunc func(ctx context.Context, name string) ([]byte, error)
}

func (m *fetcherMock) FetchTemplate(ctx context.Context, name string) ([]byte, error) {
	return m.fetchFunc(ctx, name)
}

func crewState(checks ...models.DayCheck) *models.InventoryState {
	return &models.InventoryState{
		Header:        models.InventoryHeader{Plate: "OSP-321", Responsible: "Ana", Month: "MAYO", Year: "2026", SDSCode: "SDS-9"},
		Checks:        checks,
		TechnicalData: map[string]models.TechnicalInfo{},
		ClimateData:   map[int]models.ClimateReading{},
	}
}

func rowFor(t *testing.T, rows []Row, unit, item string) Row {
	t.Helper()
	for _, r := range rows {
		if r.Unit == unit && r.Item == item {
			return r
		}
	}
	t.Fatalf("row %s/%s not found", unit, item)
	return Row{}
}

func TestBuildRowsCrewEncodingIsOrderIndependent(t *testing.T) {
	checks := []models.DayCheck{
		{ItemID: "med-adrenalina", Day: 4, Status: models.StatusOK},
		{ItemID: "ins-gasas", Day: 4, Status: models.StatusMissing, CurrentStock: "7"},
	}
	reversed := []models.DayCheck{checks[1], checks[0]}

	for _, order := range [][]models.DayCheck{checks, reversed} {
		rows := BuildRows([]models.User{crew}, map[string]*models.InventoryState{crew.ID: crewState(order...)})
		require.Len(t, rows, len(models.CrewItems))

		adr := rowFor(t, rows, "Móvil 1", "Adrenalina 1 mg/ml")
		assert.Equal(t, "10", adr.Days[3])
		assert.Equal(t, "-", adr.Days[4])
		assert.Equal(t, "OSP-321", adr.Plate)
		assert.Equal(t, 10, adr.Required)

		gasas := rowFor(t, rows, "Móvil 1", "Gasas estériles")
		assert.Equal(t, "7", gasas.Days[3])
	}
}

func TestBuildRowsCrewPlaceholders(t *testing.T) {
	state := crewState(
		models.DayCheck{ItemID: "ins-guantes", Day: 1, Status: models.StatusMissing},
		models.DayCheck{ItemID: "ins-guantes", Day: 2, Status: models.StatusNone},
		models.DayCheck{ItemID: "ins-guantes", Day: 3, Status: models.StatusRegular},
	)
	rows := BuildRows([]models.User{crew}, map[string]*models.InventoryState{crew.ID: state})

	r := rowFor(t, rows, "Móvil 1", "Guantes de examen (par)")
	assert.Equal(t, []string{"0", "-", "-", "-"}, r.Days[:4])
}

func TestBuildRowsDriverGrades(t *testing.T) {
	state := crewState(
		models.DayCheck{ItemID: "seg-extintor", Day: 1, Status: models.StatusOK},
		models.DayCheck{ItemID: "seg-extintor", Day: 2, Status: models.StatusRegular},
		models.DayCheck{ItemID: "seg-extintor", Day: 3, Status: models.StatusMissing},
		models.DayCheck{ItemID: "seg-extintor", Day: 4, Status: models.StatusNone},
	)
	rows := BuildRows([]models.User{driver, admin}, map[string]*models.InventoryState{driver.ID: state})
	require.Len(t, rows, len(models.DriverItems))

	r := rowFor(t, rows, "Conductor 1", "Extintor")
	assert.Equal(t, []string{"B", "R", "M", "-", "-"}, r.Days[:5])
}

func TestBuildRowsSkipsUnitsWithoutDocument(t *testing.T) {
	rows := BuildRows([]models.User{crew, driver}, map[string]*models.InventoryState{driver.ID: crewState()})
	assert.Len(t, rows, len(models.DriverItems))
}

func TestConsolidatedWorkbook(t *testing.T) {
	rows := BuildRows([]models.User{crew}, map[string]*models.InventoryState{
		crew.ID: crewState(models.DayCheck{ItemID: "med-adrenalina", Day: 1, Status: models.StatusOK}),
	})

	data, err := ConsolidatedWorkbook(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ConsolidatedSheet}, f.GetSheetList())
	got, err := f.GetRows(ConsolidatedSheet)
	require.NoError(t, err)
	require.Len(t, got, len(rows)+1)
	assert.Equal(t, "D31", got[0][35])
	assert.Equal(t, "Móvil 1", got[1][0])
	assert.Equal(t, "10", got[1][5])
}

func TestConsolidatedFileName(t *testing.T) {
	assert.Equal(t, "REPORTE_VOM_7_3.xlsx", ConsolidatedFileName(7, time.March))
	assert.Equal(t, "REPORTE_VOM_31_12.xlsx", ConsolidatedFileName(99, time.December))
}

func TestUnitControlSheetAddsPhotoRowForDrivers(t *testing.T) {
	state := crewState(models.DayCheck{ItemID: "doc-soat", Day: 2, Status: models.StatusOK})
	state.Photos = map[int][]string{2: {"a", "b", "c"}}

	grid := UnitControlSheet(driver, state)
	require.Len(t, grid, 1+len(models.DriverItems)+1)
	assert.Equal(t, "D1", grid[0][3])

	last := grid[len(grid)-1]
	assert.Equal(t, "Fotos", last[1])
	assert.Equal(t, "3", last[4])
	assert.Equal(t, "0", last[3])

	crewGrid := UnitControlSheet(crew, nil)
	assert.Len(t, crewGrid, 1+len(models.CrewItems))
}

func TestUnitControlWorkbook(t *testing.T) {
	data, err := UnitControlWorkbook(crew, crewState())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Control", "B2")
	require.NoError(t, err)
	assert.Equal(t, "OSP-321", v)
}

func templateBlob(t *testing.T, sheet string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestFillTemplate(t *testing.T) {
	fetcher := &fetcherMock{fetchFunc: func(_ context.Context, name string) ([]byte, error) {
		assert.Equal(t, "control_mensual.xlsx", name)
		return templateBlob(t, "CONTROL"), nil
	}}
	state := crewState(models.DayCheck{ItemID: "med-adrenalina", Day: 6, Status: models.StatusMissing, CurrentStock: "3"})

	data, err := FillTemplate(context.Background(), fetcher, TemplateConfig{Name: "control_mensual.xlsx", Sheet: "CONTROL"}, crew, state, 6)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	cells := map[string]string{"C3": "Móvil 1", "C4": "OSP-321", "C5": "Ana", "H3": "MAYO", "H5": "SDS-9", sampleCell: "3"}
	for cell, want := range cells {
		got, err := f.GetCellValue("CONTROL", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestFillTemplateErrors(t *testing.T) {
	ctx := context.Background()
	cfg := TemplateConfig{Name: "t.xlsx", Sheet: "CONTROL"}

	wrongSheet := &fetcherMock{fetchFunc: func(context.Context, string) ([]byte, error) { return templateBlob(t, "OTRA"), nil }}
	_, err := FillTemplate(ctx, wrongSheet, cfg, crew, crewState(), 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	notXlsx := &fetcherMock{fetchFunc: func(context.Context, string) ([]byte, error) { return []byte("not a zip"), nil }}
	_, err = FillTemplate(ctx, notXlsx, cfg, crew, crewState(), 1)
	assert.Error(t, err)

	boom := errors.New("404")
	failing := &fetcherMock{fetchFunc: func(context.Context, string) ([]byte, error) { return nil, boom }}
	_, err = FillTemplate(ctx, failing, cfg, crew, crewState(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestServicePublishConsolidated(t *testing.T) {
	sheets := &sheetMock{}
	states := snapshotStub{crew.ID: crewState()}
	svc := NewService(directoryStub{crew, driver}, states, sheets, nil, TemplateConfig{}, nil)

	n, err := svc.PublishConsolidated(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(models.CrewItems), n)
	assert.Equal(t, []string{"VOM_Consolidado!A1"}, sheets.ranges)
	require.Len(t, sheets.values, n+1)
	assert.Equal(t, "Móvil", sheets.values[0][0])

	sheets.replaceFunc = func(context.Context, string, [][]interface{}) error { return errors.New("quota") }
	_, err = svc.PublishConsolidated(context.Background())
	assert.Error(t, err)

	_, err = NewService(directoryStub{}, states, nil, nil, TemplateConfig{}, nil).PublishConsolidated(context.Background())
	assert.ErrorIs(t, err, ErrPublishDisabled)
}

func TestServiceRecordCompliance(t *testing.T) {
	sheets := &sheetMock{}
	svc := NewService(directoryStub{}, snapshotStub{}, sheets, nil, TemplateConfig{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 9, 21, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.RecordCompliance(context.Background(), 9, 3, 4))
	assert.Equal(t, []string{"Cumplimiento!A:E"}, sheets.ranges)
	assert.Equal(t, []interface{}{"2026-05-09", 9, 3, 4, "75.0%"}, sheets.appended[0])
}

func TestServiceTemplateDisabled(t *testing.T) {
	svc := NewService(directoryStub{}, snapshotStub{}, nil, nil, TemplateConfig{Name: "x.xlsx", Sheet: "S"}, nil)

	_, err := svc.Template(context.Background(), crew, 1)
	assert.ErrorIs(t, err, ErrTemplateDisabled)
}

func TestServiceUnitControlReadsOneUnit(t *testing.T) {
	states := unitOnlyStub{t: t, states: map[string]*models.InventoryState{
		crew.ID: crewState(models.DayCheck{ItemID: "med-adrenalina", Day: 1, Status: models.StatusOK}),
	}}
	svc := NewService(directoryStub{crew}, states, nil, nil, TemplateConfig{}, nil)

	data, err := svc.UnitControl(crew)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	data, err = svc.UnitControl(driver)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 7, cellValue("7"))
	assert.Equal(t, 2.5, cellValue("2.5"))
	assert.Equal(t, "-", cellValue("-"))
	for _, v := range []string{"NaN", "Inf", "-Inf", "0x10", "1e999"} {
		assert.Equal(t, v, cellValue(v), v)
	}
}

func TestServicePublishKeepsNonFiniteStockAsText(t *testing.T) {
	sheets := &sheetMock{}
	states := snapshotStub{crew.ID: crewState(models.DayCheck{ItemID: "ins-gasas", Day: 1, Status: models.StatusMissing, CurrentStock: "NaN"})}
	svc := NewService(directoryStub{crew}, states, sheets, nil, TemplateConfig{}, nil)

	_, err := svc.PublishConsolidated(context.Background())
	require.NoError(t, err)

	found := false
	for _, row := range sheets.values[1:] {
		if row[3] == "Gasas estériles" {
			assert.Equal(t, "NaN", row[5])
			found = true
		}
	}
	assert.True(t, found)
}

func TestServiceConsolidatedName(t *testing.T) {
	svc := NewService(directoryStub{crew}, snapshotStub{}, nil, nil, TemplateConfig{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }

	name, data, err := svc.Consolidated(0)
	require.NoError(t, err)
	assert.Equal(t, "REPORTE_VOM_1_8.xlsx", name)
	assert.NotEmpty(t, data)
}
