package climate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/pkg/clients/backend"
)

// Shift selects the morning or afternoon reading.
type Shift string

const (
	ShiftAM Shift = "AM"
	ShiftPM Shift = "PM"
)

// ErrPushDisabled is returned when no central server is configured.
var ErrPushDisabled = errors.New("central server is not configured")

// Pusher sends one reading to the central server.
type Pusher interface {
	SaveTemperature(ctx context.Context, reading backend.TemperatureReading) error
}

// StateSource returns a unit's current document.
type StateSource interface {
	State(user models.User) *models.InventoryState
}

// Point is the daily average plotted on the monthly trend. Nil means no usable value.
type Point struct {
	Day         int      `json:"day"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// Service pushes climate readings and derives the monthly trend.
type Service struct {
	states StateSource
	pusher Pusher
	logger *zap.Logger
}

// NewService wires the climate service. pusher may be nil.
func NewService(states StateSource, pusher Pusher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{states: states, pusher: pusher, logger: logger}
}

// Push sends the unit's reading for one shift of day to the central server.
func (s *Service) Push(ctx context.Context, user models.User, day int, shift Shift) error {
	if !user.IsMobile() {
		return domain.ErrForbidden
	}
	day = models.ClampDay(day)

	var code string
	switch Shift(strings.ToUpper(string(shift))) {
	case ShiftAM:
		shift, code = ShiftAM, "M"
	case ShiftPM:
		shift, code = ShiftPM, "T"
	default:
		return domain.NewValidationError("shift", "must be AM or PM")
	}

	state := s.states.State(user)
	if state == nil {
		state = &models.InventoryState{}
	}
	reading, ok := state.ClimateData[day]
	if !ok {
		return domain.NewValidationError("day", fmt.Sprintf("no climate data recorded for day %d", day))
	}

	tempRaw, humRaw := reading.TempAM, reading.HumAM
	if shift == ShiftPM {
		tempRaw, humRaw = reading.TempPM, reading.HumPM
	}
	if tempRaw == "" || humRaw == "" {
		return domain.NewValidationError("reading", fmt.Sprintf("%s temperature and humidity are both required", shift))
	}

	temp, okT := models.ParseNumber(tempRaw)
	hum, okH := models.ParseNumber(humRaw)
	if !okT || !okH {
		return domain.NewValidationError("reading", "values must be finite numbers")
	}

	if strings.TrimSpace(state.Header.Responsible) == "" {
		return domain.NewValidationError("responsable", "the responsible person is required")
	}

	if s.pusher == nil {
		return ErrPushDisabled
	}

	err := s.pusher.SaveTemperature(ctx, backend.TemperatureReading{
		MobileID:    user.ID,
		Shift:       code,
		Temperature: temp,
		Humidity:    hum,
		Responsible: state.Header.Responsible,
	})
	if err != nil {
		s.logger.Warn("climate push failed", zap.String("user_id", user.ID), zap.Int("day", day), zap.Error(err))
		return fmt.Errorf("push %s reading: %w", shift, err)
	}

	s.logger.Info("climate reading pushed", zap.String("user_id", user.ID), zap.Int("day", day), zap.String("shift", string(shift)))
	return nil
}

// MonthlyTrend returns one point per day 1..31 averaging AM and PM values.
// When only one shift parses as a finite number, that value is used as is.
func MonthlyTrend(state *models.InventoryState) []Point {
	points := make([]Point, 0, models.MaxDay)
	for day := models.MinDay; day <= models.MaxDay; day++ {
		p := Point{Day: day}
		if state != nil {
			if r, ok := state.ClimateData[day]; ok {
				p.Temperature = average(r.TempAM, r.TempPM)
				p.Humidity = average(r.HumAM, r.HumPM)
			}
		}
		points = append(points, p)
	}
	return points
}

// Trend is the monthly trend of the unit's own document.
func (s *Service) Trend(user models.User) []Point {
	return MonthlyTrend(s.states.State(user))
}

func average(am, pm string) *float64 {
	a, okA := models.ParseNumber(am)
	p, okP := models.ParseNumber(pm)
	var v float64
	switch {
	case okA && okP:
		v = (a + p) / 2
	case okA:
		v = a
	case okP:
		v = p
	default:
		return nil
	}
	return &v
}
