package status

import "github.com/mamadbah2/fleetcheck/internal/domain/models"

// Summary is the derived completion state of one unit on one day.
type Summary struct {
	Done     bool `json:"done"`
	Daily    bool `json:"daily"`
	Tech     bool `json:"tech"`
	Climate  bool `json:"climate"`
	HasPhoto bool `json:"hasPhoto"`
}

// Compute derives the completion flags for a unit and day.
//
// Driver units are done once any check exists for the day. Crew units also need
// technical data and a climate reading for that day. A nil state yields all false.
func Compute(user models.User, state *models.InventoryState, day int) Summary {
	if state == nil {
		return Summary{}
	}

	var s Summary
	for _, c := range state.Checks {
		if c.Day == day && c.Status != models.StatusNone && c.Status != "" {
			s.Daily = true
			break
		}
	}

	s.Tech = len(state.TechnicalData) > 0

	if reading, ok := state.ClimateData[day]; ok {
		s.Climate = reading.HasAny()
	}

	s.HasPhoto = len(state.Photos[day]) > 0

	if user.IsDriver() {
		s.Done = s.Daily
	} else {
		s.Done = s.Daily && s.Tech && s.Climate
	}
	return s
}
