package handlers

import (
	"fmt"

	"github.com/mamadbah2/fleetcheck/internal/domain"
	"github.com/mamadbah2/fleetcheck/internal/domain/models"
	"github.com/mamadbah2/fleetcheck/internal/service/inventory"
)

// actionRequest is the JSON envelope for checklist mutations.
type actionRequest struct {
	Type          string             `json:"type"`
	ItemID        string             `json:"itemId"`
	BatchID       string             `json:"batchId"`
	Day           int                `json:"day"`
	Status        models.CheckStatus `json:"status"`
	CurrentStock  *string            `json:"currentStock"`
	HistoryNumber *string            `json:"historyNumber"`
	Field         string             `json:"field"`
	Value         string             `json:"value"`
	Data          string             `json:"data"`
	Index         int                `json:"index"`
}

// toAction turns the envelope into a typed action. "check" toggles for crew
// units and sets the grade for drivers.
func (r actionRequest) toAction(user models.User) (inventory.Action, error) {
	switch r.Type {
	case "check":
		if user.IsDriver() {
			return inventory.SetCheckStatus{ItemID: r.ItemID, Day: r.Day, Status: r.Status}, nil
		}
		return inventory.ToggleCheck{ItemID: r.ItemID, Day: r.Day, Status: r.Status}, nil
	case "checkDetail":
		return inventory.UpdateCheckDetail{ItemID: r.ItemID, Day: r.Day, CurrentStock: r.CurrentStock, HistoryNumber: r.HistoryNumber}, nil
	case "header":
		return inventory.UpdateHeader{Field: r.Field, Value: r.Value}, nil
	case "technical":
		return inventory.UpdateTechnical{ItemID: r.ItemID, Field: r.Field, Value: r.Value}, nil
	case "addBatch":
		return inventory.AddBatch{ItemID: r.ItemID}, nil
	case "updateBatch":
		return inventory.UpdateBatch{ItemID: r.ItemID, BatchID: r.BatchID, Field: r.Field, Value: r.Value}, nil
	case "removeBatch":
		return inventory.RemoveBatch{ItemID: r.ItemID, BatchID: r.BatchID}, nil
	case "climate":
		return inventory.SetClimate{Day: r.Day, Field: r.Field, Value: r.Value}, nil
	case "addPhoto":
		return inventory.AddPhoto{Day: r.Day, Data: r.Data}, nil
	case "removePhoto":
		return inventory.RemovePhoto{Day: r.Day, Index: r.Index}, nil
	default:
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown action %q", r.Type))
	}
}
