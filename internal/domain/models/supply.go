package models

import "time"

// RequestStatus tracks warehouse fulfillment. It only moves PENDING -> COMPLETED.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestCompleted RequestStatus = "COMPLETED"
)

// SupplyItem is one deficit line carried by a sync code.
type SupplyItem struct {
	Name          string  `bson:"name" json:"name"`
	Deficit       float64 `bson:"deficit" json:"deficit"`
	Current       string  `bson:"current" json:"current"`
	HistoryNumber string  `bson:"history_number,omitempty" json:"historyNumber,omitempty"`
}

// SupplyRequest is created when the warehouse imports a sync code.
type SupplyRequest struct {
	ID          string        `bson:"_id" json:"id"`
	MobileID    string        `bson:"mobile_id" json:"mobileId"`
	MobileName  string        `bson:"mobile_name" json:"mobileName"`
	Date        string        `bson:"date" json:"date"`
	Items       []SupplyItem  `bson:"items" json:"items"`
	Status      RequestStatus `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	CompletedAt *time.Time    `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}
