package domain

import (
	"time"
	_ "time/tzdata"
)

// Entity is the name order events are published under.
const Entity = "orders"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Event announces that an order was created or changed.
type Event struct {
	Action  string `json:"action"`
	OrderID string `json:"orderId"`
	Day     string `json:"day"`
	Status  Status `json:"status"`
	Order   *Order `json:"order,omitempty"`
}

// NewEvent describes o, bucketing it into the business day it was placed on.
func NewEvent(action string, o Order, loc *time.Location) Event {
	snapshot := o
	return Event{
		Action:  action,
		OrderID: o.ID,
		Day:     DayOf(o, loc),
		Status:  o.Status,
		Order:   &snapshot,
	}
}

// DayOf is the business day an order belongs to.
func DayOf(o Order, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return o.CreatedAt.In(loc).Format(time.DateOnly)
}
