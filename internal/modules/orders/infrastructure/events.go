package infrastructure

import (
	"time"

	"acapulcoWs/internal/modules/orders/domain"
	rtdomain "acapulcoWs/internal/modules/realtime/domain"
)

// ToMessage wraps an order event in the realtime envelope. The day travels in
// the metadata so only clients following that day receive it.
func ToMessage(event domain.Event, at time.Time) *rtdomain.Message {
	var data any
	if event.Order != nil {
		data = event.Order
	}
	return rtdomain.BuildEventMessage(domain.Entity, event.Action, event.OrderID, data, at, rtdomain.Metadata{
		rtdomain.MetadataDay: event.Day,
		"status":             string(event.Status),
	})
}
