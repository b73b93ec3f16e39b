package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/tableorder/models"
)

type Type string

const (
	OrderPlaced        Type = "placed"
	OrderStatusChanged Type = "status"
)

// OrderEvent describes committed order lines of one station.
type OrderEvent struct {
	Type         Type               `json:"type"`
	BatchID      uuid.UUID          `json:"batchId"`
	OrderLineIDs []uuid.UUID        `json:"orderLineIds"`
	TableNo      int                `json:"tableNo"`
	Station      models.Station     `json:"station"`
	Status       models.OrderStatus `json:"status"`
	At           time.Time          `json:"at"`
}

func (e OrderEvent) RoutingKey() string {
	return fmt.Sprintf("orders.%s.%s", e.Station, e.Type)
}

type Publisher interface {
	Publish(ctx context.Context, e OrderEvent) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, OrderEvent) error { return nil }

// Split groups the lines of a placed batch per station, one event each.
func Split(lines []models.OrderLine, at time.Time) []OrderEvent {
	byStation := make(map[models.Station]*OrderEvent)
	order := make([]models.Station, 0, 2)
	for _, l := range lines {
		e, ok := byStation[l.Station]
		if !ok {
			e = &OrderEvent{
				Type:    OrderPlaced,
				BatchID: l.BatchID,
				TableNo: l.TableNo,
				Station: l.Station,
				Status:  l.Status,
				At:      at,
			}
			byStation[l.Station] = e
			order = append(order, l.Station)
		}
		e.OrderLineIDs = append(e.OrderLineIDs, l.ID)
	}

	out := make([]OrderEvent, 0, len(order))
	for _, s := range order {
		out = append(out, *byStation[s])
	}
	return out
}
