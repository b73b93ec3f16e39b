package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/database"
	"github.com/ray-remotestate/tableorder/database/dbhelper"
	"github.com/ray-remotestate/tableorder/events"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/sirupsen/logrus"
)

type PlaceOrderInput struct {
	TableNo      int
	Phone        string
	CustomerName string
	// DeclaredTotal is what the client believes the order costs. It is
	// stored as sent and never used for money.
	DeclaredTotal float64
}

type OrderService struct {
	db        *sqlx.DB
	policy    models.StatusPolicy
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(db *sqlx.DB, policy models.StatusPolicy, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{db: db, policy: policy, publisher: publisher, now: time.Now}
}

// PlaceOrder turns the table's whole cart into one batch of placed order
// lines. The cart is emptied in the same transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (models.PlacedOrder, error) {
	fields := make(map[string]string)
	if in.TableNo <= 0 {
		fields["tableNo"] = "must be a positive table number"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "is required"
	}
	if len(fields) > 0 {
		return models.PlacedOrder{}, &ValidationError{Fields: fields}
	}

	placed := models.PlacedOrder{BatchID: uuid.New(), TableNo: in.TableNo}
	err := database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := database.LockTableCart(ctx, tx, in.TableNo); err != nil {
			return err
		}
		cart, err := dbhelper.DrainCart(ctx, tx, in.TableNo)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		placed.Lines = s.buildLines(placed.BatchID, in, cart)
		placed.OrderTotal = placed.Lines[0].OrderTotal
		return dbhelper.InsertOrderLines(ctx, tx, placed.Lines)
	})
	if err != nil {
		return models.PlacedOrder{}, passThrough("place order", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"table_no": in.TableNo,
		"batch_id": placed.BatchID,
		"lines":    len(placed.Lines),
	})
	if !sameAmount(in.DeclaredTotal, placed.OrderTotal) {
		log.WithFields(logrus.Fields{
			"declared_total": in.DeclaredTotal,
			"order_total":    placed.OrderTotal,
		}).Warn("declared total differs from computed total")
	}
	log.Info("order placed")

	for _, e := range events.Split(placed.Lines, s.now().UTC()) {
		s.publish(ctx, e)
	}
	return placed, nil
}

func (s *OrderService) buildLines(batchID uuid.UUID, in PlaceOrderInput, cart []models.CartLine) []models.OrderLine {
	now := s.now().UTC()
	lines := make([]models.OrderLine, 0, len(cart))
	var total float64
	for _, c := range cart {
		name := in.CustomerName
		if name == "" {
			name = c.CustomerName
		}
		lineTotal := roundCents(c.Price * float64(c.Quantity))
		total += lineTotal
		lines = append(lines, models.OrderLine{
			ID:                 uuid.New(),
			BatchID:            batchID,
			TableNo:            in.TableNo,
			CustomerName:       name,
			Phone:              in.Phone,
			ProductID:          c.ProductID,
			ProductName:        c.ProductName,
			ProductImage:       c.ProductImage,
			ProductDescription: c.ProductDescription,
			Station:            c.Station,
			Price:              c.Price,
			Quantity:           c.Quantity,
			LineTotal:          lineTotal,
			DeclaredTotal:      in.DeclaredTotal,
			Status:             models.StatusPlaced,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}

	total = roundCents(total)
	for i := range lines {
		lines[i].OrderTotal = total
	}
	return lines
}

func (s *OrderService) ListByTableAndPhone(ctx context.Context, tableNo int, phone string) ([]models.OrderLine, error) {
	lines, err := dbhelper.ListOrderLinesByTableAndPhone(ctx, s.db, tableNo, phone)
	if err != nil {
		return nil, persistence("list orders by table and phone", err)
	}
	return lines, nil
}

func (s *OrderService) ListByTable(ctx context.Context, tableNo int) ([]models.OrderLine, error) {
	lines, err := dbhelper.ListOrderLinesByTable(ctx, s.db, tableNo)
	if err != nil {
		return nil, persistence("list orders by table", err)
	}
	return lines, nil
}

func (s *OrderService) ListByTableAndStation(ctx context.Context, tableNo int, station models.Station) ([]models.OrderLine, error) {
	lines, err := dbhelper.ListOrderLinesByTableAndStation(ctx, s.db, tableNo, station)
	if err != nil {
		return nil, persistence("list orders by station", err)
	}
	return lines, nil
}

// UpdateStatus moves one order line to status. Writing the current status
// again changes nothing and returns the line as stored.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.OrderLine, error) {
	if !status.IsValid() {
		return models.OrderLine{}, NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	var (
		line    models.OrderLine
		changed bool
	)
	err := database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		current, err := dbhelper.GetOrderLineForUpdate(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderLineNotFound
		}
		if err != nil {
			return err
		}
		if current.Status == status {
			line = current
			return nil
		}
		if !s.policy.Allows(current.Status, status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, current.Status, status)
		}

		line, err = dbhelper.UpdateOrderLineStatus(ctx, tx, id, status)
		changed = err == nil
		return err
	})
	if err != nil {
		return models.OrderLine{}, passThrough("update order status", err)
	}
	if !changed {
		return line, nil
	}

	logrus.WithFields(logrus.Fields{
		"order_line_id": id,
		"table_no":      line.TableNo,
		"status":        status,
	}).Info("order status updated")

	s.publish(ctx, events.OrderEvent{
		Type:         events.OrderStatusChanged,
		BatchID:      line.BatchID,
		OrderLineIDs: []uuid.UUID{line.ID},
		TableNo:      line.TableNo,
		Station:      line.Station,
		Status:       line.Status,
		At:           s.now().UTC(),
	})
	return line, nil
}

// publish never fails the caller: the change is already committed.
func (s *OrderService) publish(ctx context.Context, e events.OrderEvent) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logrus.WithError(err).WithField("routing_key", e.RoutingKey()).Error("failed to publish order event")
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
