package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/events"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 4, 16, 19, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

var cartCols = []string{
	"id", "table_no", "customer_name", "phone", "product_id", "product_name", "product_description",
	"product_image", "station", "price", "quantity", "created_at", "updated_at",
}

func cartRows(lines ...models.CartLine) *sqlmock.Rows {
	rows := sqlmock.NewRows(cartCols)
	for _, l := range lines {
		rows.AddRow(l.ID.String(), l.TableNo, l.CustomerName, l.Phone, l.ProductID, l.ProductName,
			l.ProductDescription, l.ProductImage, string(l.Station), l.Price, l.Quantity, fixedNow, fixedNow)
	}
	return rows
}

var orderCols = []string{
	"id", "batch_id", "table_no", "customer_name", "phone", "product_id", "product_name", "product_image",
	"product_description", "station", "price", "quantity", "line_total", "order_total", "declared_total",
	"status", "created_at", "updated_at",
}

func orderRows(lines ...models.OrderLine) *sqlmock.Rows {
	rows := sqlmock.NewRows(orderCols)
	for _, l := range lines {
		rows.AddRow(l.ID.String(), l.BatchID.String(), l.TableNo, l.CustomerName, l.Phone, l.ProductID,
			l.ProductName, l.ProductImage, l.ProductDescription, string(l.Station), l.Price, l.Quantity,
			l.LineTotal, l.OrderTotal, l.DeclaredTotal, string(l.Status), fixedNow, fixedNow)
	}
	return rows
}

var tableCols = []string{
	"id", "table_no", "capacity", "status", "assigned_waiter", "is_assigned", "assigned_at",
	"qr_code_url", "qr_code_image", "qr_code_thumbnail", "created_at", "updated_at",
}

func tableRows(tables ...models.Table) *sqlmock.Rows {
	rows := sqlmock.NewRows(tableCols)
	for _, t := range tables {
		var waiter, assignedAt interface{}
		if t.AssignedWaiter != nil {
			waiter = t.AssignedWaiter.String()
			assignedAt = fixedNow
		}
		rows.AddRow(t.ID.String(), t.TableNo, t.Capacity, string(t.Status), waiter, t.AssignedWaiter != nil,
			assignedAt, t.QRCodeURL, t.QRCodeImage, t.QRCodeThumbnail, fixedNow, fixedNow)
	}
	return rows
}

func idRows(ids ...uuid.UUID) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id.String())
	}
	return rows
}

var staffCols = []string{"id", "name", "username", "password", "role", "phone", "status", "created_at", "archived_at"}

func staffRows(s models.Staff) *sqlmock.Rows {
	return sqlmock.NewRows(staffCols).
		AddRow(s.ID.String(), s.Name, s.Username, s.Password, string(s.Role), s.Phone, "active", fixedNow, nil)
}

func boolRows(v bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(v)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}
