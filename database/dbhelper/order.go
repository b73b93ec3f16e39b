package dbhelper

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/models"
)

const orderColumns = `id, batch_id, table_no, customer_name, phone, product_id, product_name, product_image,
	product_description, station, price, quantity, line_total, order_total, declared_total, status,
	created_at, updated_at`

// InsertOrderLines appends the whole batch in one statement.
func InsertOrderLines(ctx context.Context, db SQLExecutor, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, db, `
		INSERT INTO order_lines (id, batch_id, table_no, customer_name, phone, product_id, product_name,
			product_image, product_description, station, price, quantity, line_total, order_total,
			declared_total, status, created_at, updated_at)
		VALUES (:id, :batch_id, :table_no, :customer_name, :phone, :product_id, :product_name,
			:product_image, :product_description, :station, :price, :quantity, :line_total, :order_total,
			:declared_total, :status, :created_at, :updated_at)`, lines)
	return err
}

func ListOrderLinesByTableAndPhone(ctx context.Context, db SQLExecutor, tableNo int, phone string) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0)
	err := sqlx.SelectContext(ctx, db, &lines, `
		SELECT `+orderColumns+` FROM order_lines
		WHERE table_no = $1 AND phone = $2
		ORDER BY created_at DESC`, tableNo, phone)
	return lines, err
}

func ListOrderLinesByTable(ctx context.Context, db SQLExecutor, tableNo int) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0)
	err := sqlx.SelectContext(ctx, db, &lines, `
		SELECT `+orderColumns+` FROM order_lines
		WHERE table_no = $1
		ORDER BY created_at DESC`, tableNo)
	return lines, err
}

func ListOrderLinesByTableAndStation(ctx context.Context, db SQLExecutor, tableNo int, station models.Station) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0)
	err := sqlx.SelectContext(ctx, db, &lines, `
		SELECT `+orderColumns+` FROM order_lines
		WHERE table_no = $1 AND station = $2
		ORDER BY created_at DESC`, tableNo, station)
	return lines, err
}

// GetOrderLineForUpdate locks the row until the transaction ends.
func GetOrderLineForUpdate(ctx context.Context, db SQLExecutor, id uuid.UUID) (models.OrderLine, error) {
	var line models.OrderLine
	err := sqlx.GetContext(ctx, db, &line, `
		SELECT `+orderColumns+` FROM order_lines
		WHERE id = $1
		FOR UPDATE`, id)
	return line, err
}

func UpdateOrderLineStatus(ctx context.Context, db SQLExecutor, id uuid.UUID, status models.OrderStatus) (models.OrderLine, error) {
	var line models.OrderLine
	err := sqlx.GetContext(ctx, db, &line, `
		UPDATE order_lines
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+orderColumns, status, id)
	return line, err
}
