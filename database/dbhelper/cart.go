package dbhelper

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/models"
)

const cartColumns = `id, table_no, customer_name, phone, product_id, product_name, product_description,
	product_image, station, price, quantity, created_at, updated_at`

// IncrementCartLine creates the line with quantity 1 or bumps the existing
// one in a single statement.
func IncrementCartLine(ctx context.Context, db SQLExecutor, tableNo int, customerName, phone string, p models.ProductSnapshot) (models.CartLine, error) {
	var line models.CartLine
	err := sqlx.GetContext(ctx, db, &line, `
		INSERT INTO cart_lines (id, table_no, customer_name, phone, product_id, product_name,
			product_description, product_image, station, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1)
		ON CONFLICT (table_no, phone, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + 1,
			customer_name = EXCLUDED.customer_name,
			updated_at = now()
		RETURNING `+cartColumns,
		uuid.New(), tableNo, customerName, phone, p.ID, p.Name, p.Description, p.Image, p.Station, p.Price)
	return line, err
}

// DecrementCartLine returns sql.ErrNoRows when there is no line to decrement.
func DecrementCartLine(ctx context.Context, db SQLExecutor, tableNo int, phone, productID string) (models.CartLine, error) {
	var line models.CartLine
	err := sqlx.GetContext(ctx, db, &line, `
		UPDATE cart_lines
		SET quantity = quantity - 1, updated_at = now()
		WHERE table_no = $1 AND phone = $2 AND product_id = $3
		RETURNING `+cartColumns,
		tableNo, phone, productID)
	return line, err
}

func DeleteEmptyCartLine(ctx context.Context, db SQLExecutor, id uuid.UUID) error {
	_, err := db.ExecContext(ctx, `DELETE FROM cart_lines WHERE id = $1 AND quantity <= 0`, id)
	return err
}

func DeleteCartLine(ctx context.Context, db SQLExecutor, tableNo int, phone, productID string) (int64, error) {
	res, err := db.ExecContext(ctx, `
		DELETE FROM cart_lines
		WHERE table_no = $1 AND phone = $2 AND product_id = $3`,
		tableNo, phone, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func ListCartLines(ctx context.Context, db SQLExecutor, tableNo int) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := sqlx.SelectContext(ctx, db, &lines, `
		SELECT `+cartColumns+` FROM cart_lines
		WHERE table_no = $1
		ORDER BY created_at`, tableNo)
	return lines, err
}

// DrainCart removes and returns every line of the table. The returned lines
// are exactly the rows deleted.
func DrainCart(ctx context.Context, db SQLExecutor, tableNo int) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := sqlx.SelectContext(ctx, db, &lines, `
		DELETE FROM cart_lines
		WHERE table_no = $1
		RETURNING `+cartColumns, tableNo)
	return lines, err
}
