package dbhelper

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/models"
)

func UpsertCustomer(ctx context.Context, db SQLExecutor, phone, name string) (models.Customer, error) {
	var c models.Customer
	err := sqlx.GetContext(ctx, db, &c, `
		INSERT INTO customers (phone, name)
		VALUES ($1, $2)
		ON CONFLICT (phone)
		DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING phone, name, status, created_at, updated_at`, phone, name)
	return c, err
}

// JoinTable records the join unless it already exists. It reports whether a
// new record was written.
func JoinTable(ctx context.Context, db SQLExecutor, phone string, tableNo int) (bool, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO table_sessions (phone, table_no)
		VALUES ($1, $2)
		ON CONFLICT (phone, table_no) DO NOTHING`, phone, tableNo)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func GetTableSession(ctx context.Context, db SQLExecutor, phone string, tableNo int) (models.TableSession, error) {
	var s models.TableSession
	err := sqlx.GetContext(ctx, db, &s, `
		SELECT ts.phone, c.name, ts.table_no, ts.joined_at
		FROM table_sessions ts
		JOIN customers c ON c.phone = ts.phone
		WHERE ts.phone = $1 AND ts.table_no = $2`, phone, tableNo)
	return s, err
}

// ListTableSessions returns the table's joins newer than since. A zero since
// returns all of them.
func ListTableSessions(ctx context.Context, db SQLExecutor, tableNo int, since time.Time) ([]models.TableSession, error) {
	sessions := make([]models.TableSession, 0)
	err := sqlx.SelectContext(ctx, db, &sessions, `
		SELECT ts.phone, c.name, ts.table_no, ts.joined_at
		FROM table_sessions ts
		JOIN customers c ON c.phone = ts.phone
		WHERE ts.table_no = $1 AND ts.joined_at >= $2
		ORDER BY ts.joined_at`, tableNo, since)
	return sessions, err
}
