package dbhelper

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ray-remotestate/tableorder/models"
)

const tableColumns = `id, table_no, capacity, status, assigned_waiter, is_assigned, assigned_at,
	qr_code_url, qr_code_image, qr_code_thumbnail, created_at, updated_at`

func CreateTable(ctx context.Context, db SQLExecutor, t models.Table) (models.Table, error) {
	var created models.Table
	err := sqlx.GetContext(ctx, db, &created, `
		INSERT INTO tables (table_no, capacity, status, qr_code_url, qr_code_image, qr_code_thumbnail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+tableColumns,
		t.TableNo, t.Capacity, t.Status, t.QRCodeURL, t.QRCodeImage, t.QRCodeThumbnail)
	return created, err
}

func ListTables(ctx context.Context, db SQLExecutor) ([]models.Table, error) {
	tables := make([]models.Table, 0)
	err := sqlx.SelectContext(ctx, db, &tables, `SELECT `+tableColumns+` FROM tables ORDER BY table_no`)
	return tables, err
}

func ListUnassignedTables(ctx context.Context, db SQLExecutor) ([]models.Table, error) {
	tables := make([]models.Table, 0)
	err := sqlx.SelectContext(ctx, db, &tables, `
		SELECT `+tableColumns+` FROM tables
		WHERE assigned_waiter IS NULL
		ORDER BY table_no`)
	return tables, err
}

func ListTablesAssignedTo(ctx context.Context, db SQLExecutor, waiterID uuid.UUID) ([]models.Table, error) {
	tables := make([]models.Table, 0)
	err := sqlx.SelectContext(ctx, db, &tables, `
		SELECT `+tableColumns+` FROM tables
		WHERE assigned_waiter = $1
		ORDER BY table_no`, waiterID)
	return tables, err
}

func SetTableStatus(ctx context.Context, db SQLExecutor, id uuid.UUID, status models.TableStatus) (models.Table, error) {
	var t models.Table
	err := sqlx.GetContext(ctx, db, &t, `
		UPDATE tables
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+tableColumns, status, id)
	return t, err
}

// OccupyTable flips an available table to occupied. Tables in any other
// state, or unknown numbers, are left alone.
func OccupyTable(ctx context.Context, db SQLExecutor, tableNo int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE tables
		SET status = 'occupied', updated_at = now()
		WHERE table_no = $1 AND status = 'available'`, tableNo)
	return err
}

// LockTables locks the given rows and returns the ids that exist.
func LockTables(ctx context.Context, db SQLExecutor, ids []uuid.UUID) ([]uuid.UUID, error) {
	found := make([]uuid.UUID, 0, len(ids))
	err := sqlx.SelectContext(ctx, db, &found, `
		SELECT id FROM tables
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE`, uuidArray(ids))
	return found, err
}

// LockTablesAssignedTo locks and returns the ids currently held by the waiter.
func LockTablesAssignedTo(ctx context.Context, db SQLExecutor, waiterID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := sqlx.SelectContext(ctx, db, &ids, `
		SELECT id FROM tables
		WHERE assigned_waiter = $1
		ORDER BY id
		FOR UPDATE`, waiterID)
	return ids, err
}

// UnassignTablesExcept releases the waiter's tables that are not in keep.
// Only rows held by this waiter are touched.
func UnassignTablesExcept(ctx context.Context, db SQLExecutor, waiterID uuid.UUID, keep []uuid.UUID) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE tables
		SET assigned_waiter = NULL, is_assigned = false, assigned_at = NULL, updated_at = now()
		WHERE assigned_waiter = $1 AND id <> ALL($2::uuid[])`, waiterID, uuidArray(keep))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AssignTables gives exactly the listed tables to the waiter.
func AssignTables(ctx context.Context, db SQLExecutor, waiterID uuid.UUID, ids []uuid.UUID) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE tables
		SET assigned_waiter = $1, is_assigned = true, assigned_at = now(), updated_at = now()
		WHERE id = ANY($2::uuid[]) AND assigned_waiter IS DISTINCT FROM $1`, waiterID, uuidArray(ids))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func uuidArray(ids []uuid.UUID) interface{} {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return pq.Array(s)
}
