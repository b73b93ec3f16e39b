package dbhelper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/models"
)

// SQLExecutor is satisfied by both *sqlx.DB and *sqlx.Tx, so every helper
// runs on the pool or inside a transaction.
type SQLExecutor interface {
	sqlx.ExtContext
}

const staffColumns = `id, name, username, password, role, phone, status, created_at, archived_at`

func CreateStaff(ctx context.Context, db SQLExecutor, name, username, hashedPassword string, role models.Role, phone string) (models.Staff, error) {
	var s models.Staff
	err := sqlx.GetContext(ctx, db, &s, `
		INSERT INTO staff (name, username, password, role, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+staffColumns,
		name, username, hashedPassword, role, phone)
	return s, err
}

func IsStaffExists(ctx context.Context, db SQLExecutor, username string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, db, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM staff
			WHERE LOWER(username) = LOWER($1) AND archived_at IS NULL
		)`, username)
	return exists, err
}

func GetStaffByUsername(ctx context.Context, db SQLExecutor, username string) (models.Staff, error) {
	var s models.Staff
	err := sqlx.GetContext(ctx, db, &s, `
		SELECT `+staffColumns+` FROM staff
		WHERE LOWER(username) = LOWER($1) AND archived_at IS NULL`, username)
	return s, err
}

func GetStaffByID(ctx context.Context, db SQLExecutor, id uuid.UUID) (models.Staff, error) {
	var s models.Staff
	err := sqlx.GetContext(ctx, db, &s, `
		SELECT `+staffColumns+` FROM staff
		WHERE id = $1 AND archived_at IS NULL`, id)
	return s, err
}

func IsWaiter(ctx context.Context, db SQLExecutor, id uuid.UUID) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, db, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM staff
			WHERE id = $1 AND role = 'waiter' AND archived_at IS NULL
		)`, id)
	return exists, err
}

func RevokeToken(ctx context.Context, db SQLExecutor, jti string, staffID uuid.UUID, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, staff_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`, jti, staffID, expiresAt)
	return err
}

func IsTokenRevoked(ctx context.Context, db SQLExecutor, jti string) (bool, error) {
	var revoked bool
	err := sqlx.GetContext(ctx, db, &revoked, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti)
	return revoked, err
}
