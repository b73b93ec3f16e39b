package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Advisory lock namespaces, first key of pg_advisory_xact_lock(int, int).
const (
	tableCartLock int32 = 0x7ab1
)

// LockTableCart takes the exclusive per-table cart lock until the
// transaction ends. Placement holds it while draining the cart.
func LockTableCart(ctx context.Context, tx *sqlx.Tx, tableNo int) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, tableCartLock, tableNo); err != nil {
		return fmt.Errorf("failed to lock cart of table %d: %w", tableNo, err)
	}
	return nil
}

// ShareTableCart takes the shared per-table cart lock. Cart edits hold it so
// they never interleave with a drain.
func ShareTableCart(ctx context.Context, tx *sqlx.Tx, tableNo int) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock_shared($1, $2)`, tableCartLock, tableNo); err != nil {
		return fmt.Errorf("failed to share cart lock of table %d: %w", tableNo, err)
	}
	return nil
}
