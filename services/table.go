package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/database"
	"github.com/ray-remotestate/tableorder/database/dbhelper"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/sirupsen/logrus"
)

type CreateTableInput struct {
	TableNo         int
	Capacity        int
	Status          models.TableStatus
	QRCodeURL       string
	QRCodeImage     string
	QRCodeThumbnail string
}

type TableService struct {
	db *sqlx.DB
}

func NewTableService(db *sqlx.DB) *TableService {
	return &TableService{db: db}
}

func (s *TableService) Create(ctx context.Context, in CreateTableInput) (models.Table, error) {
	if in.Status == "" {
		in.Status = models.TableAvailable
	}
	fields := make(map[string]string)
	if in.TableNo <= 0 {
		fields["tableNo"] = "must be a positive table number"
	}
	if in.Capacity < 0 {
		fields["capacity"] = "must not be negative"
	}
	if !in.Status.IsValid() {
		fields["status"] = "must be available, occupied, cleaning or reserved"
	}
	if len(fields) > 0 {
		return models.Table{}, &ValidationError{Fields: fields}
	}

	t, err := dbhelper.CreateTable(ctx, s.db, models.Table{
		TableNo:         in.TableNo,
		Capacity:        in.Capacity,
		Status:          in.Status,
		QRCodeURL:       in.QRCodeURL,
		QRCodeImage:     in.QRCodeImage,
		QRCodeThumbnail: in.QRCodeThumbnail,
	})
	if isUniqueViolation(err) {
		return models.Table{}, ErrDuplicateTable
	}
	if err != nil {
		return models.Table{}, persistence("create table", err)
	}

	logrus.WithField("table_no", t.TableNo).Info("table created")
	return t, nil
}

func (s *TableService) ListAll(ctx context.Context) ([]models.Table, error) {
	tables, err := dbhelper.ListTables(ctx, s.db)
	if err != nil {
		return nil, persistence("list tables", err)
	}
	return tables, nil
}

// ListAvailable returns the tables no waiter holds.
func (s *TableService) ListAvailable(ctx context.Context) ([]models.Table, error) {
	tables, err := dbhelper.ListUnassignedTables(ctx, s.db)
	if err != nil {
		return nil, persistence("list unassigned tables", err)
	}
	return tables, nil
}

func (s *TableService) ListAssignedTo(ctx context.Context, waiterID uuid.UUID) ([]models.Table, error) {
	tables, err := dbhelper.ListTablesAssignedTo(ctx, s.db, waiterID)
	if err != nil {
		return nil, persistence("list assigned tables", err)
	}
	return tables, nil
}

func (s *TableService) SetOccupancy(ctx context.Context, id uuid.UUID, status models.TableStatus) (models.Table, error) {
	if !status.IsValid() {
		return models.Table{}, NewValidationError("status", "must be available, occupied, cleaning or reserved")
	}
	t, err := dbhelper.SetTableStatus(ctx, s.db, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Table{}, ErrTableNotFound
	}
	if err != nil {
		return models.Table{}, persistence("set table status", err)
	}

	logrus.WithFields(logrus.Fields{"table_no": t.TableNo, "status": status}).Info("table status updated")
	return t, nil
}

// Reassign makes desired the exact set of tables the waiter holds. Tables
// held by other waiters are only touched when they are in desired.
func (s *TableService) Reassign(ctx context.Context, waiterID uuid.UUID, desired []uuid.UUID) ([]models.Table, error) {
	return s.reassign(ctx, waiterID, func([]uuid.UUID) []uuid.UUID {
		return desired
	})
}

// ApplyAssignmentChanges adds assign to and drops unassign from the
// waiter's current tables, as one set-replace.
func (s *TableService) ApplyAssignmentChanges(ctx context.Context, waiterID uuid.UUID, assign, unassign []uuid.UUID) ([]models.Table, error) {
	return s.reassign(ctx, waiterID, func(current []uuid.UUID) []uuid.UUID {
		drop := make(map[uuid.UUID]bool, len(unassign))
		for _, id := range unassign {
			drop[id] = true
		}
		desired := make([]uuid.UUID, 0, len(current)+len(assign))
		for _, id := range append(append([]uuid.UUID{}, current...), assign...) {
			if !drop[id] {
				desired = append(desired, id)
			}
		}
		return desired
	})
}

func (s *TableService) reassign(ctx context.Context, waiterID uuid.UUID, desiredFrom func(current []uuid.UUID) []uuid.UUID) ([]models.Table, error) {
	var tables []models.Table
	err := database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		ok, err := dbhelper.IsWaiter(ctx, tx, waiterID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWaiterNotFound
		}

		current, err := dbhelper.LockTablesAssignedTo(ctx, tx, waiterID)
		if err != nil {
			return err
		}
		desired := dedupe(desiredFrom(current))

		if len(desired) > 0 {
			found, err := dbhelper.LockTables(ctx, tx, desired)
			if err != nil {
				return err
			}
			if missing := missingIDs(desired, found); len(missing) > 0 {
				return NewValidationError("tableIds", "unknown tables: "+strings.Join(missing, ", "))
			}
		}

		released, err := dbhelper.UnassignTablesExcept(ctx, tx, waiterID, desired)
		if err != nil {
			return err
		}
		var assigned int64
		if len(desired) > 0 {
			if assigned, err = dbhelper.AssignTables(ctx, tx, waiterID, desired); err != nil {
				return err
			}
		}

		logrus.WithFields(logrus.Fields{
			"waiter_id": waiterID,
			"released":  released,
			"assigned":  assigned,
		}).Info("tables reassigned")

		tables, err = dbhelper.ListTablesAssignedTo(ctx, tx, waiterID)
		return err
	})
	if err != nil {
		return nil, passThrough("reassign tables", err)
	}
	return tables, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func missingIDs(want, found []uuid.UUID) []string {
	have := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []string
	for _, id := range want {
		if !have[id] {
			missing = append(missing, id.String())
		}
	}
	sort.Strings(missing)
	return missing
}
