package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableService_Create(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	created := models.Table{ID: uuid.New(), TableNo: 12, Capacity: 4, Status: models.TableAvailable, QRCodeURL: "/qr/12.png"}
	mock.ExpectQuery(q("INSERT INTO tables")).
		WithArgs(12, 4, "available", "/qr/12.png", "", "").
		WillReturnRows(tableRows(created))

	got, err := svc.Create(context.Background(), CreateTableInput{TableNo: 12, Capacity: 4, QRCodeURL: "/qr/12.png"})
	require.NoError(t, err)
	assert.Equal(t, 12, got.TableNo)
	assert.Equal(t, models.TableAvailable, got.Status)
	assert.False(t, got.IsAssigned)
	assert.Nil(t, got.AssignedWaiter)
}

func TestTableService_Create_DuplicateNumber(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	mock.ExpectQuery(q("INSERT INTO tables")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := svc.Create(context.Background(), CreateTableInput{TableNo: 12, Capacity: 4})
	assert.ErrorIs(t, err, ErrDuplicateTable)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTableService_Create_Validation(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := NewTableService(db).Create(context.Background(), CreateTableInput{TableNo: 0, Capacity: -2, Status: "broken"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Fields, 3)
}

func TestTableService_SetOccupancy(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		db, mock := newMockDB(t)
		tbl := models.Table{ID: uuid.New(), TableNo: 2, Status: models.TableCleaning}
		mock.ExpectQuery(q("UPDATE tables SET status = $1")).
			WithArgs("cleaning", tbl.ID).
			WillReturnRows(tableRows(tbl))

		got, err := NewTableService(db).SetOccupancy(context.Background(), tbl.ID, models.TableCleaning)
		require.NoError(t, err)
		assert.Equal(t, models.TableCleaning, got.Status)
	})

	t.Run("unknown table", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("UPDATE tables")).WillReturnRows(sqlmock.NewRows(tableCols))

		_, err := NewTableService(db).SetOccupancy(context.Background(), uuid.New(), models.TableReserved)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		db, _ := newMockDB(t)
		_, err := NewTableService(db).SetOccupancy(context.Background(), uuid.New(), "closed")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTableService_Reassign_ReplacesOnlyThisWaitersSet(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)

	waiter := uuid.New()
	t1, t2, t3 := uuid.New(), uuid.New(), uuid.New()
	desired := pq.Array([]string{t2.String(), t3.String()})

	mock.ExpectBegin()
	mock.ExpectQuery(q("WHERE id = $1 AND role = 'waiter'")).WithArgs(waiter).WillReturnRows(boolRows(true))
	mock.ExpectQuery(q("WHERE assigned_waiter = $1 ORDER BY id FOR UPDATE")).
		WithArgs(waiter).
		WillReturnRows(idRows(t1, t2))
	mock.ExpectQuery(q("WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE")).
		WithArgs(desired).
		WillReturnRows(idRows(t2, t3))
	mock.ExpectExec(q("WHERE assigned_waiter = $1 AND id <> ALL($2::uuid[])")).
		WithArgs(waiter, desired).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("WHERE id = ANY($2::uuid[]) AND assigned_waiter IS DISTINCT FROM $1")).
		WithArgs(waiter, desired).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("WHERE assigned_waiter = $1 ORDER BY table_no")).
		WithArgs(waiter).
		WillReturnRows(tableRows(
			models.Table{ID: t2, TableNo: 2, Status: models.TableAvailable, AssignedWaiter: &waiter},
			models.Table{ID: t3, TableNo: 3, Status: models.TableOccupied, AssignedWaiter: &waiter},
		))
	mock.ExpectCommit()

	tables, err := svc.Reassign(context.Background(), waiter, []uuid.UUID{t2, t3, t2})
	require.NoError(t, err)
	require.Len(t, tables, 2)
	for _, tbl := range tables {
		require.NotNil(t, tbl.AssignedWaiter)
		assert.Equal(t, waiter, *tbl.AssignedWaiter)
		assert.True(t, tbl.IsAssigned)
	}
}

func TestTableService_Reassign_UnknownTableAppliesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	waiter := uuid.New()
	known, unknown := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("role = 'waiter'")).WillReturnRows(boolRows(true))
	mock.ExpectQuery(q("WHERE assigned_waiter = $1 ORDER BY id FOR UPDATE")).WillReturnRows(idRows())
	mock.ExpectQuery(q("WHERE id = ANY($1::uuid[])")).WillReturnRows(idRows(known))
	mock.ExpectRollback()

	_, err := NewTableService(db).Reassign(context.Background(), waiter, []uuid.UUID{known, unknown})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields["tableIds"], unknown.String())
	assert.NotContains(t, verr.Fields["tableIds"], known.String())
}

func TestTableService_Reassign_UnknownWaiter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("role = 'waiter'")).WillReturnRows(boolRows(false))
	mock.ExpectRollback()

	_, err := NewTableService(db).Reassign(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrWaiterNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTableService_Reassign_EmptySetReleasesEverything(t *testing.T) {
	db, mock := newMockDB(t)
	waiter := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("role = 'waiter'")).WillReturnRows(boolRows(true))
	mock.ExpectQuery(q("WHERE assigned_waiter = $1 ORDER BY id FOR UPDATE")).WillReturnRows(idRows(uuid.New()))
	mock.ExpectExec(q("id <> ALL($2::uuid[])")).
		WithArgs(waiter, pq.Array([]string{})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("ORDER BY table_no")).WillReturnRows(tableRows())
	mock.ExpectCommit()

	tables, err := NewTableService(db).Reassign(context.Background(), waiter, nil)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestTableService_ApplyAssignmentChanges(t *testing.T) {
	db, mock := newMockDB(t)
	waiter := uuid.New()
	t1, t2, t3 := uuid.New(), uuid.New(), uuid.New()
	desired := pq.Array([]string{t2.String(), t3.String()})

	mock.ExpectBegin()
	mock.ExpectQuery(q("role = 'waiter'")).WillReturnRows(boolRows(true))
	mock.ExpectQuery(q("WHERE assigned_waiter = $1 ORDER BY id FOR UPDATE")).WillReturnRows(idRows(t1, t2))
	mock.ExpectQuery(q("WHERE id = ANY($1::uuid[])")).WithArgs(desired).WillReturnRows(idRows(t2, t3))
	mock.ExpectExec(q("id <> ALL($2::uuid[])")).WithArgs(waiter, desired).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("IS DISTINCT FROM $1")).WithArgs(waiter, desired).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("ORDER BY table_no")).WillReturnRows(tableRows(
		models.Table{ID: t2, TableNo: 2, Status: models.TableAvailable, AssignedWaiter: &waiter},
		models.Table{ID: t3, TableNo: 3, Status: models.TableAvailable, AssignedWaiter: &waiter},
	))
	mock.ExpectCommit()

	tables, err := NewTableService(db).ApplyAssignmentChanges(context.Background(), waiter, []uuid.UUID{t3}, []uuid.UUID{t1})
	require.NoError(t, err)
	assert.Len(t, tables, 2)
}

func TestTableService_Lists(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewTableService(db)
	waiter := uuid.New()

	free := models.Table{ID: uuid.New(), TableNo: 1, Status: models.TableAvailable}
	held := models.Table{ID: uuid.New(), TableNo: 2, Status: models.TableOccupied, AssignedWaiter: &waiter}

	mock.ExpectQuery(q("FROM tables ORDER BY table_no")).WillReturnRows(tableRows(free, held))
	mock.ExpectQuery(q("WHERE assigned_waiter IS NULL")).WillReturnRows(tableRows(free))
	mock.ExpectQuery(q("WHERE assigned_waiter = $1")).WithArgs(waiter).WillReturnRows(tableRows(held))

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := svc.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 1, available[0].TableNo)

	assigned, err := svc.ListAssignedTo(context.Background(), waiter)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, waiter, *assigned[0].AssignedWaiter)
}
