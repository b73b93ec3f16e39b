package services

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/database"
	"github.com/ray-remotestate/tableorder/database/dbhelper"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/sirupsen/logrus"
)

type CustomerService struct {
	db *sqlx.DB
	// sessionTTL hides older joins from ListActiveAtTable. Zero disables it.
	sessionTTL time.Duration
	now        func() time.Time
}

func NewCustomerService(db *sqlx.DB, sessionTTL time.Duration) *CustomerService {
	return &CustomerService{db: db, sessionTTL: sessionTTL, now: time.Now}
}

func (s *CustomerService) UpsertIdentity(ctx context.Context, phone, name string) (models.Customer, error) {
	if err := validateIdentity(phone, name); err != nil {
		return models.Customer{}, err
	}
	c, err := dbhelper.UpsertCustomer(ctx, s.db, phone, name)
	if err != nil {
		return models.Customer{}, persistence("upsert customer", err)
	}
	return c, nil
}

// JoinTable records that phone sits at tableNo. Joining twice keeps one
// record; created reports whether this call wrote it.
func (s *CustomerService) JoinTable(ctx context.Context, phone, name string, tableNo int) (session models.TableSession, created bool, err error) {
	if err := validateIdentity(phone, name); err != nil {
		return models.TableSession{}, false, err
	}
	if tableNo <= 0 {
		return models.TableSession{}, false, NewValidationError("tableNo", "must be a positive table number")
	}

	err = database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := dbhelper.UpsertCustomer(ctx, tx, phone, name); err != nil {
			return err
		}
		var err error
		if created, err = dbhelper.JoinTable(ctx, tx, phone, tableNo); err != nil {
			return err
		}
		if err := dbhelper.OccupyTable(ctx, tx, tableNo); err != nil {
			return err
		}
		session, err = dbhelper.GetTableSession(ctx, tx, phone, tableNo)
		return err
	})
	if err != nil {
		return models.TableSession{}, false, persistence("join table", err)
	}

	if created {
		logrus.WithField("table_no", tableNo).Info("customer joined table")
	}
	return session, created, nil
}

func (s *CustomerService) ListActiveAtTable(ctx context.Context, tableNo int) ([]models.TableSession, error) {
	if tableNo <= 0 {
		return nil, NewValidationError("table", "must be a positive table number")
	}
	var since time.Time
	if s.sessionTTL > 0 {
		since = s.now().Add(-s.sessionTTL)
	}
	sessions, err := dbhelper.ListTableSessions(ctx, s.db, tableNo, since)
	if err != nil {
		return nil, persistence("list table sessions", err)
	}
	return sessions, nil
}

func validateIdentity(phone, name string) error {
	fields := make(map[string]string)
	if strings.TrimSpace(phone) == "" {
		fields["phone"] = "is required"
	}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
