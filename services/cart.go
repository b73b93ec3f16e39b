package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/database"
	"github.com/ray-remotestate/tableorder/database/dbhelper"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/sirupsen/logrus"
)

type AddToCartInput struct {
	TableNo      int
	CustomerName string
	Phone        string
	Product      models.ProductSnapshot
	// Delta is +1 to add one unit, -1 to take one away.
	Delta int
}

type CartService struct {
	db *sqlx.DB
}

func NewCartService(db *sqlx.DB) *CartService {
	return &CartService{db: db}
}

// AddOrAdjust applies one unit of change to the customer's line for the
// product. A line that drops to zero is removed and returned with
// quantity 0.
func (s *CartService) AddOrAdjust(ctx context.Context, in AddToCartInput) (models.CartLine, error) {
	if err := validateCartInput(in); err != nil {
		return models.CartLine{}, err
	}

	var line models.CartLine
	err := database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := database.ShareTableCart(ctx, tx, in.TableNo); err != nil {
			return err
		}

		var err error
		if in.Delta > 0 {
			line, err = dbhelper.IncrementCartLine(ctx, tx, in.TableNo, in.CustomerName, in.Phone, in.Product)
			return err
		}

		line, err = dbhelper.DecrementCartLine(ctx, tx, in.TableNo, in.Phone, in.Product.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCartLineNotFound
		}
		if err != nil {
			return err
		}
		if line.Quantity <= 0 {
			line.Quantity = 0
			return dbhelper.DeleteEmptyCartLine(ctx, tx, line.ID)
		}
		return nil
	})
	if err != nil {
		return models.CartLine{}, passThrough("adjust cart line", err)
	}

	logrus.WithFields(logrus.Fields{
		"table_no":   in.TableNo,
		"product_id": in.Product.ID,
		"quantity":   line.Quantity,
	}).Debug("cart line adjusted")
	return line, nil
}

func (s *CartService) Remove(ctx context.Context, tableNo int, phone, productID string) error {
	if tableNo <= 0 {
		return NewValidationError("table", "must be a positive table number")
	}

	err := database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := database.ShareTableCart(ctx, tx, tableNo); err != nil {
			return err
		}
		n, err := dbhelper.DeleteCartLine(ctx, tx, tableNo, phone, productID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCartLineNotFound
		}
		return nil
	})
	return passThrough("remove cart line", err)
}

func (s *CartService) ListForTable(ctx context.Context, tableNo int) ([]models.CartLine, error) {
	if tableNo <= 0 {
		return nil, NewValidationError("table", "must be a positive table number")
	}
	lines, err := dbhelper.ListCartLines(ctx, s.db, tableNo)
	if err != nil {
		return nil, persistence("list cart lines", err)
	}
	return lines, nil
}

func validateCartInput(in AddToCartInput) error {
	fields := make(map[string]string)
	if in.TableNo <= 0 {
		fields["tableNo"] = "must be a positive table number"
	}
	if strings.TrimSpace(in.Phone) == "" {
		fields["phone"] = "is required"
	}
	if strings.TrimSpace(in.Product.ID) == "" {
		fields["productId"] = "is required"
	}
	if in.Product.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if in.Product.Station != models.StationKitchen && in.Product.Station != models.StationBar {
		fields["station"] = "must be kitchen or bar"
	}
	if in.Delta != 1 && in.Delta != -1 {
		fields["action"] = "must add or remove exactly one unit"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
