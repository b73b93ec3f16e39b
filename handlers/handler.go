package handlers

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/services"
	"github.com/ray-remotestate/tableorder/utils"
)

type CartService interface {
	AddOrAdjust(ctx context.Context, in services.AddToCartInput) (models.CartLine, error)
	Remove(ctx context.Context, tableNo int, phone, productID string) error
	ListForTable(ctx context.Context, tableNo int) ([]models.CartLine, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in services.PlaceOrderInput) (models.PlacedOrder, error)
	ListByTableAndPhone(ctx context.Context, tableNo int, phone string) ([]models.OrderLine, error)
	ListByTable(ctx context.Context, tableNo int) ([]models.OrderLine, error)
	ListByTableAndStation(ctx context.Context, tableNo int, station models.Station) ([]models.OrderLine, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.OrderLine, error)
}

type TableService interface {
	Create(ctx context.Context, in services.CreateTableInput) (models.Table, error)
	ListAll(ctx context.Context) ([]models.Table, error)
	ListAvailable(ctx context.Context) ([]models.Table, error)
	ListAssignedTo(ctx context.Context, waiterID uuid.UUID) ([]models.Table, error)
	SetOccupancy(ctx context.Context, id uuid.UUID, status models.TableStatus) (models.Table, error)
	Reassign(ctx context.Context, waiterID uuid.UUID, desired []uuid.UUID) ([]models.Table, error)
	ApplyAssignmentChanges(ctx context.Context, waiterID uuid.UUID, assign, unassign []uuid.UUID) ([]models.Table, error)
}

type CustomerService interface {
	UpsertIdentity(ctx context.Context, phone, name string) (models.Customer, error)
	JoinTable(ctx context.Context, phone, name string, tableNo int) (models.TableSession, bool, error)
	ListActiveAtTable(ctx context.Context, tableNo int) ([]models.TableSession, error)
}

type AuthService interface {
	CreateStaff(ctx context.Context, in services.CreateStaffInput) (models.Staff, error)
	Login(ctx context.Context, username, password string) (models.Staff, utils.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error)
	Logout(ctx context.Context, claims *middlewares.Claims, refreshToken string) error
}

type Handler struct {
	cart      CartService
	orders    OrderService
	tables    TableService
	customers CustomerService
	auth      AuthService
	validate  *validator.Validate
}

func NewHandler(cart CartService, orders OrderService, tables TableService, customers CustomerService, auth AuthService) *Handler {
	validate := validator.New()
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		cart:      cart,
		orders:    orders,
		tables:    tables,
		customers: customers,
		auth:      auth,
		validate:  validate,
	}
}
