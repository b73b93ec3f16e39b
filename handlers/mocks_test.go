package handlers_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/services"
	"github.com/ray-remotestate/tableorder/utils"
	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddOrAdjust(ctx context.Context, in services.AddToCartInput) (models.CartLine, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.CartLine), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, tableNo int, phone, productID string) error {
	args := m.Called(ctx, tableNo, phone, productID)
	return args.Error(0)
}

func (m *MockCartService) ListForTable(ctx context.Context, tableNo int) ([]models.CartLine, error) {
	args := m.Called(ctx, tableNo)
	return args.Get(0).([]models.CartLine), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, in services.PlaceOrderInput) (models.PlacedOrder, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.PlacedOrder), args.Error(1)
}

func (m *MockOrderService) ListByTableAndPhone(ctx context.Context, tableNo int, phone string) ([]models.OrderLine, error) {
	args := m.Called(ctx, tableNo, phone)
	return args.Get(0).([]models.OrderLine), args.Error(1)
}

func (m *MockOrderService) ListByTable(ctx context.Context, tableNo int) ([]models.OrderLine, error) {
	args := m.Called(ctx, tableNo)
	return args.Get(0).([]models.OrderLine), args.Error(1)
}

func (m *MockOrderService) ListByTableAndStation(ctx context.Context, tableNo int, station models.Station) ([]models.OrderLine, error) {
	args := m.Called(ctx, tableNo, station)
	return args.Get(0).([]models.OrderLine), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (models.OrderLine, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.OrderLine), args.Error(1)
}

type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) Create(ctx context.Context, in services.CreateTableInput) (models.Table, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Table), args.Error(1)
}

func (m *MockTableService) ListAll(ctx context.Context) ([]models.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Table), args.Error(1)
}

func (m *MockTableService) ListAvailable(ctx context.Context) ([]models.Table, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Table), args.Error(1)
}

func (m *MockTableService) ListAssignedTo(ctx context.Context, waiterID uuid.UUID) ([]models.Table, error) {
	args := m.Called(ctx, waiterID)
	return args.Get(0).([]models.Table), args.Error(1)
}

func (m *MockTableService) SetOccupancy(ctx context.Context, id uuid.UUID, status models.TableStatus) (models.Table, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Table), args.Error(1)
}

func (m *MockTableService) Reassign(ctx context.Context, waiterID uuid.UUID, desired []uuid.UUID) ([]models.Table, error) {
	args := m.Called(ctx, waiterID, desired)
	return args.Get(0).([]models.Table), args.Error(1)
}

func (m *MockTableService) ApplyAssignmentChanges(ctx context.Context, waiterID uuid.UUID, assign, unassign []uuid.UUID) ([]models.Table, error) {
	args := m.Called(ctx, waiterID, assign, unassign)
	return args.Get(0).([]models.Table), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) UpsertIdentity(ctx context.Context, phone, name string) (models.Customer, error) {
	args := m.Called(ctx, phone, name)
	return args.Get(0).(models.Customer), args.Error(1)
}

func (m *MockCustomerService) JoinTable(ctx context.Context, phone, name string, tableNo int) (models.TableSession, bool, error) {
	args := m.Called(ctx, phone, name, tableNo)
	return args.Get(0).(models.TableSession), args.Bool(1), args.Error(2)
}

func (m *MockCustomerService) ListActiveAtTable(ctx context.Context, tableNo int) ([]models.TableSession, error) {
	args := m.Called(ctx, tableNo)
	return args.Get(0).([]models.TableSession), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) CreateStaff(ctx context.Context, in services.CreateStaffInput) (models.Staff, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Staff), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (models.Staff, utils.TokenPair, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(models.Staff), args.Get(1).(utils.TokenPair), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(utils.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *middlewares.Claims, refreshToken string) error {
	args := m.Called(ctx, claims, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
