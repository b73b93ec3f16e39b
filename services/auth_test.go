package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ray-remotestate/tableorder/config"
	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewAuthService(db, config.AuthConfig{
		SecretKey:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	}), mock
}

func TestAuthService_CreateStaff(t *testing.T) {
	svc, mock := newAuthService(t)
	id := uuid.New()

	mock.ExpectQuery(q("SELECT 1 FROM staff")).WithArgs("kitchen1").WillReturnRows(boolRows(false))
	mock.ExpectQuery(q("INSERT INTO staff")).
		WithArgs("Kitchen One", "kitchen1", sqlmock.AnyArg(), "kitchen", "").
		WillReturnRows(staffRows(models.Staff{ID: id, Name: "Kitchen One", Username: "kitchen1", Role: models.RoleKitchen}))

	staff, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Name: "Kitchen One", Username: "kitchen1", Password: "secret1", Role: models.RoleKitchen,
	})
	require.NoError(t, err)
	assert.Equal(t, id, staff.ID)
	assert.Equal(t, models.RoleKitchen, staff.Role)
}

func TestAuthService_CreateStaff_Duplicate(t *testing.T) {
	svc, mock := newAuthService(t)
	mock.ExpectQuery(q("SELECT 1 FROM staff")).WillReturnRows(boolRows(true))

	_, err := svc.CreateStaff(context.Background(), CreateStaffInput{
		Name: "W", Username: "waiter1", Password: "secret1", Role: models.RoleWaiter,
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_CreateStaff_Validation(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.CreateStaff(context.Background(), CreateStaffInput{Username: "x", Password: "123", Role: "chef"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	staff := models.Staff{ID: uuid.New(), Name: "Bar", Username: "bar1", Password: hashed, Role: models.RoleBar}

	t.Run("issues a token pair", func(t *testing.T) {
		svc, mock := newAuthService(t)
		mock.ExpectQuery(q("WHERE LOWER(username) = LOWER($1)")).WithArgs("bar1").WillReturnRows(staffRows(staff))

		got, pair, err := svc.Login(context.Background(), "bar1", "secret1")
		require.NoError(t, err)
		assert.Equal(t, staff.ID, got.ID)

		access, err := middlewares.ParseClaims(testSecret, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, middlewares.AccessToken, access.TokenType)
		assert.Equal(t, models.RoleBar, access.Role)
		assert.Equal(t, staff.ID, access.StaffID)

		refresh, err := middlewares.ParseClaims(testSecret, pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, middlewares.RefreshToken, refresh.TokenType)
		assert.NotEqual(t, access.ID, refresh.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, mock := newAuthService(t)
		mock.ExpectQuery(q("FROM staff")).WillReturnRows(staffRows(staff))

		_, _, err := svc.Login(context.Background(), "bar1", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, mock := newAuthService(t)
		mock.ExpectQuery(q("FROM staff")).WillReturnRows(sqlmock.NewRows(staffCols))

		_, _, err := svc.Login(context.Background(), "ghost", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	staff := models.Staff{ID: uuid.New(), Name: "W", Username: "waiter1", Role: models.RoleWaiter}

	t.Run("rotates the refresh token", func(t *testing.T) {
		svc, mock := newAuthService(t)
		token, _, err := utils.GenerateToken(testSecret, staff.ID, staff.Role, middlewares.RefreshToken, time.Hour)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(q("FROM revoked_tokens")).WillReturnRows(boolRows(false))
		mock.ExpectQuery(q("WHERE id = $1 AND archived_at IS NULL")).WithArgs(staff.ID).WillReturnRows(staffRows(staff))
		mock.ExpectExec(q("INSERT INTO revoked_tokens")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		pair, err := svc.Refresh(context.Background(), token)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEqual(t, token, pair.RefreshToken)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc, mock := newAuthService(t)
		token, _, err := utils.GenerateToken(testSecret, staff.ID, staff.Role, middlewares.RefreshToken, time.Hour)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(q("FROM revoked_tokens")).WillReturnRows(boolRows(true))
		mock.ExpectRollback()

		_, err = svc.Refresh(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		svc, _ := newAuthService(t)
		token, _, err := utils.GenerateToken(testSecret, staff.ID, staff.Role, middlewares.AccessToken, time.Hour)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAuthService_Logout_RevokesBothTokens(t *testing.T) {
	svc, mock := newAuthService(t)
	staffID := uuid.New()

	pair, err := utils.GenerateTokens(testSecret, staffID, models.RoleWaiter, time.Minute, time.Hour)
	require.NoError(t, err)
	claims, err := middlewares.ParseClaims(testSecret, pair.AccessToken)
	require.NoError(t, err)
	refresh, err := middlewares.ParseClaims(testSecret, pair.RefreshToken)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO revoked_tokens")).
		WithArgs(claims.ID, staffID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO revoked_tokens")).
		WithArgs(refresh.ID, staffID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.Logout(context.Background(), claims, pair.RefreshToken))
}

func TestAuthService_EnsureAdmin_ExistingAccount(t *testing.T) {
	svc, mock := newAuthService(t)
	mock.ExpectQuery(q("SELECT 1 FROM staff")).WithArgs("admin").WillReturnRows(boolRows(true))

	created, err := svc.EnsureAdmin(context.Background(), "admin", "admin-pass")
	require.NoError(t, err)
	assert.False(t, created)
}
