package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ray-remotestate/tableorder/config"
	"github.com/ray-remotestate/tableorder/database"
	"github.com/ray-remotestate/tableorder/database/dbhelper"
	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/utils"
	"github.com/sirupsen/logrus"
)

type CreateStaffInput struct {
	Name     string
	Username string
	Password string
	Role     models.Role
	Phone    string
}

type AuthService struct {
	db         *sqlx.DB
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(db *sqlx.DB, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		db:         db,
		secret:     cfg.SecretKey,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

func (s *AuthService) CreateStaff(ctx context.Context, in CreateStaffInput) (models.Staff, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "is required"
	}
	if strings.TrimSpace(in.Username) == "" {
		fields["username"] = "is required"
	}
	if len(in.Password) < 6 {
		fields["password"] = "must be at least 6 characters"
	}
	if !in.Role.IsValid() {
		fields["role"] = "must be admin, waiter, kitchen or bar"
	}
	if len(fields) > 0 {
		return models.Staff{}, &ValidationError{Fields: fields}
	}

	exists, err := dbhelper.IsStaffExists(ctx, s.db, in.Username)
	if err != nil {
		return models.Staff{}, persistence("check staff existence", err)
	}
	if exists {
		return models.Staff{}, ErrDuplicateUsername
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.Staff{}, err
	}

	staff, err := dbhelper.CreateStaff(ctx, s.db, in.Name, in.Username, hashed, in.Role, in.Phone)
	if isUniqueViolation(err) {
		return models.Staff{}, ErrDuplicateUsername
	}
	if err != nil {
		return models.Staff{}, persistence("create staff", err)
	}

	logrus.WithFields(logrus.Fields{"staff_id": staff.ID, "role": staff.Role}).Info("staff created")
	return staff, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (models.Staff, utils.TokenPair, error) {
	staff, err := dbhelper.GetStaffByUsername(ctx, s.db, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Staff{}, utils.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Staff{}, utils.TokenPair{}, persistence("get staff", err)
	}
	if !utils.CheckPassword(staff.Password, password) {
		return models.Staff{}, utils.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := utils.GenerateTokens(s.secret, staff.ID, staff.Role, s.accessTTL, s.refreshTTL)
	if err != nil {
		return models.Staff{}, utils.TokenPair{}, err
	}
	return staff, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token
// is revoked so it works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (utils.TokenPair, error) {
	claims, err := middlewares.ParseClaims(s.secret, refreshToken)
	if err != nil || claims.TokenType != middlewares.RefreshToken {
		return utils.TokenPair{}, ErrInvalidToken
	}

	var pair utils.TokenPair
	err = database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		revoked, err := dbhelper.IsTokenRevoked(ctx, tx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return ErrInvalidToken
		}

		staff, err := dbhelper.GetStaffByID(ctx, tx, claims.StaffID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}

		if err := dbhelper.RevokeToken(ctx, tx, claims.ID, staff.ID, expiry(claims)); err != nil {
			return err
		}
		pair, err = utils.GenerateTokens(s.secret, staff.ID, staff.Role, s.accessTTL, s.refreshTTL)
		return err
	})
	if errors.Is(err, ErrInvalidToken) {
		return utils.TokenPair{}, err
	}
	if err != nil {
		return utils.TokenPair{}, persistence("refresh token", err)
	}
	return pair, nil
}

// Logout revokes the access token in claims and, when it belongs to the
// same staff member, the refresh token too.
func (s *AuthService) Logout(ctx context.Context, claims *middlewares.Claims, refreshToken string) error {
	err := database.Tx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := dbhelper.RevokeToken(ctx, tx, claims.ID, claims.StaffID, expiry(claims)); err != nil {
			return err
		}
		if refreshToken == "" {
			return nil
		}
		rc, err := middlewares.ParseClaims(s.secret, refreshToken)
		if err != nil || rc.StaffID != claims.StaffID {
			return nil
		}
		return dbhelper.RevokeToken(ctx, tx, rc.ID, rc.StaffID, expiry(rc))
	})
	if err != nil {
		return persistence("logout", err)
	}
	logrus.WithField("staff_id", claims.StaffID).Info("staff logged out")
	return nil
}

func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	revoked, err := dbhelper.IsTokenRevoked(ctx, s.db, jti)
	if err != nil {
		return false, persistence("check token revocation", err)
	}
	return revoked, nil
}

// EnsureAdmin creates the admin account unless the username is taken. It
// reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.CreateStaff(ctx, CreateStaffInput{
		Name:     "Administrator",
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if errors.Is(err, ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func expiry(c *middlewares.Claims) time.Time {
	if c.ExpiresAt == nil {
		return time.Now()
	}
	return c.ExpiresAt.Time
}
