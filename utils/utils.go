package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
	"golang.org/x/crypto/bcrypt"
)

type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"-"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"-"`
}

func GenerateTokens(secret []byte, staffID uuid.UUID, role models.Role, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	var (
		pair TokenPair
		err  error
	)
	pair.AccessToken, pair.AccessExpiresAt, err = GenerateToken(secret, staffID, role, middlewares.AccessToken, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	pair.RefreshToken, pair.RefreshExpiresAt, err = GenerateToken(secret, staffID, role, middlewares.RefreshToken, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// GenerateToken signs a token of the given type. Each token gets its own
// jti so it can be revoked on its own.
func GenerateToken(secret []byte, staffID uuid.UUID, role models.Role, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &middlewares.Claims{
		StaffID:   staffID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   staffID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func HashPassword(pw string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hashed, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
