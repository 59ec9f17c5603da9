package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func jwtKey() []byte {
	if k := os.Getenv("JWT_SECRET"); k != "" {
		return []byte(k)
	}
	return []byte("shopdesk_dev_secret_change_me")
}

// Permissions mirrors the flag columns on the staff row. An owner token
// carries all of them set.
type Permissions struct {
	Billing   bool `json:"billing"`
	Inventory bool `json:"inventory"`
	Customers bool `json:"customers"`
	Reports   bool `json:"reports"`
	Settings  bool `json:"settings"`
}

// OwnerPermissions is what an owner login gets.
func OwnerPermissions() Permissions {
	return Permissions{Billing: true, Inventory: true, Customers: true, Reports: true, Settings: true}
}

// Claims defines what is inside the token. UserID is always the owning
// account; StaffID is non-zero only for staff logins.
type Claims struct {
	UserID  uint        `json:"user_id"`
	StaffID uint        `json:"staff_id,omitempty"`
	Role    string      `json:"role"` // 'owner' or 'staff'
	Perms   Permissions `json:"perms"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT. Tokens last 1 day.
func GenerateToken(userID, staffID uint, role string, perms Permissions) (string, error) {
	claims := &Claims{
		UserID:  userID,
		StaffID: staffID,
		Role:    role,
		Perms:   perms,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey())
}

// ValidateToken checks if a token is fake or expired.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
