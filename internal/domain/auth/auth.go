package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleHR       = "HR"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identify the caller. EmployeeID is set for users who are also on
// the payroll and limits what a non-HR role can read.
type Claims struct {
	UserID     string `json:"uid"`
	EmployeeID string `json:"eid,omitempty"`
	RoleName   string `json:"role"`
	jwt.RegisteredClaims
}

type UserContext struct {
	UserID     string
	EmployeeID string
	RoleName   string
}

func (c Claims) User() UserContext {
	return UserContext{UserID: c.UserID, EmployeeID: c.EmployeeID, RoleName: c.RoleName}
}

func GenerateToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
