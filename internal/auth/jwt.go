package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Claims are the access token claims issued by the account service.
type Claims struct {
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// IsManager reports whether the role may act on other employees' records.
func (c *Claims) IsManager() bool {
	return c.Role == RoleAdmin || c.Role == RoleManager
}

// HasRole reports whether the claims carry one of roles.
func (c *Claims) HasRole(roles ...string) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(token, secret string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("parse token: invalid")
	}
	if claims.CompanyID == "" {
		return nil, errors.New("parse token: company_id claim is missing")
	}
	if !claims.HasRole(RoleAdmin, RoleManager, RoleEmployee) {
		return nil, fmt.Errorf("parse token: unknown role %q", claims.Role)
	}
	if claims.Role == RoleEmployee && claims.EmployeeID == "" {
		return nil, errors.New("parse token: employee_id claim is missing")
	}
	return claims, nil
}

// NewToken signs claims for ttl. Tests and local tooling use it; production
// tokens come from the account service.
func NewToken(claims Claims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type ctxKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the claims set by the auth middleware, or nil.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}
