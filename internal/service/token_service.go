package service

import (
	"fmt"
	"time"

	"customer-wallet-service/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTTokenService implements ports.TokenService using HS256 JWT. Tokens
// carry an access scope: admin, organization-wide, or single customer.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewJWTTokenService creates a new JWT token service.
func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Generate creates a signed JWT for the given scope.
func (s *JWTTokenService) Generate(scope domain.AccessScope) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiry)

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"iss": s.issuer,
	}
	if scope.Admin {
		claims["admin"] = true
	}
	if scope.OrganizationID != nil {
		claims["org_id"] = scope.OrganizationID.String()
	}
	if scope.CustomerID != nil {
		claims["customer_id"] = scope.CustomerID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses and validates a JWT token, returning the scope it grants.
func (s *JWTTokenService) Validate(tokenString string) (domain.AccessScope, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.AccessScope{}, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.AccessScope{}, fmt.Errorf("invalid token claims")
	}

	var scope domain.AccessScope
	if admin, _ := claims["admin"].(bool); admin {
		scope.Admin = true
	}
	if raw, ok := claims["org_id"].(string); ok {
		orgID, err := uuid.Parse(raw)
		if err != nil {
			return domain.AccessScope{}, fmt.Errorf("invalid organization ID in token: %w", err)
		}
		scope.OrganizationID = &orgID
	}
	if raw, ok := claims["customer_id"].(string); ok {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			return domain.AccessScope{}, fmt.Errorf("invalid customer ID in token: %w", err)
		}
		scope.CustomerID = &customerID
	}
	if !scope.Admin && scope.OrganizationID == nil && scope.CustomerID == nil {
		return domain.AccessScope{}, fmt.Errorf("token grants no scope")
	}

	return scope, nil
}
