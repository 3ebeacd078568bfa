package utils

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Capabilities granted by the authentication collaborator and checked in front of ledger routes.
const (
	CapabilityRead  = "ledger:read"
	CapabilityWrite = "ledger:write"
	CapabilityClose = "ledger:close" // period and year close
	CapabilityAll   = "*"
)

// LedgerClaims are the JWT claims understood by the ledger.
type LedgerClaims struct {
	Capabilities []string `json:"caps,omitempty"`
	jwt.RegisteredClaims
}

// Has reports whether the claims grant capability.
func (c *LedgerClaims) Has(capability string) bool {
	return slices.Contains(c.Capabilities, CapabilityAll) || slices.Contains(c.Capabilities, capability)
}

// GenerateJWT generates a new JWT token with the given parameters.
func GenerateJWT(userID string, secret string, expiryDuration time.Duration, issuer string, capabilities ...string) (string, error) {
	now := time.Now()
	claims := LedgerClaims{
		Capabilities: capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims.
// An empty issuer skips the issuer check.
func ParseAndValidateJWT(tokenString string, secretKey string, issuer string) (*LedgerClaims, error) {
	claims := &LedgerClaims{}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
