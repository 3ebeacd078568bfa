package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", time.Minute, "ledger-engine", CapabilityRead, CapabilityWrite)
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "ledger-engine")
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.Has(CapabilityWrite))
	assert.False(t, claims.Has(CapabilityClose))
}

func TestParseAndValidateJWT_Failures(t *testing.T) {
	expired, err := GenerateJWT("user-1", "secret", -time.Minute, "ledger-engine")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "ledger-engine")
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	valid, err := GenerateJWT("user-1", "secret", time.Minute, "someone-else")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(valid, "secret", "ledger-engine")
	assert.Error(t, err)

	_, err = ParseAndValidateJWT(valid, "wrong-secret", "")
	assert.Error(t, err)
}

func TestLedgerClaims_Wildcard(t *testing.T) {
	claims := &LedgerClaims{Capabilities: []string{CapabilityAll}}
	assert.True(t, claims.Has(CapabilityClose))
}
