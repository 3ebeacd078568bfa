package database

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", name))
	require.NoError(t, err)
	return string(raw)
}

// The stored scale must agree with what the services round to before saving.
func TestInitSchema_MatchesDomainScales(t *testing.T) {
	up := readMigration(t, "000001_init_ledger.up.sql")

	assert.Contains(t, up, fmt.Sprintf("rate               NUMERIC(18, %d)", domain.RatePlaces))
	assert.Contains(t, up, fmt.Sprintf("CHECK (decimal_places BETWEEN 0 AND %d)", domain.MaxCurrencyPlaces))
}

func TestInitSchema_HasDownMigration(t *testing.T) {
	down := readMigration(t, "000001_init_ledger.down.sql")

	assert.Contains(t, down, "DROP TABLE IF EXISTS exchange_rates")
	assert.Contains(t, down, "DROP TABLE IF EXISTS currencies")
}
