package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "0d5f4b7e-entry",
	}

	token := cursor.Encode()
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeCursorErrors(t *testing.T) {
	_, err := DecodeCursor("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("2025-01-01T00:00:00Z|only-two")))
	assert.ErrorContains(t, err, "split")

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("yesterday|2025-01-01T00:00:00Z|id")))
	assert.ErrorContains(t, err, "date parse")
}
