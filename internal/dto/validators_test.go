package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketsFromBounds(t *testing.T) {
	buckets := BucketsFromBounds([]int{60, 30, 90})

	require.Len(t, buckets, 4)
	assert.Equal(t, "0-30", buckets[0].Label)
	assert.Equal(t, "31-60", buckets[1].Label)
	assert.Equal(t, "61-90", buckets[2].Label)
	assert.Equal(t, "91+", buckets[3].Label)
	assert.Nil(t, buckets[3].MaxDays)
	assert.True(t, buckets[1].Contains(45))
}

func TestBucketsFromBounds_DropsDuplicates(t *testing.T) {
	buckets := BucketsFromBounds([]int{30, 30})

	require.Len(t, buckets, 2)
	assert.Equal(t, "0-30", buckets[0].Label)
	assert.Equal(t, "31+", buckets[1].Label)
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterValidators(v))

	type sample struct {
		Code string          `validate:"currency_code"`
		Rate decimal.Decimal `validate:"gt=0"`
	}

	assert.NoError(t, v.Struct(sample{Code: "USD", Rate: decimal.RequireFromString("0.27")}))
	assert.Error(t, v.Struct(sample{Code: "usd", Rate: decimal.NewFromInt(1)}))
	assert.Error(t, v.Struct(sample{Code: "USD", Rate: decimal.Zero}))
}
