package dto

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// RegisterValidators adds the ledger's custom tags to a validator engine and lets
// numeric tags (gt, min...) apply to decimal.Decimal fields.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("currency_code", func(fl validator.FieldLevel) bool {
		return currencyCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register currency_code validator: %w", err)
	}
	return nil
}

// BucketsFromBounds turns ascending inclusive upper bounds into contiguous buckets
// plus a trailing open-ended one. Duplicates are dropped.
func BucketsFromBounds(bounds []int) []domain.AgingBucket {
	sorted := append([]int(nil), bounds...)
	sort.Ints(sorted)

	buckets := make([]domain.AgingBucket, 0, len(sorted)+1)
	lower := 0
	for _, upper := range sorted {
		if upper < lower {
			continue
		}
		hi := upper
		buckets = append(buckets, domain.AgingBucket{
			Label:   fmt.Sprintf("%d-%d", lower, upper),
			MinDays: lower,
			MaxDays: &hi,
		})
		lower = upper + 1
	}
	buckets = append(buckets, domain.AgingBucket{Label: fmt.Sprintf("%d+", lower), MinDays: lower})
	return buckets
}
