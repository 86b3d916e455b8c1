package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow assigns values positionally, the way pgx does for simple types.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r.values[i].(string)
		case *[]string:
			*d = r.values[i].([]string)
		case *decimal.Decimal:
			if err := d.Scan(r.values[i]); err != nil {
				return err
			}
		case *decimal.NullDecimal:
			if err := d.Scan(r.values[i]); err != nil {
				return err
			}
		case *float64:
			*d = r.values[i].(float64)
		case *int:
			*d = r.values[i].(int)
		case *time.Time:
			*d = r.values[i].(time.Time)
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

func productValues(discount any) []any {
	return []any{
		"p1", "Lipstick", "Red", "Acme", "beauty", "thumb.png", []string{"a.png"},
		"19.99", discount, 4.5, 3, time.Unix(0, 0),
	}
}

func Test_ScanProduct(t *testing.T) {
	p, err := scanProduct(fakeRow{values: productValues("12.5")})

	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "19.99", p.Price.String())
	require.NotNil(t, p.DiscountPercentage)
	assert.Equal(t, "12.5", p.DiscountPercentage.String())
	assert.Equal(t, []string{"a.png"}, p.Images)
	assert.True(t, p.InStock())
}

func Test_ScanProduct_NullDiscount(t *testing.T) {
	p, err := scanProduct(fakeRow{values: productValues(nil)})

	require.NoError(t, err)
	assert.Nil(t, p.DiscountPercentage)
}

func Test_ScanProduct_Error(t *testing.T) {
	_, err := scanProduct(fakeRow{err: errors.New("boom")})

	assert.EqualError(t, err, "boom")
}

func Test_PrefixedRow_ScansLeadingColumnsFirst(t *testing.T) {
	added := time.Unix(100, 0)
	values := append([]any{added}, productValues(nil)...)

	var addedAt time.Time
	p, err := scanProduct(prefixedRow{row: fakeRow{values: values}, dest: []any{&addedAt}})

	require.NoError(t, err)
	assert.Equal(t, added, addedAt)
	assert.Equal(t, "Lipstick", p.Title)
}
