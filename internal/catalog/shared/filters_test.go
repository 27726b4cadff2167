package shared

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalog-api/catalog-api/internal/platform/httpx"
)

var testColumns = map[string]Column{
	"name":       {Expr: "name = $%d", Kind: KindText},
	"price":      {Expr: "price = $%d", Kind: KindNumeric},
	"created_at": {Expr: "created_at = $%d", Kind: KindTimestamp},
}

func TestParseFiltersRecognizedKeys(t *testing.T) {
	fs, err := ParseFilters(url.Values{
		"name":  {"Wrench"},
		"price": {"2.50"},
	}, testColumns)
	require.NoError(t, err)
	require.Len(t, fs.Conds, 2)

	// Conditions come out in sorted key order.
	assert.Equal(t, "name", fs.Conds[0].Key)
	assert.Equal(t, "Wrench", fs.Conds[0].Value)
	assert.Equal(t, "price", fs.Conds[1].Key)
	assert.Equal(t, 2.50, fs.Conds[1].Value)
}

func TestParseFiltersIgnoresUnrecognized(t *testing.T) {
	fs, err := ParseFilters(url.Values{
		"nmae": {"Wrench"},
		"page": {"2"},
	}, testColumns)
	require.NoError(t, err)
	assert.Empty(t, fs.Conds)
}

func TestParseFiltersEmptyValueIsAbsent(t *testing.T) {
	fs, err := ParseFilters(url.Values{"name": {""}}, testColumns)
	require.NoError(t, err)
	assert.Empty(t, fs.Conds)
}

func TestParseFiltersBadNumeric(t *testing.T) {
	_, err := ParseFilters(url.Values{"price": {"abc"}}, testColumns)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	var fieldErrs *httpx.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs.Fields, "price")
}

func TestParseFiltersTimestampLayouts(t *testing.T) {
	for _, raw := range []string{
		"2026-08-01T10:30:00Z",
		"2026-08-01T10:30:00.123456Z",
		"2026-08-01 10:30:00",
		"2026-08-01",
	} {
		fs, err := ParseFilters(url.Values{"created_at": {raw}}, testColumns)
		require.NoError(t, err, raw)
		require.Len(t, fs.Conds, 1, raw)
		_, ok := fs.Conds[0].Value.(time.Time)
		assert.True(t, ok, raw)
	}

	_, err := ParseFilters(url.Values{"created_at": {"not-a-date"}}, testColumns)
	require.Error(t, err)
	var fieldErrs *httpx.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs.Fields, "created_at")
}

func TestFilterSetKey(t *testing.T) {
	assert.Equal(t, "all", FilterSet{}.Key())

	fs, err := ParseFilters(url.Values{
		"price": {"2.5"},
		"name":  {"Wrench"},
	}, testColumns)
	require.NoError(t, err)
	first := fs.Key()

	fs, err = ParseFilters(url.Values{
		"name":  {"Wrench"},
		"price": {"2.5"},
	}, testColumns)
	require.NoError(t, err)
	// The key is canonical regardless of query string ordering.
	assert.Equal(t, first, fs.Key())
	assert.Equal(t, "name=Wrench&price=2.5", first)
}

func TestFilterSetKeyEscapesValues(t *testing.T) {
	// A single value containing "&" or "=" must not alias the key of a set
	// built from separate filters, or one query would be served another's
	// cached result.
	crafted, err := ParseFilters(url.Values{"name": {"Wrench&price=2.5"}}, testColumns)
	require.NoError(t, err)

	separate, err := ParseFilters(url.Values{
		"name":  {"Wrench"},
		"price": {"2.5"},
	}, testColumns)
	require.NoError(t, err)

	assert.NotEqual(t, separate.Key(), crafted.Key())
	assert.Equal(t, "name=Wrench%26price%3D2.5", crafted.Key())
}
