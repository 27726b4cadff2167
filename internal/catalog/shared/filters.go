// Package shared holds the query/filter engine and validation helpers common
// to the catalog entities.
package shared

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/catalog-api/catalog-api/internal/platform/httpx"
)

// Kind describes how a filter parameter's raw value is parsed before it is
// bound to its SQL predicate.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
	KindTimestamp
)

// Column maps one recognized query parameter to an exact-match predicate.
// Expr must contain a single "$%d" placeholder for the bind position.
type Column struct {
	Expr string
	Kind Kind
}

// Condition is a validated predicate ready for the repository to append.
type Condition struct {
	Key   string
	Expr  string
	Value any
}

// FilterSet is the ordered collection of recognized, validated filters.
// An empty set selects the full collection.
type FilterSet struct {
	Conds []Condition
}

// timestampLayouts accepted for timestamp-kind filter values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFilters extracts the recognized keys from the query string. Keys not
// present in allowed are silently ignored; they never restrict the result.
// Recognized keys whose value cannot be parsed for their kind yield a
// per-field validation error. Keys with an empty value are treated as absent.
func ParseFilters(values url.Values, allowed map[string]Column) (FilterSet, error) {
	keys := make([]string, 0, len(allowed))
	for key := range allowed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var fs FilterSet
	fields := map[string]string{}
	for _, key := range keys {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		col := allowed[key]
		value, err := parseValue(raw, col.Kind)
		if err != "" {
			fields[key] = err
			continue
		}
		fs.Conds = append(fs.Conds, Condition{Key: key, Expr: col.Expr, Value: value})
	}
	if len(fields) > 0 {
		return FilterSet{}, &httpx.FieldErrors{Fields: fields}
	}
	return fs, nil
}

func parseValue(raw string, kind Kind) (any, string) {
	switch kind {
	case KindNumeric:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, "must be a decimal number"
		}
		return value, ""
	case KindTimestamp:
		for _, layout := range timestampLayouts {
			if value, err := time.Parse(layout, raw); err == nil {
				return value, ""
			}
		}
		return nil, "must be a valid timestamp"
	default:
		return raw, ""
	}
}

// Key returns a canonical representation of the set, suitable as a cache or
// request-collapsing key. Keys and values are escaped so a value containing
// "&" or "=" cannot alias another set's key.
func (fs FilterSet) Key() string {
	if len(fs.Conds) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(fs.Conds))
	for _, c := range fs.Conds {
		var raw string
		switch v := c.Value.(type) {
		case time.Time:
			raw = v.UTC().Format(time.RFC3339Nano)
		case float64:
			raw = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			raw = c.Value.(string)
		}
		parts = append(parts, url.QueryEscape(c.Key)+"="+url.QueryEscape(raw))
	}
	return strings.Join(parts, "&")
}
