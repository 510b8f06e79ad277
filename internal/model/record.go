package model

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one row of named numeric fields, the unit the aggregator reduces.
type Record map[string]decimal.Decimal

// Fields returns the record's field names in sorted order.
func (r Record) Fields() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParseRecord converts a loosely typed row (as decoded from TOML) into a Record
// holding the named fields. Integers, floats, numeric strings and decimals are
// accepted. A missing or non-numeric field yields a *RecordError with Index -1;
// callers fill in Source and Index.
func ParseRecord(raw map[string]any, fields ...string) (Record, error) {
	rec := make(Record, len(fields))
	for _, f := range fields {
		v, ok := raw[f]
		if !ok {
			return nil, &RecordError{Index: -1, Field: f, Reason: "is missing"}
		}
		d, ok := toDecimal(v)
		if !ok {
			return nil, &RecordError{Index: -1, Field: f, Reason: "is not numeric"}
		}
		rec[f] = d
	}
	return rec, nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}
