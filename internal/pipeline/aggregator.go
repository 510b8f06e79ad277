// Package pipeline orchestrates dataset loading, caching, filtering and aggregation.
package pipeline

import (
	"fmt"

	"github.com/theirongolddev/adpulse/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals holds per-field sums over a set of records.
type Totals struct {
	Count int
	Sums  model.Record
}

// Get returns the total for field, zero when the field was not aggregated.
func (t Totals) Get(field string) decimal.Decimal {
	return t.Sums[field]
}

// Fields returns the aggregated field names in sorted order.
func (t Totals) Fields() []string {
	return t.Sums.Fields()
}

// Grand sums every field total. It equals the sum of every field of every
// input record.
func (t Totals) Grand() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t.Sums {
		sum = sum.Add(v)
	}
	return sum
}

// Recorder is implemented by domain rows that reduce to a numeric Record.
type Recorder interface {
	Record() model.Record
}

// Aggregate sums records field by field. The first record defines the field
// set and every later record must carry exactly the same fields.
// An empty input yields empty totals.
func Aggregate(records []model.Record) (Totals, error) {
	if len(records) == 0 {
		return Totals{Sums: model.Record{}}, nil
	}
	return AggregateFields(records, records[0].Fields()...)
}

// AggregateFields sums records against an explicit field set. Every field
// appears in the result, zero for empty input.
func AggregateFields(records []model.Record, fields ...string) (Totals, error) {
	t := Totals{Sums: make(model.Record, len(fields))}
	for _, f := range fields {
		t.Sums[f] = decimal.Zero
	}

	for i, rec := range records {
		if err := checkShape(rec, t.Sums); err != nil {
			err.Index = i
			return Totals{}, err
		}
		for f, v := range rec {
			t.Sums[f] = t.Sums[f].Add(v)
		}
		t.Count++
	}
	return t, nil
}

// AggregateOf aggregates any slice of domain rows.
func AggregateOf[T Recorder](items []T) (Totals, error) {
	records := make([]model.Record, len(items))
	for i, it := range items {
		records[i] = it.Record()
	}
	return Aggregate(records)
}

func checkShape(rec, schema model.Record) *model.RecordError {
	for _, f := range schema.Fields() {
		if _, ok := rec[f]; !ok {
			return &model.RecordError{Source: "record", Field: f, Reason: "is missing"}
		}
	}
	for _, f := range rec.Fields() {
		if _, ok := schema[f]; !ok {
			return &model.RecordError{Source: "record", Field: f, Reason: "is not in the record schema"}
		}
	}
	return nil
}

// Percent returns part/whole*100 rounded to a whole percent, or 0 when whole is 0.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(0)
}

// Share is Percent over two totals fields, e.g. spent of allocated.
func Share(t Totals, part, whole string) decimal.Decimal {
	return Percent(t.Get(part), t.Get(whole))
}

// MustTotals is for rows whose Record shape is fixed by their type, where a
// shape error would be a programming mistake.
func MustTotals[T Recorder](items []T) Totals {
	t, err := AggregateOf(items)
	if err != nil {
		panic(fmt.Sprintf("pipeline: aggregating fixed-shape rows: %v", err))
	}
	return t
}
