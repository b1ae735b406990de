package domain

import (
	"time"
)

// ConditionOp is the tag of a Condition expression node.
type ConditionOp string

const (
	OpEq       ConditionOp = "eq"
	OpInArray  ConditionOp = "inArray"
	OpIsBefore ConditionOp = "isBefore"
	OpAnd      ConditionOp = "and"
	OpNot      ConditionOp = "not"
	OpNever    ConditionOp = "never"
)

// NowRef is the sentinel reference, usable as the right-hand side of an
// isBefore condition, that resolves to the evaluation-time clock rather
// than any stored value.
const NowRef = "$now"

// DateLayout is the calendar-date format used by DATE field values.
const DateLayout = "2006-01-02"

// Condition is a boolean expression over a declaration snapshot,
// represented as a tagged-union tree so configurations can ship it as
// plain JSON. Unknown or malformed nodes evaluate to false.
type Condition struct {
	Op ConditionOp `json:"op"`

	// Field is the declaration field the leaf ops read.
	Field string `json:"field,omitempty"`

	// Value is the comparison operand for eq.
	Value any `json:"value,omitempty"`

	// Values are the allowed operands for inArray.
	Values []any `json:"values,omitempty"`

	// Other is the right-hand side of isBefore: NowRef, a literal
	// calendar date, or another field id.
	Other string `json:"other,omitempty"`

	// Conditions are the operands of and.
	Conditions []Condition `json:"conditions,omitempty"`

	// Condition is the operand of not.
	Condition *Condition `json:"condition,omitempty"`
}

// Convenience constructors, used mostly by configuration builders and tests.

func Eq(field string, value any) Condition {
	return Condition{Op: OpEq, Field: field, Value: value}
}

func InArray(field string, values ...any) Condition {
	return Condition{Op: OpInArray, Field: field, Values: values}
}

func IsBefore(field, other string) Condition {
	return Condition{Op: OpIsBefore, Field: field, Other: other}
}

func And(conds ...Condition) Condition {
	return Condition{Op: OpAnd, Conditions: conds}
}

func Not(cond Condition) Condition {
	return Condition{Op: OpNot, Condition: &cond}
}

func Never() Condition {
	return Condition{Op: OpNever}
}

// Evaluate interprets the condition against a declaration snapshot.
// now supplies the clock for NowRef comparisons; dates compare as calendar
// instants. A leaf op over an absent field value is false (and therefore
// true under not).
func Evaluate(cond Condition, decl Declaration, now time.Time) bool {
	switch cond.Op {
	case OpNever:
		return false
	case OpAnd:
		for _, c := range cond.Conditions {
			if !Evaluate(c, decl, now) {
				return false
			}
		}
		return true
	case OpNot:
		if cond.Condition == nil {
			return false
		}
		return !Evaluate(*cond.Condition, decl, now)
	case OpEq:
		v, ok := decl[cond.Field]
		if !ok {
			return false
		}
		return looseEqual(v, cond.Value)
	case OpInArray:
		v, ok := decl[cond.Field]
		if !ok {
			return false
		}
		for _, want := range cond.Values {
			if looseEqual(v, want) {
				return true
			}
		}
		return false
	case OpIsBefore:
		left, ok := dateValue(decl, cond.Field)
		if !ok {
			return false
		}
		right, ok := resolveDateRef(cond.Other, decl, now)
		if !ok {
			return false
		}
		return left.Before(right)
	default:
		return false
	}
}

// IsFieldVisible evaluates a field's conditionals against the current
// declaration snapshot. A field with no SHOW or HIDE conditionals is
// visible; SHOW conditionals must all hold, and any holding HIDE wins.
func IsFieldVisible(field Field, decl Declaration, now time.Time) bool {
	for _, c := range field.Conditionals {
		switch c.Type {
		case ConditionalShow:
			if !Evaluate(c.Condition, decl, now) {
				return false
			}
		case ConditionalHide:
			if Evaluate(c.Condition, decl, now) {
				return false
			}
		}
	}
	return true
}

// looseEqual compares a declaration value with a condition operand under
// JSON-shaped typing: numbers compare as float64, everything else by
// direct equality.
func looseEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// dateValue reads a calendar date from a declaration field.
func dateValue(decl Declaration, field string) (time.Time, bool) {
	raw, ok := decl[field].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// resolveDateRef resolves the right-hand side of an isBefore: the clock,
// a literal date, or another declaration field.
func resolveDateRef(ref string, decl Declaration, now time.Time) (time.Time, bool) {
	if ref == NowRef {
		return now, true
	}
	if t, err := time.Parse(DateLayout, ref); err == nil {
		return t, true
	}
	return dateValue(decl, ref)
}
