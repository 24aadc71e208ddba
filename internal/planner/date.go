package planner

import (
	"math"
	"strconv"
)

// Date is an optional abstract timestamp. The zero value is unset.
//
// Dates are plain scalars; no calendar arithmetic is applied.
type Date struct {
	value float64
	set   bool
}

// Unset is the unset Date. It marks nodes that have not been planned.
var Unset = Date{}

// At returns a set Date holding v.
func At(v float64) Date {
	return Date{value: v, set: true}
}

// DateFromPtr converts a nullable document value into a Date.
func DateFromPtr(p *float64) Date {
	if p == nil {
		return Unset
	}
	return At(*p)
}

// IsSet reports whether d holds a value.
func (d Date) IsSet() bool {
	return d.set
}

// Value returns the scalar and whether it is set.
func (d Date) Value() (float64, bool) {
	return d.value, d.set
}

// Ptr returns a pointer to the scalar, or nil when unset.
func (d Date) Ptr() *float64 {
	if !d.set {
		return nil
	}
	v := d.value
	return &v
}

// Add shifts a set Date by delta. Unset stays unset.
func (d Date) Add(delta float64) Date {
	if !d.set {
		return d
	}
	return At(d.value + delta)
}

// Before reports whether both dates are set and d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.set && o.set && d.value < o.value
}

// Equal reports whether d and o are both unset or hold the same value.
func (d Date) Equal(o Date) bool {
	if d.set != o.set {
		return false
	}
	return !d.set || d.value == o.value
}

// Min returns the earlier of two set dates. An unset argument is ignored.
func (d Date) Min(o Date) Date {
	switch {
	case !d.set:
		return o
	case !o.set:
		return d
	default:
		return At(math.Min(d.value, o.value))
	}
}

func (d Date) String() string {
	if !d.set {
		return "-"
	}
	return formatNumber(d.value)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
