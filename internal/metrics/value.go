package metrics

// ValueKind discriminates the variants of a GaugeValue.
type ValueKind int

const (
	// KindInvalid is the zero value; such gauges are skipped when reporting.
	KindInvalid ValueKind = iota

	// KindInt64 marks an integral value, rendered without a fractional part.
	KindInt64

	// KindFloat64 marks a fractional value, rendered with two decimal digits.
	KindFloat64

	// KindString marks a non-numeric value; it produces no output line.
	KindString
)

// GaugeValue is a tagged union over the value types a gauge may report.
//
// The reporter decides formatting from the kind rather than inspecting runtime
// types: integral values render as plain decimals, fractional values with two
// digits after a locale-invariant decimal point, and anything else is skipped.
type GaugeValue struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// Int64Value wraps an integral gauge reading.
func Int64Value(v int64) GaugeValue {
	return GaugeValue{kind: KindInt64, i: v}
}

// Float64Value wraps a fractional gauge reading.
func Float64Value(v float64) GaugeValue {
	return GaugeValue{kind: KindFloat64, f: v}
}

// StringValue wraps a non-numeric gauge reading. It is accepted so callers can
// register arbitrary gauges, but the reporter emits nothing for it.
func StringValue(v string) GaugeValue {
	return GaugeValue{kind: KindString, s: v}
}

// Kind returns the variant tag of the value.
func (v GaugeValue) Kind() ValueKind {
	return v.kind
}

// Int64 returns the integral reading. Valid only when Kind is KindInt64.
func (v GaugeValue) Int64() int64 {
	return v.i
}

// Float64 returns the fractional reading. Valid only when Kind is KindFloat64.
func (v GaugeValue) Float64() float64 {
	return v.f
}

// String returns the string reading. Valid only when Kind is KindString.
func (v GaugeValue) String() string {
	return v.s
}
