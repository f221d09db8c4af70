package domain

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
)

// ValueKind tags the scalar kind of a single dimension's value.
type ValueKind int

const (
	KindBoolean ValueKind = iota
	KindReal
	KindInteger
)

// Value is a tagged scalar of one of the ParamSpec dimension kinds.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Real    float64
	Integer int64
}

func BoolValue(v bool) Value    { return Value{Kind: KindBoolean, Bool: v} }
func RealValue(v float64) Value { return Value{Kind: KindReal, Real: v} }
func IntValue(v int64) Value    { return Value{Kind: KindInteger, Integer: v} }

// MarshalJSON emits the bare scalar (not a tagged object), since the
// objective-function child process and the wire format both expect a plain
// JSON value per dimension name.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBoolean:
		return sonic.Marshal(v.Bool)
	case KindReal:
		return sonic.Marshal(v.Real)
	case KindInteger:
		return sonic.Marshal(v.Integer)
	default:
		return nil, fmt.Errorf("value has unknown kind %d", v.Kind)
	}
}

// UnmarshalJSON infers bool vs. number from the raw token, and number vs.
// integer by exact round-trip (an integer-valued JSON number unmarshals as
// Integer so spec round-trips are exact for that common case).
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty value")
	}
	if trimmed[0] == 't' || trimmed[0] == 'f' {
		var b bool
		if err := sonic.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	}

	var asInt int64
	if err := sonic.Unmarshal(data, &asInt); err == nil {
		var asFloat float64
		if err := sonic.Unmarshal(data, &asFloat); err == nil && asFloat == float64(asInt) {
			*v = IntValue(asInt)
			return nil
		}
	}

	var f float64
	if err := sonic.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("value is neither bool nor number: %w", err)
	}
	*v = RealValue(f)
	return nil
}

// Candidate is an ordered mapping from dimension name to its value, in
// ParamSpec dimension order. Ordering matters only for presentation/log
// stability; equality and lookup are by name.
type Candidate struct {
	names  []string
	values map[string]Value
}

// NewCandidate builds a Candidate from parallel name/value slices, which
// must be the same length and in ParamSpec dimension order.
func NewCandidate(names []string, values []Value) Candidate {
	m := make(map[string]Value, len(names))
	for i, n := range names {
		m[n] = values[i]
	}
	return Candidate{names: append([]string(nil), names...), values: m}
}

// Get returns the value for a dimension name.
func (c Candidate) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns the dimension names in spec order.
func (c Candidate) Names() []string {
	return c.names
}

// With returns a copy of the candidate with dim replaced by value.
func (c Candidate) With(name string, value Value) Candidate {
	m := make(map[string]Value, len(c.values))
	for k, v := range c.values {
		m[k] = v
	}
	m[name] = value
	return Candidate{names: c.names, values: m}
}

// MarshalJSON renders the candidate as a compact JSON object in dimension
// order, matching the objective-function argv contract.
func (c Candidate) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := sonic.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		valBytes, err := sonic.Marshal(c.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the candidate as "name=value, ..." in dimension order, for
// logging and CLI display.
func (c Candidate) String() string {
	var buf bytes.Buffer
	for i, name := range c.names {
		if i > 0 {
			buf.WriteString(", ")
		}
		v := c.values[name]
		switch v.Kind {
		case KindBoolean:
			fmt.Fprintf(&buf, "%s=%t", name, v.Bool)
		case KindReal:
			fmt.Fprintf(&buf, "%s=%g", name, v.Real)
		case KindInteger:
			fmt.Fprintf(&buf, "%s=%d", name, v.Integer)
		}
	}
	return buf.String()
}

// UnmarshalJSON reconstructs a Candidate from a JSON object. The object is
// decoded into a map, so the key order of the source JSON is not kept: the
// candidate's Names() order is the map's iteration order, which is
// unspecified. Callers that need the spec order should not round-trip
// through this path but instead keep the originating ParamSpec's order.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	*c = Candidate{names: names, values: raw}
	return nil
}
