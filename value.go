package inferskema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string contents or number literal
	items   []Value
	members []Member
}

// Member is one key/value pair of an object. Objects keep their input order.
type Member struct {
	Key   string
	Value Value
}

func Null() Value           { return Value{} }
func Bool(b bool) Value     { return Value{kind: KindBoolean, boolean: b} }
func String(s string) Value { return Value{kind: KindString, text: s} }
func Int(n int64) Value     { return Value{kind: KindInteger, text: strconv.FormatInt(n, 10)} }

// Float returns a fractional number value. Integral floats such as 2.0 still
// count as "number", matching how they read in JSON text ("2.0").
func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number returns a number value from a JSON number literal. A literal with a
// fraction or an exponent is a "number", anything else is an "integer".
func Number(literal string) Value {
	if strings.ContainsAny(literal, ".eE") {
		return Value{kind: KindNumber, text: literal}
	}
	return Value{kind: KindInteger, text: literal}
}

// Array returns an array value holding items in order.
func Array(items ...Value) Value {
	return Value{kind: KindArray, items: append([]Value(nil), items...)}
}

// Object returns an object value. A repeated key replaces the earlier value
// in place, so keys stay unique.
func Object(members ...Member) Value {
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: KindObject, members: out}
}

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.boolean }

// Text returns the string payload or the number literal; empty for other kinds.
func (v Value) Text() string { return v.text }

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Index returns the i-th array item.
func (v Value) Index(i int) Value { return v.items[i] }

// Member returns the i-th object member in input order.
func (v Value) Member(i int) Member { return v.members[i] }

// Keys returns object keys in input order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Lookup returns the value stored under key.
func (v Value) Lookup(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// FromAny converts a decoded Go value (as produced by encoding/json, with or
// without UseNumber) into a Value. Map keys are sorted to keep the result
// deterministic.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t.String()), nil
	case float64:
		return fromFloat(t)
	case float32:
		return fromFloat(float64(t))
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Number(strconv.FormatUint(t, 10)), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			iv, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			mv, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: k, Value: mv}
		}
		return Value{kind: KindObject, members: members}, nil
	}
	return Value{}, fmt.Errorf("inferskema: unsupported value type %T", x)
}

// fromFloat follows encoding/json decoding into any: whole numbers are
// integers, anything else is a number.
func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("inferskema: %v is not a JSON number", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f)), nil
	}
	return Float(f), nil
}
