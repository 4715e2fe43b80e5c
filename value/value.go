// Package value defines Value, the tagged JSON-shaped value used as
// the wire ABI for tool arguments and tool results. It mirrors the shape of
// parsed JSON (null/bool/int/double/string/array/dict) but keeps its type
// tag explicit so callers can switch on Kind exhaustively instead of relying
// on Go's encoding/json "any" decoding rules (which never produce an int,
// only float64).
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Kind discriminates the variant carried by a Value.
type Kind int

const (
	// KindNull represents JSON null.
	KindNull Kind = iota
	// KindBool represents a JSON boolean.
	KindBool
	// KindInt represents a JSON number with no fractional part, stored as int64.
	KindInt
	// KindDouble represents a JSON number with a fractional part, stored as float64.
	KindDouble
	// KindString represents a JSON string.
	KindString
	// KindArray represents a JSON array of Values.
	KindArray
	// KindDict represents a JSON object as a string-keyed map of Values.
	KindDict
)

// String renders the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union carrying exactly one of the JSON-shaped
// variants. The zero Value is KindNull. Instances are never mutated after
// construction; Array and Dict element slices/maps are treated as owned by
// the Value that holds them and must not be modified by callers after
// construction.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	d      float64
	s      string
	arr    []Value
	dict   map[string]Value
	keyset []string // sorted keys for deterministic iteration/encoding
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double wraps a floating point number.
func Double(d float64) Value { return Value{kind: KindDouble, d: d} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values. The slice is copied defensively.
func Array(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindArray, arr: cp}
}

// Dict wraps a string-keyed map of Values. The map is copied defensively and
// its keys are kept in sorted order.
func Dict(m map[string]Value) Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: KindDict, dict: cp, keyset: keys}
}

// Kind reports the variant carried by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is KindNull.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether v is KindBool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload and whether v is KindInt.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsDouble returns the double payload and whether v is KindDouble.
func (v Value) AsDouble() (float64, bool) { return v.d, v.kind == KindDouble }

// AsString returns the string payload and whether v is KindString.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the array payload and whether v is KindArray.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsDict returns the dict payload and whether v is KindDict.
func (v Value) AsDict() (map[string]Value, bool) { return v.dict, v.kind == KindDict }

// Keys returns the dict's keys in sorted order, or nil if v is not a dict.
func (v Value) Keys() []string {
	if v.kind != KindDict {
		return nil
	}
	return v.keyset
}

// Get looks up a key in a dict Value. Returns the null Value and false if v
// is not a dict or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Null(), false
	}
	val, ok := v.dict[key]
	return val, ok
}

// MarshalJSON implements json.Marshaler, encoding each Kind to its natural
// JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindDouble:
		return json.Marshal(v.d)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		return json.Marshal(v.arr)
	case KindDict:
		buf := []byte{'{'}
		for idx, k := range v.keyset {
			if idx > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			vb, err := json.Marshal(v.dict[k])
			if err != nil {
				return nil, err
			}
			buf = append(buf, vb...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("value: unknown kind %v", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. JSON numbers with no fractional
// part and that fit in an int64 decode to KindInt; all other numbers decode
// to KindDouble. FromAny applies the same int-vs-double inference to decoded
// float64s; once constructed, a Value's kind never changes implicitly.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out, err := fromAny(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil
	case string:
		return String(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, el := range x {
			cv, err := fromAny(el)
			if err != nil {
				return Value{}, err
			}
			items[i] = cv
		}
		return Array(items...), nil
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, el := range x {
			cv, err := fromAny(el)
			if err != nil {
				return Value{}, err
			}
			m[k] = cv
		}
		return Dict(m), nil
	default:
		return Value{}, fmt.Errorf("value: unsupported decoded type %T", raw)
	}
}

