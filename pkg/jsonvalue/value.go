// Package jsonvalue provides an explicit, ordered JSON value type.
//
// [Value] is a tagged union over the six JSON kinds. Unlike decoding into
// `any`, it keeps object keys in document order and number literals exactly
// as written, so a document that is parsed, patched and printed again only
// changes where it was edited.
//
// # Ownership
//
// Values returned by accessors such as [Value.Items] and [Value.Members] are
// shallow copies of the slice headers; nested values still share storage.
// Call [Value.Clone] before mutating through [Value.Set], [Value.SetIndex],
// [Value.FieldRef] or [Value.IndexRef] when the original must stay intact.
//
// # Usage
//
//	v, err := jsonvalue.Parse([]byte(`{"a": {"b": 1}}`))
//	b, _ := v.Get("a")
//	fmt.Println(b.Kind())              // object
//	fmt.Println(jsonvalue.Pretty(v))   // 2-space indented text
package jsonvalue

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// Kind identifies which JSON type a Value holds.
type Kind uint8

// JSON kinds. The zero Value has KindNull.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

// String returns the JSON name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is a single key/value entry of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON value. The zero Value is JSON null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string content, or the number literal
	items   []Value
	members []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Int returns a JSON number holding i.
func Int(i int64) Value { return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)} }

// Float returns a JSON number holding f. NaN and infinities are not
// representable in JSON and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number returns a JSON number with the given literal text. The literal is
// not validated; use [Parse] for untrusted input.
func Number(n json.Number) Value { return Value{kind: KindNumber, text: string(n)} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Array returns a JSON array of items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object with members in the given order. Later
// duplicates overwrite earlier ones in place.
func Object(members ...Member) Value {
	v := Value{kind: KindObject, members: make([]Member, 0, len(members))}
	for _, m := range members {
		v.Set(m.Key, m.Value)
	}
	return v
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsStructured reports whether v is an array or an object.
func (v Value) IsStructured() bool { return v.kind == KindArray || v.kind == KindObject }

// IsScalar reports whether v is null, a boolean, a number or a string.
func (v Value) IsScalar() bool { return !v.IsStructured() }

// Bool returns the boolean held by v, or false for other kinds.
func (v Value) Bool() bool { return v.kind == KindBool && v.boolean }

// Text returns the content of a string value, or "" for other kinds.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.text
}

// Literal returns the literal text of a number value, or "" for other kinds.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.text
}

// Float64 returns a number value as float64.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	return f, err == nil
}

// Int64 returns a number value as int64 when its literal is an integer.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.ParseInt(v.text, 10, 64)
	return i, err == nil
}

// Len returns the number of array items or object members, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Index returns the i-th array item. It returns false when v is not an
// array or i is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Get returns the member named key of an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	if i := v.memberIndex(key); i >= 0 {
		return v.members[i].Value, true
	}
	return Value{}, false
}

// Items returns the items of an array, or nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.items)
}

// Members returns the members of an object in order, or nil for other kinds.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return slices.Clone(v.members)
}

// Keys returns the member keys of an object in order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

func (v Value) memberIndex(key string) int {
	for i, m := range v.members {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// Set assigns x to key, keeping the position of an existing key and
// appending new keys. Set turns a non-object v into an empty object first.
func (v *Value) Set(key string, x Value) {
	if v.kind != KindObject {
		*v = Value{kind: KindObject}
	}
	if i := v.memberIndex(key); i >= 0 {
		v.members[i].Value = x
		return
	}
	v.members = append(v.members, Member{Key: key, Value: x})
}

// SetIndex assigns x to item i. Indices past the end grow the array,
// padding with nulls. SetIndex turns a non-array v into an empty array first
// and ignores negative indices.
func (v *Value) SetIndex(i int, x Value) {
	if i < 0 {
		return
	}
	if v.kind != KindArray {
		*v = Value{kind: KindArray, items: []Value{}}
	}
	for len(v.items) <= i {
		v.items = append(v.items, Value{})
	}
	v.items[i] = x
}

// FieldRef returns a pointer to the value stored under key, or nil when v is
// not an object or has no such key. The pointer aliases v's storage.
func (v *Value) FieldRef(key string) *Value {
	if v.kind != KindObject {
		return nil
	}
	if i := v.memberIndex(key); i >= 0 {
		return &v.members[i].Value
	}
	return nil
}

// IndexRef returns a pointer to item i, or nil when v is not an array or i is
// out of range. The pointer aliases v's storage.
func (v *Value) IndexRef(i int) *Value {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return nil
	}
	return &v.items[i]
}

// Clone returns a deep copy of v that shares no storage with it.
func (v Value) Clone() Value {
	out := Value{kind: v.kind, boolean: v.boolean, text: v.text}
	switch v.kind {
	case KindArray:
		out.items = make([]Value, len(v.items))
		for i, it := range v.items {
			out.items[i] = it.Clone()
		}
	case KindObject:
		out.members = make([]Member, len(v.members))
		for i, m := range v.members {
			out.members[i] = Member{Key: m.Key, Value: m.Value.Clone()}
		}
	}
	return out
}

// Equal reports whether v and o are the same JSON value. Object comparison
// ignores member order; numbers compare by literal first and numerically
// second, so 1 and 1.0 are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == o.boolean
	case KindString:
		return v.text == o.text
	case KindNumber:
		if v.text == o.text {
			return true
		}
		a, okA := v.Float64()
		b, okB := o.Float64()
		return okA && okB && a == b
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.members) != len(o.members) {
			return false
		}
		for _, m := range v.members {
			other, ok := o.Get(m.Key)
			if !ok || !m.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}
