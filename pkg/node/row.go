// Package node holds the row representation of a graph node and converts it
// to and from the JSON text shown in the edit surface.
//
// A node is an ordered list of [Row] values. A single row without a key is a
// bare scalar node. Keyed rows are the direct scalar properties of an object
// node; nested objects and arrays live in their own nodes and are not part of
// the row list built from a document.
package node

import (
	"strconv"

	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
)

// DefaultType is the type tag given to rows rebuilt from edited text.
const DefaultType = "string"

// Row is one key/value line of a node.
type Row struct {
	Key   *string         `json:"key"`
	Value jsonvalue.Value `json:"value"`
	Type  string          `json:"type"`
}

// Keyed returns a row for an object property, tagged with the value's type.
func Keyed(key string, v jsonvalue.Value) Row {
	return Row{Key: &key, Value: v, Type: RowType(v)}
}

// Scalar returns a keyless row for a bare scalar node.
func Scalar(v jsonvalue.Value) Row {
	return Row{Value: v, Type: RowType(v)}
}

// HasKey reports whether the row belongs to an object property.
func (r Row) HasKey() bool { return r.Key != nil }

// KeyName returns the row key, or "" for a keyless row.
func (r Row) KeyName() string {
	if r.Key == nil {
		return ""
	}
	return *r.Key
}

// RowType returns the natural type tag of v: the JSON kind name.
func RowType(v jsonvalue.Value) string {
	return v.Kind().String()
}

// Normalize returns the JSON text a node is edited as.
//
//   - no rows: "{}"
//   - one keyless row: the row value on its own
//   - otherwise: an object of the keyed rows whose values are scalars, in
//     row order. Rows holding objects or arrays are left out, as are
//     keyless rows.
//
// Output is indented with two spaces.
func Normalize(rows []Row) string {
	if len(rows) == 0 {
		return "{}"
	}
	if len(rows) == 1 && !rows[0].HasKey() {
		return jsonvalue.Pretty(rows[0].Value)
	}

	obj := jsonvalue.Object()
	for _, r := range rows {
		if !r.HasKey() || r.Value.IsStructured() {
			continue
		}
		obj.Set(*r.Key, r.Value)
	}
	return jsonvalue.Pretty(obj)
}

// RowsFromValue rebuilds a node's rows from a saved value.
//
// Every top-level entry becomes a row tagged [DefaultType], whether it is a
// scalar or not: object members keep their keys, array items are keyed by
// their decimal index. A scalar becomes a single keyless row. Note that this
// keeps structured entries that [Normalize] would drop; see [ScalarRows] for
// the rule Normalize and the graph builder use.
func RowsFromValue(v jsonvalue.Value) []Row {
	switch v.Kind() {
	case jsonvalue.KindObject:
		members := v.Members()
		rows := make([]Row, len(members))
		for i, m := range members {
			key := m.Key
			rows[i] = Row{Key: &key, Value: m.Value, Type: DefaultType}
		}
		return rows
	case jsonvalue.KindArray:
		items := v.Items()
		rows := make([]Row, len(items))
		for i, it := range items {
			key := strconv.Itoa(i)
			rows[i] = Row{Key: &key, Value: it, Type: DefaultType}
		}
		return rows
	default:
		return []Row{{Value: v, Type: DefaultType}}
	}
}

// ScalarRows returns the rows a graph node for v shows: the scalar members
// of an object with their natural type tags, nothing for an array, and one
// keyless row for a scalar.
func ScalarRows(v jsonvalue.Value) []Row {
	switch v.Kind() {
	case jsonvalue.KindObject:
		var rows []Row
		for _, m := range v.Members() {
			if m.Value.IsStructured() {
				continue
			}
			rows = append(rows, Keyed(m.Key, m.Value))
		}
		return rows
	case jsonvalue.KindArray:
		return nil
	default:
		return []Row{Scalar(v)}
	}
}

// Equal reports whether two row lists have the same keys, values and tags.
func Equal(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].HasKey() != b[i].HasKey() || a[i].KeyName() != b[i].KeyName() {
			return false
		}
		if a[i].Type != b[i].Type || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}
