// Package patch replaces a single subtree of a JSON document.
//
// [Apply] is the only operation: given a document, a [jsonpath.Path] and a
// replacement value, it returns a new document in which the value at that
// path is the replacement and everything else is unchanged. The input
// document is never modified; Apply deep-clones before it writes, so callers
// can keep the previous snapshot around and simply drop the result if a
// later step fails.
//
// Missing intermediate containers are created as empty objects. There is no
// insertion, deletion or splicing, and no check that the replacement has the
// same shape as what it replaces.
package patch

import (
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
)

// Apply returns a copy of root with the value at p replaced by v.
//
// The root path is a no-op: root is returned unchanged. Whole-document
// replacement goes through the document store directly.
//
// Container rules while walking p:
//   - an index segment on an array addresses that item; writing past the end
//     grows the array, padding with nulls
//   - an index segment on an object uses the decimal index as the key
//   - a missing location, or one whose value cannot hold the segment (a
//     scalar, or an array addressed by key), becomes an empty object
func Apply(root jsonvalue.Value, p jsonpath.Path, v jsonvalue.Value) jsonvalue.Value {
	if p.IsRoot() {
		return root
	}

	out := root.Clone()
	cur := &out
	for _, seg := range p[:len(p)-1] {
		cur = descend(cur, seg)
	}
	assign(cur, p[len(p)-1], v.Clone())
	return out
}

// ApplyString is Apply with the path given in its text form. Malformed path
// text returns an errors.ErrCodeInvalidPath error and leaves root untouched.
func ApplyString(root jsonvalue.Value, path string, v jsonvalue.Value) (jsonvalue.Value, error) {
	p, err := jsonpath.Deserialize(path)
	if err != nil {
		return root, err
	}
	return Apply(root, p, v), nil
}

// descend returns the child of cur addressed by seg, creating an empty
// object there first when the child is missing or cannot be walked into.
func descend(cur *jsonvalue.Value, seg jsonpath.Segment) *jsonvalue.Value {
	if seg.IsIndex() && cur.Kind() == jsonvalue.KindArray {
		if next := cur.IndexRef(seg.Index()); next != nil && next.IsStructured() {
			return next
		}
		cur.SetIndex(seg.Index(), jsonvalue.Object())
		return cur.IndexRef(seg.Index())
	}

	if next := cur.FieldRef(seg.Key()); next != nil && next.IsStructured() {
		return next
	}
	cur.Set(seg.Key(), jsonvalue.Object())
	return cur.FieldRef(seg.Key())
}

// assign overwrites the child of cur addressed by seg with v.
func assign(cur *jsonvalue.Value, seg jsonpath.Segment, v jsonvalue.Value) {
	if seg.IsIndex() && cur.Kind() == jsonvalue.KindArray {
		cur.SetIndex(seg.Index(), v)
		return
	}
	cur.Set(seg.Key(), v)
}
