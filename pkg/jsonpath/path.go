// Package jsonpath encodes structural paths into JSON documents.
//
// A [Path] is an ordered list of segments from the document root to a node.
// Each [Segment] is either an array index or an object key. Paths have a
// single canonical text form:
//
//	$                 the root
//	$["a"][0]["b"]    key "a", index 0, key "b"
//
// Integer segments are written bare; key segments are JSON string literals,
// so keys containing quotes, backslashes or the sequence "][" survive the
// round trip. [Deserialize] is the exact inverse of [Serialize] and rejects
// anything Serialize could not have produced.
//
// This is not a JSONPath query language: there are no wildcards, filters or
// slices, only exact addressing.
package jsonpath

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
)

// Root is the text form of the empty path.
const Root = "$"

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a key segment.
func Key(k string) Segment { return Segment{key: k} }

// Index returns an index segment. Index panics if i is negative.
func Index(i int) Segment {
	if i < 0 {
		panic(fmt.Sprintf("jsonpath: negative index %d", i))
	}
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether s addresses an array item.
func (s Segment) IsIndex() bool { return s.isIndex }

// Key returns the key of a key segment. For an index segment it returns the
// decimal form of the index.
func (s Segment) Key() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Index returns the index of an index segment, or -1 for a key segment.
func (s Segment) Index() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

// String returns the bracket-free text of the segment: digits for an index,
// a quoted JSON string for a key.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return jsonvalue.Quote(s.key)
}

// Path is a sequence of segments from the root to a node. The nil Path is
// the root.
type Path []Segment

// Of builds a Path from strings (keys) and ints (indices). It panics on any
// other type or on a negative int.
func Of(parts ...any) Path {
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			p = append(p, Key(v))
		case int:
			p = append(p, Index(v))
		default:
			panic(fmt.Sprintf("jsonpath: unsupported segment type %T", part))
		}
	}
	return p
}

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Append returns a new Path with segs added. p is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Parent returns the path without its last segment. The parent of the root
// is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p[:len(p)-1])
}

// Last returns the final segment of p.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Equal reports whether p and o have the same segments.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// String returns the canonical text form of p.
func (p Path) String() string { return Serialize(p) }

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(Serialize(p)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := Deserialize(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Serialize returns the canonical text form of p: "$" for the root,
// otherwise "$" followed by one bracket group per segment.
func Serialize(p Path) string {
	if len(p) == 0 {
		return Root
	}
	var b strings.Builder
	b.WriteString(Root)
	for _, s := range p {
		b.WriteByte('[')
		b.WriteString(s.String())
		b.WriteByte(']')
	}
	return b.String()
}
