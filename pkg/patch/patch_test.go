package patch

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		path  jsonpath.Path
		value string
		want  string
	}{
		{
			name:  "replace nested scalar",
			doc:   `{"a": {"b": 1}}`,
			path:  jsonpath.Of("a", "b"),
			value: `2`,
			want:  `{"a": {"b": 2}}`,
		},
		{
			name:  "auto-vivify intermediate objects",
			doc:   `{}`,
			path:  jsonpath.Of("x", "y"),
			value: `5`,
			want:  `{"x": {"y": 5}}`,
		},
		{
			name:  "replace whole subtree",
			doc:   `{"a": {"b": {"c": [1, 2, 3]}, "keep": true}}`,
			path:  jsonpath.Of("a", "b"),
			value: `"flat"`,
			want:  `{"a": {"b": "flat", "keep": true}}`,
		},
		{
			name:  "type change scalar to object",
			doc:   `{"n": 1}`,
			path:  jsonpath.Of("n"),
			value: `{"deep": [null]}`,
			want:  `{"n": {"deep": [null]}}`,
		},
		{
			name:  "array item",
			doc:   `{"list": [{"id": 1}, {"id": 2}]}`,
			path:  jsonpath.Of("list", 1, "id"),
			value: `20`,
			want:  `{"list": [{"id": 1}, {"id": 20}]}`,
		},
		{
			name:  "array grows with null padding",
			doc:   `{"list": [1]}`,
			path:  jsonpath.Of("list", 3),
			value: `4`,
			want:  `{"list": [1, null, null, 4]}`,
		},
		{
			name:  "missing array item is vivified as object",
			doc:   `{"list": []}`,
			path:  jsonpath.Of("list", 0, "name"),
			value: `"x"`,
			want:  `{"list": [{"name": "x"}]}`,
		},
		{
			name:  "index on object uses decimal key",
			doc:   `{"m": {"0": "zero"}}`,
			path:  jsonpath.Of("m", 0),
			value: `"ZERO"`,
			want:  `{"m": {"0": "ZERO"}}`,
		},
		{
			name:  "scalar intermediate becomes object",
			doc:   `{"a": 1}`,
			path:  jsonpath.Of("a", "b"),
			value: `true`,
			want:  `{"a": {"b": true}}`,
		},
		{
			name:  "new key appended last",
			doc:   `{"z": 1, "a": 2}`,
			path:  jsonpath.Of("m"),
			value: `3`,
			want:  `{"z": 1, "a": 2, "m": 3}`,
		},
		{
			name:  "root-level array",
			doc:   `[{"a": 1}, {"a": 2}]`,
			path:  jsonpath.Of(0),
			value: `{"a": 10}`,
			want:  `[{"a": 10}, {"a": 2}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := jsonvalue.MustParse(tt.doc)
			got := Apply(doc, tt.path, jsonvalue.MustParse(tt.value))
			want := jsonvalue.MustParse(tt.want)
			if diff := cmp.Diff(want.String(), got.String()); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyPreservesKeyOrder(t *testing.T) {
	doc := jsonvalue.MustParse(`{"z": 1, "b": {"y": 1, "x": 2}, "a": 3}`)
	got := Apply(doc, jsonpath.Of("b", "y"), jsonvalue.Int(9))
	if got.String() != `{"z":1,"b":{"y":9,"x":2},"a":3}` {
		t.Errorf("Apply() = %s", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	doc := jsonvalue.MustParse(`{"a": {"b": 1}, "list": [1, 2]}`)
	snapshot := doc.Clone()
	before := doc.String()

	replacement := jsonvalue.MustParse(`{"c": [1]}`)
	got := Apply(doc, jsonpath.Of("a", "b"), replacement)
	got = Apply(got, jsonpath.Of("list", 5), jsonvalue.Int(6))

	if doc.String() != before {
		t.Errorf("input mutated: %s, want %s", doc, before)
	}
	if !cmp.Equal(snapshot, doc) {
		t.Error("input no longer deep-equals its snapshot")
	}

	// Mutating the result must not reach the replacement value either.
	got.FieldRef("a").FieldRef("b").FieldRef("c").SetIndex(0, jsonvalue.String("x"))
	if replacement.String() != `{"c":[1]}` {
		t.Errorf("replacement aliased into result: %s", replacement)
	}
}

func TestApplyRootIsNoop(t *testing.T) {
	docs := []string{`{"a": 1}`, `[1, 2]`, `"s"`, `null`}
	for _, d := range docs {
		doc := jsonvalue.MustParse(d)
		got := Apply(doc, nil, jsonvalue.MustParse(`{"replaced": true}`))
		if !cmp.Equal(doc, got) {
			t.Errorf("Apply(%s, $) = %s, want unchanged", d, got)
		}
	}
}

func TestApplyString(t *testing.T) {
	doc := jsonvalue.MustParse(`{"a": {"b": 1}}`)

	got, err := ApplyString(doc, `$["a"]["b"]`, jsonvalue.Int(2))
	if err != nil {
		t.Fatalf("ApplyString error: %v", err)
	}
	if got.String() != `{"a":{"b":2}}` {
		t.Errorf("ApplyString = %s", got)
	}

	got, err = ApplyString(doc, "$", jsonvalue.Int(2))
	if err != nil {
		t.Fatalf("ApplyString($) error: %v", err)
	}
	if !cmp.Equal(doc, got) {
		t.Errorf("ApplyString($) = %s, want unchanged", got)
	}

	got, err = ApplyString(doc, `$[a]`, jsonvalue.Int(2))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("ApplyString malformed path error = %v, want INVALID_PATH", err)
	}
	if !cmp.Equal(doc, got) {
		t.Errorf("ApplyString malformed path returned %s, want original", got)
	}
}
