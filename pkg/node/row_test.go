package node

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want string
	}{
		{
			name: "empty",
			rows: nil,
			want: "{}",
		},
		{
			name: "bare number",
			rows: []Row{Scalar(jsonvalue.Int(42))},
			want: "42",
		},
		{
			name: "bare string",
			rows: []Row{Scalar(jsonvalue.String("hello"))},
			want: `"hello"`,
		},
		{
			name: "bare null",
			rows: []Row{Scalar(jsonvalue.Null())},
			want: "null",
		},
		{
			name: "single keyed row stays an object",
			rows: []Row{Keyed("a", jsonvalue.Int(1))},
			want: "{\n  \"a\": 1\n}",
		},
		{
			name: "structured rows skipped",
			rows: []Row{
				Keyed("a", jsonvalue.Int(1)),
				Keyed("b", jsonvalue.MustParse(`{"nested": true}`)),
			},
			want: "{\n  \"a\": 1\n}",
		},
		{
			name: "order kept",
			rows: []Row{
				Keyed("z", jsonvalue.Bool(true)),
				Keyed("a", jsonvalue.String("x")),
				Keyed("list", jsonvalue.MustParse(`[1]`)),
				Keyed("m", jsonvalue.Null()),
			},
			want: "{\n  \"z\": true,\n  \"a\": \"x\",\n  \"m\": null\n}",
		},
		{
			name: "only structured rows",
			rows: []Row{Keyed("o", jsonvalue.MustParse(`{}`))},
			want: "{}",
		},
		{
			name: "keyless rows among keyed rows are dropped",
			rows: []Row{Scalar(jsonvalue.Int(1)), Keyed("k", jsonvalue.Int(2))},
			want: "{\n  \"k\": 2\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.rows); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeScalarMatchesPretty(t *testing.T) {
	scalars := []jsonvalue.Value{
		jsonvalue.Null(),
		jsonvalue.Bool(false),
		jsonvalue.Float(3.25),
		jsonvalue.String(`quote " and <tag>`),
	}
	for _, v := range scalars {
		if got, want := Normalize([]Row{{Value: v}}), jsonvalue.Pretty(v); got != want {
			t.Errorf("Normalize(%s) = %q, want %q", v, got, want)
		}
	}
}

func TestNormalizeOutputParses(t *testing.T) {
	rows := []Row{
		Keyed("s", jsonvalue.String("line\nbreak")),
		Keyed("n", jsonvalue.MustParse(`1e3`)),
	}
	if _, err := jsonvalue.ParseString(Normalize(rows)); err != nil {
		t.Errorf("Normalize output does not parse: %v", err)
	}
}

func TestRowsFromValue(t *testing.T) {
	t.Run("object keeps structured entries", func(t *testing.T) {
		rows := RowsFromValue(jsonvalue.MustParse(`{"a": 1, "b": {"c": 2}}`))
		if len(rows) != 2 {
			t.Fatalf("len = %d, want 2", len(rows))
		}
		if rows[0].KeyName() != "a" || rows[1].KeyName() != "b" {
			t.Errorf("keys = %s,%s", rows[0].KeyName(), rows[1].KeyName())
		}
		for _, r := range rows {
			if r.Type != DefaultType {
				t.Errorf("row %s type = %s, want %s", r.KeyName(), r.Type, DefaultType)
			}
		}
		if !rows[1].Value.IsStructured() {
			t.Error("structured entry should be kept")
		}
	})

	t.Run("array keyed by index", func(t *testing.T) {
		rows := RowsFromValue(jsonvalue.MustParse(`["x", "y"]`))
		if len(rows) != 2 || rows[1].KeyName() != "1" {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("scalar is one keyless row", func(t *testing.T) {
		rows := RowsFromValue(jsonvalue.String("abc"))
		if len(rows) != 1 || rows[0].HasKey() {
			t.Fatalf("rows = %+v", rows)
		}
		if rows[0].Value.Text() != "abc" {
			t.Errorf("value = %s", rows[0].Value)
		}
	})

	t.Run("empty object has no rows", func(t *testing.T) {
		if rows := RowsFromValue(jsonvalue.Object()); len(rows) != 0 {
			t.Errorf("rows = %+v", rows)
		}
	})
}

func TestScalarRows(t *testing.T) {
	rows := ScalarRows(jsonvalue.MustParse(`{"a": 1, "b": [1], "c": "x"}`))
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].Type != "number" || rows[1].Type != "string" {
		t.Errorf("types = %s,%s", rows[0].Type, rows[1].Type)
	}
	if got := ScalarRows(jsonvalue.MustParse(`[1, 2]`)); got != nil {
		t.Errorf("array rows = %+v, want nil", got)
	}
	if got := ScalarRows(jsonvalue.Bool(true)); len(got) != 1 || got[0].HasKey() {
		t.Errorf("scalar rows = %+v", got)
	}
}

func TestRowJSON(t *testing.T) {
	rows := []Row{Scalar(jsonvalue.Int(1)), Keyed("k", jsonvalue.String("v"))}
	data, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `[{"key":null,"value":1,"type":"number"},{"key":"k","value":"v","type":"string"}]`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back []Row
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !Equal(rows, back) {
		t.Errorf("round trip = %+v", back)
	}
}
