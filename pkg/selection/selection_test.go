package selection

import (
	"sync"
	"testing"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/graph"
	"github.com/matzehuels/jsonlens/pkg/jsonpath"
	"github.com/matzehuels/jsonlens/pkg/jsonvalue"
	"github.com/matzehuels/jsonlens/pkg/node"
)

func load(t *testing.T, doc string) *Store {
	t.Helper()
	s := New()
	s.Load(graph.Build(jsonvalue.MustParse(doc)))
	return s
}

func TestSelect(t *testing.T) {
	s := load(t, `{"a": {"b": 1}}`)

	if _, ok := s.Selected(); ok {
		t.Fatal("new store should have no selection")
	}

	n, err := s.Select("2")
	if err != nil {
		t.Fatalf("Select(2) error: %v", err)
	}
	if n.Path.String() != `$["a"]` {
		t.Errorf("selected path = %s", n.Path)
	}

	got, ok := s.Selected()
	if !ok || got.ID != "2" {
		t.Errorf("Selected() = %+v, %v", got, ok)
	}
}

func TestSelectErrors(t *testing.T) {
	if _, err := New().Select("1"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Select without graph error = %v", err)
	}

	s := load(t, `{}`)
	if _, err := s.Select("9"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Select(9) error = %v", err)
	}
	if _, err := s.Select(""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Select(\"\") error = %v", err)
	}
}

func TestSelectPath(t *testing.T) {
	s := load(t, `{"list": [{"x": 1}]}`)
	n, err := s.SelectPath(jsonpath.Of("list", 0))
	if err != nil {
		t.Fatalf("SelectPath error: %v", err)
	}
	if n.Label != "[0]" {
		t.Errorf("label = %s", n.Label)
	}
	if _, err := s.SelectPath(jsonpath.Of("missing")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SelectPath(missing) error = %v", err)
	}
}

func TestReplaceRows(t *testing.T) {
	s := load(t, `{"a": {"b": 1}}`)

	rows := []node.Row{node.Keyed("b", jsonvalue.Int(2))}
	if err := s.ReplaceRows(rows); !errors.Is(err, errors.ErrCodeNoSelection) {
		t.Errorf("ReplaceRows without selection error = %v", err)
	}

	if _, err := s.Select("2"); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceRows(rows); err != nil {
		t.Fatalf("ReplaceRows error: %v", err)
	}
	rows[0] = node.Keyed("c", jsonvalue.Null())

	n, _ := s.Selected()
	want := []node.Row{node.Keyed("b", jsonvalue.Int(2))}
	if !node.Equal(n.Rows, want) {
		t.Errorf("rows = %+v, want %+v", n.Rows, want)
	}
}

func TestSelectedIsACopy(t *testing.T) {
	s := load(t, `{"a": 1}`)
	if _, err := s.Select("1"); err != nil {
		t.Fatal(err)
	}
	n, _ := s.Selected()
	n.Rows[0] = node.Scalar(jsonvalue.Null())

	again, _ := s.Selected()
	if again.Rows[0].KeyName() != "a" {
		t.Error("mutating the returned node changed the store")
	}
}

func TestLoadKeepsSelectionByPath(t *testing.T) {
	s := load(t, `{"a": {"b": 1}, "c": {"d": 2}}`)
	if _, err := s.Select("3"); err != nil {
		t.Fatal(err)
	}

	// "a" is gone, so "c" moves from ID 3 to ID 2.
	s.Load(graph.Build(jsonvalue.MustParse(`{"c": {"d": 3}}`)))
	n, ok := s.Selected()
	if !ok || n.ID != "2" || n.Path.String() != `$["c"]` {
		t.Errorf("Selected() after reload = %+v, %v", n, ok)
	}

	s.Load(graph.Build(jsonvalue.MustParse(`{}`)))
	if _, ok := s.Selected(); ok {
		t.Error("selection should clear when its path disappears")
	}
}

func TestClearAndNodes(t *testing.T) {
	s := load(t, `{"a": [1, 2]}`)
	if got := len(s.Nodes()); got != 4 {
		t.Errorf("len(Nodes()) = %d, want 4", got)
	}
	if _, err := s.Select("1"); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if _, ok := s.Selected(); ok {
		t.Error("Clear should drop the selection")
	}
	if s.Graph() == nil {
		t.Error("Clear should keep the graph")
	}
	if New().Nodes() != nil {
		t.Error("empty store should have no nodes")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := load(t, `{"a": {"b": 1}, "c": {"d": 2}}`)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"1", "2", "3"}[i%3]
			for j := 0; j < 50; j++ {
				_, _ = s.Select(id)
				_, _ = s.Selected()
				_ = s.ReplaceRows([]node.Row{node.Keyed("k", jsonvalue.Int(int64(j)))})
				_ = s.Nodes()
			}
		}(i)
	}
	wg.Wait()
}
