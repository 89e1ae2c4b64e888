package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonlens/pkg/errors"
	"github.com/matzehuels/jsonlens/pkg/observability"
)

const sampleDoc = `{"name": "app", "config": {"port": 80, "debug": false}, "tags": ["a", "b"]}`

// testEnv isolates config and data directories and points the file backend
// at a temporary document.
type testEnv struct {
	dir   string
	store string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Cleanup(observability.Reset)
	return &testEnv{dir: dir, store: filepath.Join(dir, "doc.json")}
}

// run executes the root command with args and returns stdout and logs.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetArgs(append([]string{"--store-path", e.store}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, logs, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("%v: %v\nlogs: %s", args, err, logs)
	}
	return out
}

func (e *testEnv) load(t *testing.T, doc string) {
	t.Helper()
	src := filepath.Join(e.dir, "input.json")
	if err := os.WriteFile(src, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	e.mustRun(t, "load", src)
}

func TestLoadAndShow(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	stored, err := os.ReadFile(env.store)
	if err != nil {
		t.Fatalf("store file: %v", err)
	}
	if !strings.Contains(string(stored), "\n  \"config\": {") {
		t.Errorf("stored document not pretty printed:\n%s", stored)
	}

	out := env.mustRun(t, "show")
	if !strings.Contains(out, `"port": 80`) {
		t.Errorf("show output = %s", out)
	}
}

func TestLoadStdinRaw(t *testing.T) {
	env := newTestEnv(t)
	if _, logs, err := env.run(t, `{"a":1}`, "load", "--raw", "-"); err != nil {
		t.Fatalf("load: %v\n%s", err, logs)
	}
	out := env.mustRun(t, "show", "--raw")
	if strings.TrimSpace(out) != `{"a":1}` {
		t.Errorf("show --raw = %q", out)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, `{"a":`, "load", "-")
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v, want INVALID_DOCUMENT", err)
	}
	if _, statErr := os.Stat(env.store); !os.IsNotExist(statErr) {
		t.Error("invalid input should not be written")
	}
}

func TestShowWithoutDocument(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, "", "show")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
	if !strings.Contains(errors.UserMessage(err), "jsonlens load") {
		t.Errorf("message should suggest load: %s", errors.UserMessage(err))
	}
}

func TestNodes(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	out := env.mustRun(t, "nodes")
	for _, want := range []string{"root", "config", `$["config"]`, "tags [2]", "5 nodes"} {
		if !strings.Contains(out, want) {
			t.Errorf("nodes output missing %q:\n%s", want, out)
		}
	}
}

func TestNode(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	out := env.mustRun(t, "node", "2")
	if !strings.Contains(out, `"port": 80`) || strings.Contains(out, "name") {
		t.Errorf("node 2 = %s", out)
	}

	out = env.mustRun(t, "node", "--path", `$["tags"][1]`)
	if strings.TrimSpace(out) != `"b"` {
		t.Errorf("node --path = %q", out)
	}

	_, _, err := env.run(t, "", "node", "99")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing node err = %v", err)
	}
	_, _, err = env.run(t, "", "node", "--path", `$[`)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("bad path err = %v", err)
	}
}

func TestSetThroughEditor(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	out := env.mustRun(t, "set", `$["config"]`, `{"port": 8080, "debug": true}`)
	if !strings.Contains(out, `+    "port": 8080`) {
		t.Errorf("diff missing insertion:\n%s", out)
	}
	if !strings.Contains(out, "Saved") {
		t.Errorf("set output = %s", out)
	}

	shown := env.mustRun(t, "node", "2")
	if !strings.Contains(shown, `"port": 8080`) || !strings.Contains(shown, `"debug": true`) {
		t.Errorf("node after set = %s", shown)
	}
}

func TestSetRootKeepsNestedNodes(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	env.mustRun(t, "set", "$", `{"name": "renamed"}`)
	out := env.mustRun(t, "show")
	if !strings.Contains(out, `"renamed"`) || !strings.Contains(out, `"port": 80`) {
		t.Errorf("show after root set = %s", out)
	}
}

func TestSetThroughPatch(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	env.mustRun(t, "set", `$["config"]["port"]`, "9000")
	env.mustRun(t, "set", `$["extra"]["deep"]`, `"x"`)

	out := env.mustRun(t, "show")
	for _, want := range []string{`"port": 9000`, `"deep": "x"`} {
		if !strings.Contains(out, want) {
			t.Errorf("show missing %q:\n%s", want, out)
		}
	}
}

func TestSetDryRun(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)
	before, _ := os.ReadFile(env.store)

	out := env.mustRun(t, "set", "--dry-run", `$["name"]`, `"demo"`)
	if !strings.Contains(out, "Dry run") {
		t.Errorf("dry run output = %s", out)
	}

	after, _ := os.ReadFile(env.store)
	if !bytes.Equal(before, after) {
		t.Error("dry run wrote the document")
	}
}

func TestSetErrors(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"malformed value", []string{"set", `$["config"]`, `{"port":`}, errors.ErrCodeMalformedEditText},
		{"malformed path", []string{"set", `$["config"`, `1`}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(t, "", tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSetLenientPath(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	env.mustRun(t, "set", "--lenient", `$[config][port]`, "1")
	out := env.mustRun(t, "node", "2")
	if !strings.Contains(out, `"port": 1`) {
		t.Errorf("node after lenient set = %s", out)
	}
}

func TestPathCommands(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"path", "encode", "deps", "0", "name"}, `$["deps"][0]["name"]`},
		{[]string{"path", "encode", "--keys", "0"}, `$["0"]`},
		{[]string{"path", "encode"}, "$"},
	}
	for _, tt := range tests {
		if got := strings.TrimSpace(env.mustRun(t, tt.args...)); got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	out := env.mustRun(t, "path", "decode", `$["a\"b"][3]`)
	if !strings.Contains(out, `"a\"b"`) || !strings.Contains(out, "3") {
		t.Errorf("decode output = %s", out)
	}

	_, _, err := env.run(t, "", "path", "decode", `$[x]`)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("decode malformed err = %v", err)
	}
	if out := env.mustRun(t, "path", "decode", "--lenient", `$[x]`); !strings.Contains(out, `"x"`) {
		t.Errorf("lenient decode = %s", out)
	}
}

func TestGraphDOT(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	out := env.mustRun(t, "graph", "--highlight", `$["config"]`, "--paths")
	for _, want := range []string{"digraph G {", "penwidth=3", `"1" -> "2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("graph output missing %q:\n%s", want, out)
		}
	}

	file := filepath.Join(env.dir, "doc.dot")
	env.mustRun(t, "graph", "-o", file)
	data, err := os.ReadFile(file)
	if err != nil || !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("graph file = %q, %v", data, err)
	}

	out = env.mustRun(t, "graph", "--format", "json")
	if !strings.Contains(out, `"nodes"`) || !strings.Contains(out, `"label": "config"`) {
		t.Errorf("graph json = %s", out)
	}

	_, _, err = env.run(t, "", "graph", "--format", "gif")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("gif err = %v", err)
	}
}

func TestGraphSVGUsesCache(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)
	file := filepath.Join(env.dir, "doc.svg")

	for i, want := range []string{"cached=false", "cached=true"} {
		_, logs, err := env.run(t, "", "-v", "graph", "-o", file)
		if err != nil {
			t.Fatalf("run %d: %v\n%s", i, err, logs)
		}
		if !strings.Contains(logs, want) {
			t.Errorf("run %d logs missing %q:\n%s", i, want, logs)
		}
	}
	data, err := os.ReadFile(file)
	if err != nil || !strings.Contains(string(data), "<svg") {
		t.Errorf("svg file = %.80q, %v", data, err)
	}

	_, logs, _ := env.run(t, "", "-v", "graph", "--no-cache", "-o", file)
	if !strings.Contains(logs, "cached=false") {
		t.Errorf("--no-cache should render again:\n%s", logs)
	}

	out := env.mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Cleared 1 cached renders") {
		t.Errorf("cache clear = %s", out)
	}
	if out := env.mustRun(t, "cache", "clear"); !strings.Contains(out, "Cache is empty") {
		t.Errorf("second cache clear = %s", out)
	}
	if got := strings.TrimSpace(env.mustRun(t, "cache", "path")); got != filepath.Join(env.dir, "cache", appName) {
		t.Errorf("cache path = %s", got)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct{ format, output, want string }{
		{"", "", "dot"},
		{"", "out.SVG", "svg"},
		{"png", "out.svg", "png"},
	}
	for _, tt := range tests {
		if got := resolveFormat(tt.format, tt.output); got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.output, got, tt.want)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "config", "show")
	for _, want := range []string{"[store]", `backend = "file"`, env.store} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	cfgPath := filepath.Join(env.dir, "custom", "config.toml")
	env.mustRun(t, "--config", cfgPath, "config", "init")
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config init did not write file: %v", err)
	}
	if got := strings.TrimSpace(env.mustRun(t, "--config", cfgPath, "config", "path")); got != cfgPath {
		t.Errorf("config path = %q", got)
	}

	_, _, err := env.run(t, "", "--config", cfgPath, "config", "init")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init err = %v", err)
	}
	env.mustRun(t, "--config", cfgPath, "config", "init", "--force")
}

func TestConfigFileSelectsBackend(t *testing.T) {
	env := newTestEnv(t)

	cfgPath := filepath.Join(env.dir, "config.toml")
	dbPath := filepath.Join(env.dir, "docs.db")
	cfg := "[store]\nbackend = \"sqlite\"\ndocument = \"alpha\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(env.dir, "input.json")
	if err := os.WriteFile(src, []byte(sampleDoc), 0o600); err != nil {
		t.Fatal(err)
	}

	// --store-path from run() now names the sqlite database.
	env.store = dbPath
	env.mustRun(t, "--config", cfgPath, "load", src)
	out := env.mustRun(t, "--config", cfgPath, "show")
	if !strings.Contains(out, `"name": "app"`) {
		t.Errorf("show from sqlite = %s", out)
	}

	_, _, err := env.run(t, "", "--config", cfgPath, "--doc", "beta", "show")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("other document err = %v, want NOT_FOUND", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "", "--store", "floppy", "show")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend err = %v", err)
	}

	_, _, err = env.run(t, "", "--config", filepath.Join(env.dir, "missing.toml"), "show")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing config err = %v", err)
	}
}

func TestVerboseLogsStoreTraffic(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	_, logs, err := env.run(t, "", "-v", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "store read") {
		t.Errorf("verbose logs missing store read:\n%s", logs)
	}
}

func TestVerboseLogsOperationProgress(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	_, logs, err := env.run(t, "", "-v", "set", `$["config"]["port"]`, "8080")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"set value", "via=patch", "added=1", "removed=1", "dry_run=false"} {
		if !strings.Contains(logs, want) {
			t.Errorf("set logs missing %q:\n%s", want, logs)
		}
	}

	_, logs, err = env.run(t, "", "-v", "set", "--dry-run", `$["config"]`, `{"port": 1}`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "via=editor") || !strings.Contains(logs, "dry_run=true") {
		t.Errorf("dry-run set logs:\n%s", logs)
	}

	_, logs, err = env.run(t, "", "-v", "nodes")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"built graph", "nodes=5", "edges=4"} {
		if !strings.Contains(logs, want) {
			t.Errorf("nodes logs missing %q:\n%s", want, logs)
		}
	}
}

func TestCompleteNodeRefs(t *testing.T) {
	env := newTestEnv(t)
	env.load(t, sampleDoc)

	c := New(&bytes.Buffer{}, LogInfo)
	c.SetOutput(&bytes.Buffer{})
	root := c.RootCommand()
	if err := root.PersistentFlags().Set("store-path", env.store); err != nil {
		t.Fatal(err)
	}
	cmd, _, err := root.Find([]string{"node"})
	if err != nil {
		t.Fatal(err)
	}
	cmd.SetContext(context.Background())

	got, directive := c.completeNodeRefs(cmd, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}
	if len(got) != 5 || got[1] != "2\t$[\"config\"]" {
		t.Errorf("id completions = %q", got)
	}

	if got, _ := c.completeNodeRefs(cmd, []string{"2"}, ""); len(got) != 0 {
		t.Errorf("completions after the argument = %q", got)
	}

	if err := cmd.Flags().Set("path", "true"); err != nil {
		t.Fatal(err)
	}
	got, _ = c.completeNodeRefs(cmd, nil, `$["t`)
	if len(got) != 3 || got[0] != `$["tags"]`+"\ttags [2]" {
		t.Errorf("path completions = %q", got)
	}
}
