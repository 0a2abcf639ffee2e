package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/ingest"
	"github.com/matzehuels/gfabridge/pkg/sink/sqlite"
	"github.com/matzehuels/gfabridge/pkg/view"
)

const sampleGFA = "H\tVN:Z:1.0\n" +
	"S\tA\tACGTACGT\n" +
	"S\tB\tGGCC\n" +
	"S\tC\t*\n" +
	"L\tA\t+\tB\t-\t2M\n" +
	"L\tB\t-\tC\t+\t*\n" +
	"C\tA\t+\tC\t+\t0\t*\n" +
	"P\tP1\tA+,B-,C+\t2M,*\n" +
	"# trailing comment\n"

// setup isolates config and cache directories and writes the sample graph.
func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sample.gfa")
	if err := os.WriteFile(path, []byte(sampleGFA), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadJSON(t *testing.T) {
	path := setup(t)
	out, err := run(t, "load", "--json", path)
	if err != nil {
		t.Fatal(err)
	}
	var stats ingest.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("stats JSON: %v\n%s", err, out)
	}
	if stats.Segments != 3 || stats.Links != 2 || stats.Paths != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", stats.Segments, stats.Links, stats.Paths)
	}
	if stats.Filtered != 3 {
		t.Errorf("filtered = %d, want 3 (header, containment, comment)", stats.Filtered)
	}
	if stats.RunID == "" {
		t.Error("missing run id")
	}
}

func TestLoadMissingFile(t *testing.T) {
	setup(t)
	_, err := run(t, "load", filepath.Join(t.TempDir(), "nope.gfa"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestExport(t *testing.T) {
	path := setup(t)

	out, err := run(t, "export", path)
	if err != nil {
		t.Fatal(err)
	}
	store, err := graph.ReadDocument(strings.NewReader(out))
	if err != nil {
		t.Fatalf("read exported document: %v", err)
	}
	if store.Len() != 6 {
		t.Errorf("exported %d records, want 6", store.Len())
	}

	file := filepath.Join(t.TempDir(), "out.json")
	if _, err := run(t, "export", path, "-o", file); err != nil {
		t.Fatal(err)
	}
	fromFile, err := graph.ReadDocumentFile(file)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := fromFile.PathAt(0)
	if p.PathName != "P1" || len(p.SegmentNames) != 3 || !p.SegmentNames[2].Forward {
		t.Errorf("path = %+v", p)
	}
}

func TestLayoutCommand(t *testing.T) {
	setup(t)

	out, err := run(t, "layout", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var layouts []view.Layout
	if err := json.Unmarshal([]byte(out), &layouts); err != nil {
		t.Fatal(err)
	}
	if len(layouts) != 4 {
		t.Fatalf("layouts = %d, want segment, link, path and step", len(layouts))
	}
	size, _ := view.RecordSize(graph.KindLink)
	if layouts[1].Size != size {
		t.Errorf("link size = %d, want %d", layouts[1].Size, size)
	}

	out, err = run(t, "layout", "path")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"path_name", "segment_names", "overlaps"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout path missing %s:\n%s", want, out)
		}
	}

	if _, err := run(t, "layout", "widget"); !errors.Is(err, errors.ErrCodeInvalidKind) {
		t.Errorf("err = %v, want INVALID_KIND", err)
	}
}

func TestViewCommand(t *testing.T) {
	path := setup(t)

	if _, err := run(t, "view", path, "segment", "1", "sequence"); err != nil {
		t.Errorf("view field: %v", err)
	}
	if _, err := run(t, "view", path, "path", "0"); err != nil {
		t.Errorf("view path: %v", err)
	}

	tests := []struct {
		args []string
		code errors.Code
	}{
		{[]string{"segment", "3"}, errors.ErrCodeOutOfRange},
		{[]string{"blob", "0"}, errors.ErrCodeInvalidKind},
		{[]string{"link", "0", "colour"}, errors.ErrCodeInvalidField},
		{[]string{"link", "x"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		_, err := run(t, append([]string{"view", path}, tt.args...)...)
		if !errors.Is(err, tt.code) {
			t.Errorf("view %v: err = %v, want %s", tt.args, err, tt.code)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	path := setup(t)

	out, err := run(t, "render", path, "-f", "dot", "-o", "-", "--paths")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, `"A" -> "B"`) {
		t.Errorf("dot output:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), "g.dot")
	if _, err := run(t, "render", path, "-f", "dot", "-o", file); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Errorf("render did not write %s: %v", file, err)
	}

	if _, err := run(t, "render", path, "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestSinkSQLite(t *testing.T) {
	path := setup(t)
	db := filepath.Join(t.TempDir(), "docs.db")

	if _, err := run(t, "sink", "sqlite", path, "--db", db, "--name", "sample"); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s, err := sqlite.Open(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	store, err := s.Read(ctx, "sample")
	if err != nil {
		t.Fatal(err)
	}
	if store.SegmentCount() != 3 || store.LinkCount() != 2 || store.PathCount() != 1 {
		t.Errorf("stored counts = %d/%d/%d", store.SegmentCount(), store.LinkCount(), store.PathCount())
	}
}

func TestConfigAndVersion(t *testing.T) {
	setup(t)

	out, err := run(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[fetch]") || !strings.Contains(out, "[cache]") {
		t.Errorf("config show:\n%s", out)
	}

	cfgFile := filepath.Join(t.TempDir(), "gfabridge.yaml")
	if err := os.WriteFile(cfgFile, []byte("log:\n  level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", cfgFile, "config", "show"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}

	out, err = run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version:") {
		t.Errorf("version output = %q", out)
	}
}

func TestCachePath(t *testing.T) {
	setup(t)
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Errorf("clearing an empty cache: %v", err)
	}
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		src, name, render string
	}{
		{"/data/graph.gfa", "graph.gfa", "graph.svg"},
		{"/data/graph.gfa.gz", "graph.gfa", "graph.svg"},
		{"https://example.org/asm/x.gfa.zst?rev=2", "x.gfa", "x.svg"},
		{"lil.gfa", "lil.gfa", "lil.svg"},
	}
	for _, tt := range tests {
		if got := documentName(tt.src); got != tt.name {
			t.Errorf("documentName(%q) = %q, want %q", tt.src, got, tt.name)
		}
		if got := renderPath(tt.src, "svg"); got != tt.render {
			t.Errorf("renderPath(%q) = %q, want %q", tt.src, got, tt.render)
		}
	}
}
