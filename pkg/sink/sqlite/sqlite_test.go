package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/ingest"
	"github.com/matzehuels/gfabridge/pkg/sink"
)

const sample = "S\tA\tACGT\nS\tB\tTTTT\nL\tA\t+\tB\t-\t4M\nP\tP1\tA+,B-\t4M"

func open(t *testing.T) *Sink {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "gfa.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestWriteRead(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	sum, err := s.Write(ctx, "lil", ingest.Ingest(sample))
	if err != nil {
		t.Fatal(err)
	}
	if sum != (sink.Summary{Name: "lil", Segments: 2, Links: 1, Paths: 1}) {
		t.Errorf("summary = %+v", sum)
	}

	got, err := s.Read(ctx, "lil")
	if err != nil {
		t.Fatal(err)
	}
	seg, _ := got.SegmentAt(1)
	if seg != (graph.Segment{Name: "B", Sequence: "TTTT"}) {
		t.Errorf("segment 1 = %+v", seg)
	}
	link, _ := got.LinkAt(0)
	if !link.FromOrient || link.ToOrient || link.Overlap != "4M" {
		t.Errorf("link 0 = %+v", link)
	}
	p, _ := got.PathAt(0)
	if len(p.SegmentNames) != 2 || p.SegmentNames[1] != (graph.Step{Name: "B", Forward: false}) {
		t.Errorf("path 0 = %+v", p)
	}
}

func TestWriteReplaces(t *testing.T) {
	ctx := context.Background()
	s := open(t)

	if _, err := s.Write(ctx, "doc", ingest.Ingest(sample)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write(ctx, "doc", ingest.Ingest("S\tZ\tG")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(ctx, "doc")
	if err != nil {
		t.Fatal(err)
	}
	if got.SegmentCount() != 1 || got.LinkCount() != 0 || got.PathCount() != 0 {
		t.Errorf("replaced doc counts = %d/%d/%d", got.SegmentCount(), got.LinkCount(), got.PathCount())
	}
	names, err := s.Names(ctx)
	if err != nil || len(names) != 1 || names[0] != "doc" {
		t.Errorf("Names() = %v, %v", names, err)
	}
}

func TestReadMissing(t *testing.T) {
	s := open(t)
	if _, err := s.Read(context.Background(), "nope"); !errors.Is(err, sink.ErrNotFound) {
		t.Errorf("Read(nope) err = %v", err)
	}
}

func TestWriteEmptyPathLists(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	st := graph.NewStore()
	st.Append(graph.Path{PathName: "empty"})
	if _, err := s.Write(ctx, "p", st); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := got.PathAt(0)
	if p.PathName != "empty" || len(p.SegmentNames) != 0 {
		t.Errorf("path = %+v", p)
	}
}
