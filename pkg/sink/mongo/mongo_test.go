package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/ingest"
	"github.com/matzehuels/gfabridge/pkg/sink"
)

func TestOpenRequiresURI(t *testing.T) {
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Error("Open() without URI should fail")
	}
}

func TestWriteRead(t *testing.T) {
	uri := os.Getenv("GFABRIDGE_MONGO_URI")
	if uri == "" {
		t.Skip("GFABRIDGE_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := Open(ctx, Options{URI: uri, Database: "gfabridge_test"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	name := "test-" + uuid.NewString()
	defer s.Delete(ctx, name)

	in := ingest.Ingest("S\tA\tACGT\nS\tB\tTTTT\nL\tA\t+\tB\t-\t4M\nP\tP1\tA+,B-\t4M")
	if _, err := s.Write(ctx, name, in); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(ctx, name)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != in.Len() {
		t.Errorf("Len() = %d, want %d", got.Len(), in.Len())
	}
	p, _ := got.PathAt(0)
	if p.SegmentNames[1] != (graph.Step{Name: "B", Forward: false}) {
		t.Errorf("step 1 = %+v", p.SegmentNames[1])
	}

	if _, err := s.Read(ctx, name+"-missing"); !errors.Is(err, sink.ErrNotFound) {
		t.Errorf("Read(missing) err = %v", err)
	}
}
