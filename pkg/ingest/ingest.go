package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/fetch"
	"github.com/matzehuels/gfabridge/pkg/gfa"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/observability"
)

// Ingest builds a Store from GFA text. Lines that fail to decode and lines
// that are not records are dropped silently.
func Ingest(text string) *graph.Store {
	s := graph.NewStore()
	var st Stats
	for line := range strings.SplitSeq(text, "\n") {
		ingestLine(s, []byte(line), &st)
	}
	return s
}

// =============================================================================
// State
// =============================================================================

// State is the phase of the most recent run.
type State int

const (
	NotStarted State = iota
	Fetching
	Decoding
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case Fetching:
		return "fetching"
	case Decoding:
		return "decoding"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Stats summarizes one run.
type Stats struct {
	RunID    string        `json:"run_id"`
	Source   string        `json:"source"`
	Bytes    int64         `json:"bytes"`
	Lines    int           `json:"lines"`
	Segments int           `json:"segments"`
	Links    int           `json:"links"`
	Paths    int           `json:"paths"`
	Filtered int           `json:"filtered"` // decoded, but not a segment, link or path
	Skipped  int           `json:"skipped"`  // failed to decode
	Duration time.Duration `json:"duration"`
}

// Records returns the number of records appended.
func (s Stats) Records() int { return s.Segments + s.Links + s.Paths }

func (s Stats) summary() observability.IngestSummary {
	return observability.IngestSummary{
		Lines:    s.Lines,
		Segments: s.Segments,
		Links:    s.Links,
		Paths:    s.Paths,
		Skipped:  s.Skipped,
		Duration: s.Duration,
	}
}

// =============================================================================
// Driver
// =============================================================================

// Fetcher retrieves a remote document body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Driver.
type Options struct {
	Fetcher Fetcher // nil builds a default fetch.Client on first remote run
	Logger  *log.Logger
}

// Driver runs ingestions and tracks the state of the latest one.
// Runs may be started from several goroutines; each returns its own store.
type Driver struct {
	fetcher Fetcher
	logger  *log.Logger

	mu    sync.Mutex
	state State
	stats Stats
}

// NewDriver creates a Driver.
func NewDriver(opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{fetcher: opts.Fetcher, logger: logger}
}

// State returns the phase of the latest run.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Stats returns the stats of the latest run.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Load ingests src, which is either an http(s) URL or a local file path.
func (d *Driver) Load(ctx context.Context, src string) (*graph.Store, Stats, error) {
	if err := errors.ValidateSource(src); err != nil {
		return nil, Stats{Source: src}, err
	}
	if errors.IsURL(src) {
		return d.Fetch(ctx, src)
	}

	f, err := os.Open(src)
	if err != nil {
		code := errors.ErrCodeInvalidSource
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return nil, Stats{Source: src}, errors.Wrap(code, err, "open %s", src)
	}
	defer f.Close()
	return d.run(ctx, src, false, func(context.Context) (io.Reader, error) { return f, nil })
}

// Fetch retrieves url and ingests it. A transport failure or cancellation
// during the fetch leaves the run Failed and returns no store.
func (d *Driver) Fetch(ctx context.Context, url string) (*graph.Store, Stats, error) {
	return d.run(ctx, url, true, func(ctx context.Context) (io.Reader, error) {
		f, err := d.remote()
		if err != nil {
			return nil, err
		}
		body, err := f.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(body), nil
	})
}

// IngestReader streams r into a new store. Cancellation is checked between
// lines; a cancelled run returns no store.
func (d *Driver) IngestReader(ctx context.Context, r io.Reader) (*graph.Store, Stats, error) {
	return d.run(ctx, "reader", false, func(context.Context) (io.Reader, error) { return r, nil })
}

func (d *Driver) remote() (Fetcher, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fetcher == nil {
		c, err := fetch.New(fetch.Options{Logger: d.logger})
		if err != nil {
			return nil, err
		}
		d.fetcher = c
	}
	return d.fetcher, nil
}

func (d *Driver) run(ctx context.Context, src string, remote bool, open func(context.Context) (io.Reader, error)) (*graph.Store, Stats, error) {
	start := time.Now()
	st := Stats{RunID: uuid.NewString(), Source: src}
	logger := d.logger.With("run", st.RunID)
	hooks := observability.Ingest()
	hooks.OnIngestStart(ctx, st.RunID, src)

	fail := func(err error) (*graph.Store, Stats, error) {
		st.Duration = time.Since(start)
		d.set(Failed, st)
		hooks.OnIngestComplete(ctx, st.RunID, src, st.summary(), err)
		logger.Debug("ingest failed", "source", src, "error", err)
		return nil, st, err
	}

	if remote {
		d.set(Fetching, st)
		logger.Debug("fetching", "url", src)
	}
	r, err := open(ctx)
	if err != nil {
		return fail(err)
	}

	d.set(Decoding, st)
	store, err := decode(ctx, r, &st, logger)
	if err != nil {
		return fail(err)
	}

	st.Duration = time.Since(start)
	d.set(Complete, st)
	hooks.OnIngestComplete(ctx, st.RunID, src, st.summary(), nil)
	logger.Debug("ingest complete", "segments", st.Segments, "links", st.Links,
		"paths", st.Paths, "skipped", st.Skipped, "duration", st.Duration)
	return store, st, nil
}

func (d *Driver) set(state State, st Stats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = state
	d.stats = st
}

// =============================================================================
// Decoding
// =============================================================================

func decode(ctx context.Context, r io.Reader, st *Stats, logger *log.Logger) (*graph.Store, error) {
	counted := &countingReader{r: r}
	plain, closeFn, err := decompress(counted)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decompress %s", st.Source)
	}
	defer closeFn()

	s := graph.NewStore()
	br := bufio.NewReaderSize(plain, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 || readErr == nil {
			line = bytes.TrimSuffix(line, []byte{'\n'})
			if !ingestLine(s, line, st) {
				logger.Debug("skipped line", "line", st.Lines)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, readErr, "read %s", st.Source)
		}
	}
	st.Bytes = counted.n
	return s, nil
}

// ingestLine decodes, normalizes and appends one line, updating st.
// It reports false only when the line failed to decode.
func ingestLine(s *graph.Store, line []byte, st *Stats) bool {
	st.Lines++
	decoded, ok := gfa.Decode(line)
	if !ok {
		st.Skipped++
		return false
	}
	rec, ok := graph.Normalize(decoded)
	if !ok {
		st.Filtered++
		return true
	}
	s.Append(rec)
	switch rec.Kind() {
	case graph.KindSegment:
		st.Segments++
	case graph.KindLink:
		st.Links++
	case graph.KindPath:
		st.Paths++
	}
	return true
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompress sniffs the stream and unwraps gzip or zstd.
func decompress(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return br, func() {}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
