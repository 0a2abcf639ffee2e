// Package sqlite stores GFA documents in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/sink"
)

// Sink writes documents to a SQLite file.
type Sink struct {
	db *sql.DB
}

// Open opens (or creates) the database at path with WAL mode enabled and
// initializes the schema.
func Open(ctx context.Context, path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Sink{db: db}, nil
}

// Close closes the database connection.
func (s *Sink) Close() error { return s.db.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	written_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
	doc_id INTEGER NOT NULL,
	idx INTEGER NOT NULL,
	name TEXT NOT NULL,
	sequence TEXT NOT NULL,
	PRIMARY KEY(doc_id, idx),
	FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS links (
	doc_id INTEGER NOT NULL,
	idx INTEGER NOT NULL,
	from_segment TEXT NOT NULL,
	from_orient INTEGER NOT NULL,
	to_segment TEXT NOT NULL,
	to_orient INTEGER NOT NULL,
	overlap TEXT NOT NULL,
	PRIMARY KEY(doc_id, idx),
	FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS paths (
	doc_id INTEGER NOT NULL,
	idx INTEGER NOT NULL,
	path_name TEXT NOT NULL,
	segment_names TEXT NOT NULL,
	overlaps TEXT NOT NULL,
	PRIMARY KEY(doc_id, idx),
	FOREIGN KEY(doc_id) REFERENCES documents(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_segments_name ON segments(doc_id, name);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Write stores st under name in one transaction, replacing any previous
// document with that name. Path steps and overlaps are stored as JSON.
func (s *Sink) Write(ctx context.Context, name string, st *graph.Store) (sink.Summary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sink.Summary{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return sink.Summary{}, fmt.Errorf("replace %s: %w", name, err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO documents(name, written_at) VALUES(?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return sink.Summary{}, fmt.Errorf("insert %s: %w", name, err)
	}
	docID, err := res.LastInsertId()
	if err != nil {
		return sink.Summary{}, err
	}

	segStmt, err := tx.PrepareContext(ctx, `INSERT INTO segments(doc_id, idx, name, sequence) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return sink.Summary{}, err
	}
	defer segStmt.Close()
	for i, seg := range st.Segments() {
		if _, err := segStmt.ExecContext(ctx, docID, i, seg.Name, seg.Sequence); err != nil {
			return sink.Summary{}, fmt.Errorf("segment %d: %w", i, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx, `INSERT INTO links(doc_id, idx, from_segment, from_orient, to_segment, to_orient, overlap) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return sink.Summary{}, err
	}
	defer linkStmt.Close()
	for i, l := range st.Links() {
		if _, err := linkStmt.ExecContext(ctx, docID, i, l.FromSegment, l.FromOrient, l.ToSegment, l.ToOrient, l.Overlap); err != nil {
			return sink.Summary{}, fmt.Errorf("link %d: %w", i, err)
		}
	}

	pathStmt, err := tx.PrepareContext(ctx, `INSERT INTO paths(doc_id, idx, path_name, segment_names, overlaps) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return sink.Summary{}, err
	}
	defer pathStmt.Close()
	for i, p := range st.Paths() {
		steps, err := json.Marshal(nonNil(p.SegmentNames))
		if err != nil {
			return sink.Summary{}, err
		}
		overlaps, err := json.Marshal(nonNil(p.Overlaps))
		if err != nil {
			return sink.Summary{}, err
		}
		if _, err := pathStmt.ExecContext(ctx, docID, i, p.PathName, string(steps), string(overlaps)); err != nil {
			return sink.Summary{}, fmt.Errorf("path %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return sink.Summary{}, err
	}
	return sink.Summarize(name, st), nil
}

// Read loads the document stored under name.
func (s *Sink) Read(ctx context.Context, name string) (*graph.Store, error) {
	var docID int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM documents WHERE name = ?`, name).Scan(&docID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", sink.ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	out := graph.NewStore()

	rows, err := s.db.QueryContext(ctx, `SELECT name, sequence FROM segments WHERE doc_id = ? ORDER BY idx`, docID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var seg graph.Segment
		if err := rows.Scan(&seg.Name, &seg.Sequence); err != nil {
			rows.Close()
			return nil, err
		}
		out.Append(seg)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT from_segment, from_orient, to_segment, to_orient, overlap FROM links WHERE doc_id = ? ORDER BY idx`, docID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var l graph.Link
		if err := rows.Scan(&l.FromSegment, &l.FromOrient, &l.ToSegment, &l.ToOrient, &l.Overlap); err != nil {
			rows.Close()
			return nil, err
		}
		out.Append(l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT path_name, segment_names, overlaps FROM paths WHERE doc_id = ? ORDER BY idx`, docID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p                  graph.Path
			steps, overlapsRaw string
		)
		if err := rows.Scan(&p.PathName, &steps, &overlapsRaw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(steps), &p.SegmentNames); err != nil {
			return nil, fmt.Errorf("path %s steps: %w", p.PathName, err)
		}
		if err := json.Unmarshal([]byte(overlapsRaw), &p.Overlaps); err != nil {
			return nil, fmt.Errorf("path %s overlaps: %w", p.PathName, err)
		}
		out.Append(p)
	}
	return out, rows.Err()
}

// Names lists stored document names in write order.
func (s *Sink) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ sink.Sink = (*Sink)(nil)
