// Package server exposes a bridge registry over HTTP.
//
// Documents are uploaded as GFA text (or fetched from the configured origin)
// and addressed afterwards by their handle, exactly like a foreign caller
// would through the C ABI:
//
//	POST   /documents                      body: GFA text, or ?url=<same-origin URL>
//	GET    /documents/{h}                  counts and epoch
//	DELETE /documents/{h}                  free the handle
//	GET    /documents/{h}/export           JSON document
//	GET    /documents/{h}/render?format=   dot or svg
//	GET    /documents/{h}/{kind}           collection length and stride
//	GET    /documents/{h}/{kind}/{i}       one record, externally tagged
//	GET    /documents/{h}/{kind}/{i}/{f}   value of string field f (name or id)
//	GET    /layout/{kind}                  record layout
//	POST   /parse-line                     body: one GFA line
//
// Errors are JSON objects carrying the error code and the boundary status.
package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gfabridge/pkg/bridge"
	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/graph"
	"github.com/matzehuels/gfabridge/pkg/render/dot"
	"github.com/matzehuels/gfabridge/pkg/view"
)

// DefaultMaxBody bounds uploaded documents.
const DefaultMaxBody = 256 << 20

// Options configures a Server.
type Options struct {
	Registry *bridge.Registry
	Logger   *log.Logger
	MaxBody  int64
	Timeout  time.Duration
}

// Server routes HTTP requests to a registry.
type Server struct {
	reg     *bridge.Registry
	logger  *log.Logger
	maxBody int64
	router  chi.Router
}

// New builds a Server. A nil Registry gets a fresh one.
func New(opts Options) *Server {
	s := &Server{
		reg:     opts.Registry,
		logger:  opts.Logger,
		maxBody: opts.MaxBody,
	}
	if s.reg == nil {
		s.reg = bridge.NewRegistry(nil)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/layout/{kind}", s.handleLayout)
	r.Post("/parse-line", s.handleParseLine)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{handle}", func(r chi.Router) {
			r.Get("/", s.handleInfo)
			r.Delete("/", s.handleFree)
			r.Get("/export", s.handleExport)
			r.Get("/render", s.handleRender)
			r.Get("/{kind}", s.handleCollection)
			r.Get("/{kind}/{index}", s.handleRecord)
			r.Get("/{kind}/{index}/{field}", s.handleString)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry returns the registry behind the server.
func (s *Server) Registry() *bridge.Registry { return s.reg }

// =============================================================================
// Documents
// =============================================================================

// DocumentInfo describes one live handle.
type DocumentInfo struct {
	Handle   bridge.Handle `json:"handle"`
	Epoch    uint64        `json:"epoch"`
	Segments int           `json:"segments"`
	Links    int           `json:"links"`
	Paths    int           `json:"paths"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var h bridge.Handle
	if url := r.URL.Query().Get("url"); url != "" {
		var err error
		if h, err = s.reg.Fetch(r.Context(), url); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document body"))
			return
		}
		h = s.reg.Parse(string(body))
	}

	info, err := s.info(h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("document opened", "handle", h, "segments", info.Segments, "links", info.Links, "paths", info.Paths)
	w.Header().Set("Location", fmt.Sprintf("/documents/%d", h))
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	info, err := s.info(h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleFree(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.reg.Free(h); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.reg.ExportJSON(h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	h, err := handleParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	store, err := s.reg.Store(h)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	src := dot.ToDOT(store, dot.Options{
		Paths:       q.Get("paths") == "true",
		LeftToRight: q.Get("rankdir") == "LR",
	})
	switch format := q.Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = io.WriteString(w, src)
	case "svg":
		svg, err := dot.RenderSVG(r.Context(), src)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want dot or svg)", format))
	}
}

func (s *Server) info(h bridge.Handle) (DocumentInfo, error) {
	store, err := s.reg.Store(h)
	if err != nil {
		return DocumentInfo{}, err
	}
	return DocumentInfo{
		Handle:   h,
		Epoch:    store.Epoch(),
		Segments: store.SegmentCount(),
		Links:    store.LinkCount(),
		Paths:    store.PathCount(),
	}, nil
}

// =============================================================================
// Views
// =============================================================================

// CollectionInfo describes a collection view. Addresses are meaningless
// outside this process, so only the shape is reported.
type CollectionInfo struct {
	Kind   string  `json:"kind"`
	Len    int     `json:"len"`
	Stride uintptr `json:"stride"`
	Epoch  uint64  `json:"epoch"`
}

// StringInfo describes a string view. Value is a copy of the bytes.
type StringInfo struct {
	Len   int    `json:"len"`
	Epoch uint64 `json:"epoch"`
	Value string `json:"value"`
}

// The view handlers copy what they read before responding, so they use
// unpinned views rather than the registry's leases.

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	store, k, err := s.storeAndKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := view.Collection(store, k)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CollectionInfo{
		Kind:   k.String(),
		Len:    v.Len,
		Stride: v.Stride,
		Epoch:  v.Epoch,
	})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	store, k, err := s.storeAndKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	i, err := indexParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := store.RecordAt(k, i)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := graph.MarshalRecord(rec)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode record"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleString(w http.ResponseWriter, r *http.Request) {
	store, k, err := s.storeAndKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	i, err := indexParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	field, err := fieldName(k, chi.URLParam(r, "field"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := view.String(store, k, i, field)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StringInfo{Len: v.Len, Epoch: v.Epoch, Value: v.String()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	k, err := kindParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := view.Describe(k)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleParseLine(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read line"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bridge.ParseLine(string(body)))
}

// =============================================================================
// Parameters
// =============================================================================

func handleParam(r *http.Request) (bridge.Handle, error) {
	raw := chi.URLParam(r, "handle")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeUnknownHandle, "invalid handle %q", raw)
	}
	return bridge.Handle(n), nil
}

func kindParam(r *http.Request) (graph.Kind, error) {
	raw := chi.URLParam(r, "kind")
	k, ok := graph.ParseKind(raw)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidKind, "unknown record kind %q", raw)
	}
	return k, nil
}

func (s *Server) storeAndKind(r *http.Request) (*graph.Store, graph.Kind, error) {
	h, err := handleParam(r)
	if err != nil {
		return nil, 0, err
	}
	k, err := kindParam(r)
	if err != nil {
		return nil, 0, err
	}
	store, err := s.reg.Store(h)
	return store, k, err
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid index %q", raw)
	}
	return i, nil
}

// fieldName resolves a string field given by name or by numeric id.
func fieldName(k graph.Kind, field string) (string, error) {
	for _, name := range view.StringFields(k) {
		if name == field {
			return name, nil
		}
	}
	id, err := strconv.ParseInt(field, 10, 32)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidField, "%s has no string field %q", k, field)
	}
	return view.FieldName(k, int(id))
}
