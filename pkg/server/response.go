package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gfabridge/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errors.Code   `json:"code"`
	Status  errors.Status `json:"status"`
	Message string        `json:"message"`
}

var httpStatus = map[errors.Code]int{
	errors.ErrCodeOutOfRange:    http.StatusNotFound,
	errors.ErrCodeUnknownHandle: http.StatusNotFound,
	errors.ErrCodeNotFound:      http.StatusNotFound,
	errors.ErrCodeInvalidInput:  http.StatusBadRequest,
	errors.ErrCodeInvalidKind:   http.StatusBadRequest,
	errors.ErrCodeInvalidField:  http.StatusBadRequest,
	errors.ErrCodeInvalidSource: http.StatusBadRequest,
	errors.ErrCodeCrossOrigin:   http.StatusForbidden,
	errors.ErrCodeTransport:     http.StatusBadGateway,
	errors.ErrCodeStaleView:     http.StatusConflict,
}

// HTTPStatus maps an error to the response status code.
func HTTPStatus(err error) int {
	if code, ok := httpStatus[errors.GetCode(err)]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, code, ErrorResponse{
		Code:    errors.GetCode(err),
		Status:  errors.StatusOf(err),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start))
	})
}
