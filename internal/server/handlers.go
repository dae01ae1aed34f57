package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layered/pkg/buildinfo"
	"github.com/matzehuels/layered/pkg/errors"
	graphio "github.com/matzehuels/layered/pkg/io"
	"github.com/matzehuels/layered/pkg/layout"
)

// layoutRequest is the body of POST /v1/layout. The graph uses the JSON
// format of pkg/io.
type layoutRequest struct {
	Graph   json.RawMessage `json:"graph"`
	Options layout.Options  `json:"options"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req layoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Graph) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "request has no graph"))
		return
	}
	g, err := graphio.UnmarshalJSON(req.Graph)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph"))
		return
	}

	out, hit, err := s.runner.Layout(ctx, g, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if err := graphio.WriteJSON(out, w); err != nil {
		log.FromContext(ctx).Error("write response", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

// statusFor maps error codes to HTTP statuses: malformed input is 400,
// input that parses but cannot be laid out is 422.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidGraph:
		return http.StatusBadRequest
	case errors.ErrCodeConfiguration, errors.ErrCodeGeometry:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := log.FromContext(r.Context())
	if status >= 500 {
		logger.Error("layout request failed", "err", err)
	} else {
		logger.Debug("layout request rejected", "status", status, "err", err)
	}

	resp := errorResponse{
		Error:     err.Error(),
		Code:      string(errors.GetCode(err)),
		RequestID: w.Header().Get(HeaderRequestID),
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
