package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/resumer/internal/types"
	"github.com/rs/zerolog"
)

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleParse runs the ingestion pipeline for one request body
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeParseRequest(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	record, err := s.parser.Parse(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, r, http.StatusOK, record)
}

// decodeParseRequest reads the JSON body. An empty body decodes to an empty
// request so that validation reports the missing text.
func (s *Server) decodeParseRequest(w http.ResponseWriter, r *http.Request) (types.ParseRequest, error) {
	var req types.ParseRequest

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	err := json.NewDecoder(body).Decode(&req)
	if err == nil || errors.Is(err, io.EOF) {
		return req, nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return req, &RequestError{
			Status:  http.StatusRequestEntityTooLarge,
			Kind:    types.ErrorKindPayloadTooLarge,
			Message: "Request body too large",
			Cause:   err,
		}
	}
	return req, &RequestError{
		Status:  http.StatusBadRequest,
		Kind:    types.ErrorKindInvalidRequest,
		Message: "Invalid request body",
		Cause:   err,
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "ResumeR API is operational",
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("error encoding JSON response")
	}
}

// errorResponse writes the error envelope for err
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, envelope := NormalizeError(err, s.now())

	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).Str("type", string(envelope.Type)).Msg("request failed")

	s.jsonResponse(w, r, status, envelope)
}
