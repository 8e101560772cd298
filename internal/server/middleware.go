package server

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// withLogging assigns a request ID, attaches a request-scoped logger to the
// context and logs each request once it completes.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		logger := s.logger.With().
			Str("request_id", requestID).
			Str("client", clientKey(r)).
			Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request started")

		metrics := httpsnoop.CaptureMetrics(next, w, r)

		event := logger.Info()
		if metrics.Code >= http.StatusInternalServerError {
			event = logger.Error()
		} else if metrics.Code >= http.StatusBadRequest {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", metrics.Code).
			Int64("bytes", metrics.Written).
			Dur("duration", metrics.Duration).
			Msg("request completed")
	})
}

// withRecover converts panics into the generic error envelope
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				zerolog.Ctx(r.Context()).Error().
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				s.errorResponse(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds admission control middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || s.limiter.Exempt(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		logger := zerolog.Ctx(r.Context())
		key := clientKey(r)

		decision, err := s.limiter.Admit(r.Context(), key, s.now())
		if err != nil {
			logger.Warn().Err(err).Msg("rate limit store unavailable, admitting request")
		}

		if decision.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			if !decision.ResetTime.IsZero() {
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetTime.Unix(), 10))
			}
		}

		if !decision.Allowed {
			retryAfter := decision.RetryAfterSeconds()
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			logger.Warn().
				Int("limit", decision.Limit).
				Int("retry_after", retryAfter).
				Msg("rate limit exceeded")
			s.errorResponse(w, r, &RateLimitError{Limit: decision.Limit, RetryAfter: retryAfter})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller for admission control: the first
// X-Forwarded-For entry when present, else the peer host.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
