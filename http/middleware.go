package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/bananamirror/relay"
)

// DefaultClientIPHeader is the header set by the fronting proxy with the caller's IP.
const DefaultClientIPHeader = "CF-Connecting-IP"

// Authenticator decides whether a request may proceed.
type Authenticator interface {
	Authenticate(req relay.AuthRequest) relay.AuthResult
}

type AuthMiddlewareConfig struct {
	// ClientIPHeader names the trusted header carrying the caller IP.
	ClientIPHeader string
	// MaxBodySize limits the body read for authentication. Zero means no limit.
	MaxBodySize int64
}

type bodyKey struct{}

// BodyFromContext returns the raw request body captured by AuthMiddleware.
func BodyFromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(bodyKey{}).([]byte)
	return body, ok
}

// AuthMiddleware reads the body exactly once, authenticates the request over the raw
// bytes, and hands the same bytes to the next handler through the context.
func AuthMiddleware(auth Authenticator, cfg AuthMiddlewareConfig) func(http.Handler) http.Handler {
	header := cfg.ClientIPHeader
	if header == "" {
		header = DefaultClientIPHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var reader io.Reader = r.Body
			if cfg.MaxBodySize > 0 {
				reader = http.MaxBytesReader(w, r.Body, cfg.MaxBodySize)
			}

			body, err := io.ReadAll(reader)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					slog.Info("request body too large", "limit", maxErr.Limit)
				} else {
					slog.Info("failed to read request body", "error", err)
				}
				WriteStatus(w, http.StatusBadRequest)
				return
			}

			signatures := r.Header.Values("Authorization")
			req := relay.AuthRequest{
				SourceIP:     r.Header.Get(header),
				HasSignature: len(signatures) > 0,
				Body:         body,
			}
			if req.HasSignature {
				req.Signature = signatures[0]
			}

			if err := auth.Authenticate(req).Err(); err != nil {
				HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), bodyKey{}, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LogMiddleware tags each request with an ID and logs its outcome.
func LogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		id := uuid.NewString()
		ww.Header().Set("X-Request-Id", id)

		next.ServeHTTP(ww, r)

		slog.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
