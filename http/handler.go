package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bananamirror/relay"
)

// Dispatcher performs a validated payload against storage.
type Dispatcher interface {
	Dispatch(ctx context.Context, p relay.Payload) (string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	Auth AuthMiddlewareConfig
	CORS CORSConfig
}

// Handler exposes the relay over HTTP.
type Handler struct {
	config        HandlerConfig
	authenticator Authenticator
	dispatcher    Dispatcher
}

// NewHandler creates a new Handler with the given configuration.
func NewHandler(config *HandlerConfig, authenticator Authenticator, dispatcher Dispatcher) *Handler {
	return &Handler{
		config:        *config,
		authenticator: authenticator,
		dispatcher:    dispatcher,
	}
}

// Router returns an http.Handler with the relay routes.
// PUT and DELETE are accepted on any path; every other method gets 405.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(LogMiddleware)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteText(w, http.StatusOK, "ok")
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.authenticator, h.config.Auth))
		r.Put("/*", h.handleWrite)
		r.Delete("/*", h.handleWrite)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteStatus(w, http.StatusMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteStatus(w, http.StatusMethodNotAllowed)
	})

	return r
}

func (h *Handler) handleWrite(w http.ResponseWriter, r *http.Request) {
	body, ok := BodyFromContext(r.Context())
	if !ok {
		WriteStatus(w, http.StatusInternalServerError)
		return
	}

	payload, err := relay.Classify(body)
	if err != nil {
		HandleError(w, err)
		return
	}

	if !relay.AllowedFor(r.Method, payload) {
		WriteError(w, http.StatusBadRequest, "bad_request", "Payload does not match request method")
		return
	}

	message, err := h.dispatcher.Dispatch(r.Context(), payload)
	if err != nil {
		HandleError(w, err)
		return
	}

	WriteText(w, http.StatusOK, message)
}
