// Package server exposes validation and the schema registry as a
// stateless JSON API, so non-Go services can guard their boundaries with
// the same schemas.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/keyshape"
	"github.com/aretw0/keyshape/internal/logging"
	"github.com/aretw0/keyshape/internal/registry"
)

// Server validates payloads against inline or registered schemas.
type Server struct {
	store   registry.Store
	logger  *slog.Logger
	metrics *metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server backed by the given schema store.
func New(store registry.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Handler builds the HTTP routing for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Post("/v1/validate", s.handleValidate)
	r.Get("/v1/schemas", s.handleListSchemas)
	r.Put("/v1/schemas/{name}", s.handlePutSchema)
	r.Get("/v1/schemas/{name}", s.handleGetSchema)
	r.Delete("/v1/schemas/{name}", s.handleDeleteSchema)
	r.Post("/v1/schemas/{name}/validate", s.handleValidateNamed)

	return r
}

// validateOptions is the wire form of the validation modes.
type validateOptions struct {
	Strict        bool `mapstructure:"strict"`
	StrictShallow bool `mapstructure:"strict_shallow"`
	Full          bool `mapstructure:"full"`
	Verbose       bool `mapstructure:"verbose"`
}

func (o validateOptions) build() []keyshape.Option {
	var opts []keyshape.Option
	if o.Strict {
		opts = append(opts, keyshape.WithStrict())
	}
	if o.StrictShallow {
		opts = append(opts, keyshape.WithStrictShallow())
	}
	if o.Full {
		opts = append(opts, keyshape.WithFull())
	}
	if o.Verbose {
		opts = append(opts, keyshape.WithVerbose())
	}
	return opts
}

func decodeOptions(raw map[string]any) (validateOptions, error) {
	var opts validateOptions
	if raw == nil {
		return opts, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &opts,
		ErrorUnused: true,
	})
	if err != nil {
		return opts, err
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

type validateRequest struct {
	Schema  map[string]any `json:"schema"`
	Data    map[string]any `json:"data"`
	Options map[string]any `json:"options,omitempty"`
}

type violationResponse struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type validateResponse struct {
	Valid      bool                `json:"valid"`
	Violations []violationResponse `json:"violations,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Schema == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("missing schema"))
		return
	}

	schema, err := keyshape.ParseSchemaDoc(req.Schema)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("schema document: %w", err))
		return
	}

	s.runValidation(w, "inline", schema, req.Data, req.Options)
}

func (s *Server) handleValidateNamed(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	doc, err := s.store.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	schema, err := keyshape.ParseSchemaDoc(doc)
	if err != nil {
		// Put validates documents, so a stored document failing to parse
		// is a server-side invariant break.
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("stored schema %q: %w", name, err))
		return
	}

	var req validateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.runValidation(w, name, schema, req.Data, req.Options)
}

func (s *Server) runValidation(w http.ResponseWriter, schemaName string, schema keyshape.Schema, data map[string]any, rawOpts map[string]any) {
	opts, err := decodeOptions(rawOpts)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	ok, violations := keyshape.CheckData(data, schema, opts.build()...)
	s.metrics.observe(ok, len(violations), time.Since(start))

	s.logger.Info("validation",
		"schema", schemaName,
		"valid", ok,
		"violations", len(violations),
	)

	resp := validateResponse{Valid: ok}
	for _, v := range violations {
		resp.Violations = append(resp.Violations, violationResponse{Path: v.Path, Message: v.Message})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePutSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var doc map[string]any
	if err := decodeBody(r, &doc); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	// Reject unparseable documents at registration time.
	if _, err := keyshape.ParseSchemaDoc(doc); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("schema document: %w", err))
		return
	}

	if err := s.store.Put(r.Context(), name, doc); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("schema registered", "schema", name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	doc, err := s.store.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"schemas": names})
}

func (s *Server) handleDeleteSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("schema deleted", "schema", name)
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody decodes a JSON body with UseNumber so integers survive as
// json.Number instead of widening to float64 (integer range endpoints
// depend on it).
func decodeBody(r *http.Request, into any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
