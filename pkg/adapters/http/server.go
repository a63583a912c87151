package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/metron"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed openapi.yaml
var rawSpec []byte

// Converter defines what the HTTP adapter needs from the conversion core.
type Converter interface {
	Do(ctx context.Context, req domain.ConversionRequest) (domain.ConversionResult, error)
	Domains() []domain.Domain
	Units(d domain.Domain) ([]domain.Unit, error)
}

// Server serves the conversion API.
type Server struct {
	Converter Converter
	logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// ConvertResponse is the body of a successful conversion.
type ConvertResponse struct {
	Domain    domain.Domain `json:"domain"`
	Value     float64       `json:"value"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Result    float64       `json:"result"`
	Formatted string        `json:"formatted"`
}

// DomainInfo describes one domain.
type DomainInfo struct {
	Name      domain.Domain `json:"name"`
	Title     string        `json:"title"`
	Linear    bool          `json:"linear"`
	Precision int           `json:"precision"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates a new HTTP handler for the converter.
// It fails only if the embedded OpenAPI document is invalid.
func NewHandler(conv Converter, opts ...Option) (http.Handler, error) {
	s := &Server{
		Converter: conv,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	validator, err := newValidator(rawSpec, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validator.Middleware)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/domains", s.ListDomains)
		r.Get("/domains/{domain}/units", s.ListUnits)
		r.Get("/convert", s.ConvertQuery)
		r.Post("/convert", s.Convert)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "metron-http",
		"version": strings.TrimSpace(metron.Version),
	})
}

// ListDomains handles the GET /domains request.
func (s *Server) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains := s.Converter.Domains()
	resp := make([]DomainInfo, 0, len(domains))
	for _, d := range domains {
		resp = append(resp, DomainInfo{
			Name:      d,
			Title:     d.Title(),
			Linear:    d.IsLinear(),
			Precision: d.Precision(),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ListUnits handles the GET /domains/{domain}/units request.
func (s *Server) ListUnits(w http.ResponseWriter, r *http.Request) {
	d, err := domain.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	units, err := s.Converter.Units(d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, units)
}

// ConvertQuery handles the GET /convert request.
func (s *Server) ConvertQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	d, err := domain.ParseDomain(q.Get("domain"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", domain.ErrInvalidValue, err))
		return
	}

	s.convert(w, r, domain.ConversionRequest{
		Domain: d,
		Value:  value,
		From:   q.Get("from"),
		To:     q.Get("to"),
	})
}

// Convert handles the POST /convert request.
func (s *Server) Convert(w http.ResponseWriter, r *http.Request) {
	var body domain.ConversionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		s.logger.Warn("Convert: Invalid request body", "error", err)
		return
	}
	d, err := domain.ParseDomain(string(body.Domain))
	if err != nil {
		s.writeError(w, err)
		return
	}
	body.Domain = d

	s.convert(w, r, body)
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request, req domain.ConversionRequest) {
	res, err := s.Converter.Do(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res.Unavailable {
		s.logger.Warn("Convert: rates unavailable", "from", req.From, "to", req.To, "error", res.Cause)
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: domain.RatesUnavailableMessage})
		return
	}

	s.writeJSON(w, http.StatusOK, ConvertResponse{
		Domain:    req.Domain,
		Value:     req.Value,
		From:      req.From,
		To:        req.To,
		Result:    res.Value,
		Formatted: res.Formatted(),
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownDomain):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownUnit), errors.Is(err, domain.ErrInvalidValue), errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrRatesUnavailable):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: domain.RatesUnavailableMessage})
		return
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
