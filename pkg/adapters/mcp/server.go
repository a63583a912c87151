package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/metron"
	"github.com/aretw0/metron/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConvertArgs are the arguments of the convert tool.
type ConvertArgs struct {
	Domain string  `json:"domain"`
	Value  float64 `json:"value"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// ConvertResponse is the structured result of the convert tool.
type ConvertResponse struct {
	Domain    domain.Domain `json:"domain" jsonschema_description:"Measurement domain"`
	Value     float64       `json:"value" jsonschema_description:"Input value"`
	From      string        `json:"from" jsonschema_description:"Source unit"`
	To        string        `json:"to" jsonschema_description:"Target unit"`
	Result    float64       `json:"result" jsonschema_description:"Converted value"`
	Formatted string        `json:"formatted" jsonschema_description:"Converted value at display precision"`
	Text      string        `json:"text" jsonschema_description:"Human readable summary"`
}

// Converter defines what the MCP server needs from the conversion core.
type Converter interface {
	Do(ctx context.Context, req domain.ConversionRequest) (domain.ConversionResult, error)
	Domains() []domain.Domain
	Units(d domain.Domain) ([]domain.Unit, error)
}

// Server exposes a Converter as an MCP server.
type Server struct {
	conv      Converter
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(conv Converter, opts ...Option) *Server {
	s := &Server{
		conv:      conv,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("metron-mcp", strings.TrimSpace(metron.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on port using SSE until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func domainNames(domains []domain.Domain) []string {
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = string(d)
	}
	return names
}

func (s *Server) registerTools() {
	domains := domainNames(s.conv.Domains())

	convertTool := mcp.NewTool("convert",
		mcp.WithDescription("Convert a value between two units of the same domain. Currency uses live exchange rates."),
		mcp.WithString("domain", mcp.Required(), mcp.Enum(domains...), mcp.Description("Measurement domain")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Value to convert")),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source unit name or currency code")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Target unit name or currency code")),
		mcp.WithOutputSchema[ConvertResponse](),
	)
	s.mcpServer.AddTool(convertTool, mcp.NewStructuredToolHandler(s.handleConvert))

	s.mcpServer.AddTool(mcp.NewTool("list_units",
		mcp.WithDescription("List the units of a domain in display order."),
		mcp.WithString("domain", mcp.Required(), mcp.Enum(domains...), mcp.Description("Measurement domain")),
	), s.handleListUnits)
}

func (s *Server) handleConvert(ctx context.Context, request mcp.CallToolRequest, args ConvertArgs) (ConvertResponse, error) {
	d, err := domain.ParseDomain(args.Domain)
	if err != nil {
		return ConvertResponse{}, err
	}

	req := domain.ConversionRequest{Domain: d, Value: args.Value, From: args.From, To: args.To}
	res, err := s.conv.Do(ctx, req)
	if err != nil {
		return ConvertResponse{}, err
	}
	if res.Unavailable {
		s.logger.Warn("MCP convert: rates unavailable", "from", req.From, "to", req.To, "error", res.Cause)
		return ConvertResponse{}, errors.New(domain.RatesUnavailableMessage)
	}

	return ConvertResponse{
		Domain:    d,
		Value:     req.Value,
		From:      req.From,
		To:        req.To,
		Result:    res.Value,
		Formatted: res.Formatted(),
		Text:      res.String(),
	}, nil
}

func (s *Server) handleListUnits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("domain")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := domain.ParseDomain(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	units, err := s.conv.Units(d)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	jsonBytes, _ := json.Marshal(units)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("metron://domains", "Supported Domains",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		catalog := make(map[domain.Domain][]string)
		for _, d := range s.conv.Domains() {
			units, err := s.conv.Units(d)
			if err != nil {
				return nil, fmt.Errorf("failed to list %s units: %w", d, err)
			}
			names := make([]string, len(units))
			for i, u := range units {
				names[i] = u.Name
			}
			catalog[d] = names
		}
		jsonBytes, _ := json.Marshal(catalog)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "metron://domains",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
