// Package mcp exposes the ingestion service to agent tooling over the Model
// Context Protocol, on stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/scribe"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// jobArgs is the decoded argument set shared by the job tools.
type jobArgs struct {
	JobID string `mapstructure:"job_id"`
}

// JobResponse aligns with the OpenAPI Job schema so agents and HTTP clients
// see the same shape.
type JobResponse struct {
	Job *domain.Job `json:"job" jsonschema_description:"The job record"`
}

// Ingestor defines the interface required by the MCP server.
type Ingestor interface {
	Index(ctx context.Context, jobID string) (*domain.Job, error)
	Status(ctx context.Context, jobID string) (*domain.Job, error)
	List(ctx context.Context) ([]string, error)
}

// Server wraps the ingestion service and exposes it as an MCP Server.
type Server struct {
	service   Ingestor
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(service Ingestor) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("scribe-mcp", strings.TrimSpace(scribe.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_jobs
	s.mcpServer.AddTool(mcp.NewTool("list_jobs",
		mcp.WithDescription("List the IDs of all known ingestion jobs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.service.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: job_status
	statusTool := mcp.NewTool("job_status",
		mcp.WithDescription("Fetch the current state of an ingestion job."),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Hex job identifier returned by upload")),
		mcp.WithOutputSchema[JobResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	// TOOL: index_job
	indexTool := mcp.NewTool("index_job",
		mcp.WithDescription("Build the chunk index for a spooled job. Idempotent for already indexed jobs."),
		mcp.WithString("job_id", mcp.Required(), mcp.Description("Hex job identifier returned by upload")),
		mcp.WithOutputSchema[JobResponse](),
	)
	s.mcpServer.AddTool(indexTool, mcp.NewStructuredToolHandler(s.handleIndex))
}

// Handler methods for structured tools

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (JobResponse, error) {
	var a jobArgs
	if err := mapstructure.Decode(args, &a); err != nil {
		return JobResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if a.JobID == "" {
		return JobResponse{}, fmt.Errorf("job_id is required")
	}

	job, err := s.service.Status(ctx, a.JobID)
	if err != nil {
		return JobResponse{}, fmt.Errorf("status failed: %w", err)
	}
	return JobResponse{Job: job}, nil
}

func (s *Server) handleIndex(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (JobResponse, error) {
	var a jobArgs
	if err := mapstructure.Decode(args, &a); err != nil {
		return JobResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if a.JobID == "" {
		return JobResponse{}, fmt.Errorf("job_id is required")
	}

	job, err := s.service.Index(ctx, a.JobID)
	if err != nil {
		slog.Error("MCP Index: build failed", "job_id", a.JobID, "err", err)
		return JobResponse{}, fmt.Errorf("index failed: %w", err)
	}
	return JobResponse{Job: job}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: scribe://jobs
	s.mcpServer.AddResource(mcp.NewResource("scribe://jobs", "Known Ingestion Jobs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.service.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list jobs: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "scribe://jobs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
