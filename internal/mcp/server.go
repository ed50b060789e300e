package mcp

import (
	"context"
	"errors"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/semcouple/internal/config"
	"github.com/standardbeagle/semcouple/internal/coupling"
	"github.com/standardbeagle/semcouple/internal/debug"
	"github.com/standardbeagle/semcouple/internal/version"
)

// ServerName is reported in the MCP handshake
const ServerName = "semcouple-mcp-server"

// ErrNoModel is returned when a tool runs before any corpus has been built
var ErrNoModel = errors.New("corpus model not built")

// LoadFunc builds a model from scratch. Used for the initial build and reloads.
type LoadFunc func(ctx context.Context) (*coupling.Model, error)

// Server exposes a coupling model over MCP stdio. The model is swapped
// wholesale on reload; queries never see a partially built model.
type Server struct {
	cfg    *config.Config
	server *mcp.Server
	load   LoadFunc

	mu    sync.RWMutex
	model *coupling.Model
}

// NewServer creates a server around model. A nil model is built by load on first use.
// A nil load uses coupling.Load with cfg.
func NewServer(cfg *config.Config, model *coupling.Model, load LoadFunc) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if load == nil {
		load = func(ctx context.Context) (*coupling.Model, error) {
			return coupling.Load(ctx, cfg)
		}
	}

	s := &Server{
		cfg:   cfg,
		load:  load,
		model: model,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Info(),
	}, nil)
	s.registerTools()

	debug.LogMCP("server created for %s\n", cfg.Project.Root)
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Server version and corpus statistics: document count, vocabulary size, project root.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleInfo)

	s.server.AddTool(&mcp.Tool{
		Name:        "rank_similar",
		Description: "Rank project files by semantic coupling (TF-IDF cosine similarity of split identifiers) to a target file. Returns [{name, score}] best first.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"target": {
					Type:        "string",
					Description: "Target file path relative to the project root, slash separated",
				},
				"k": {
					Type:        "integer",
					Description: "Number of results (default from config output.top_k)",
				},
			},
			Required: []string{"target"},
		},
	}, s.handleRankSimilar)

	s.server.AddTool(&mcp.Tool{
		Name:        "document_terms",
		Description: "List a file's highest-weighted TF-IDF terms, explaining why it ranks where it does.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"target": {
					Type:        "string",
					Description: "File path relative to the project root, slash separated",
				},
				"n": {
					Type:        "integer",
					Description: "Number of terms (default 20, 0 = all)",
				},
			},
			Required: []string{"target"},
		},
	}, s.handleDocumentTerms)

	s.server.AddTool(&mcp.Tool{
		Name:        "reload",
		Description: "Rescan the project and rebuild the corpus from scratch.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleReload)
}

// Model returns the current model, building it on first use
func (s *Server) Model(ctx context.Context) (*coupling.Model, error) {
	s.mu.RLock()
	m := s.model
	s.mu.RUnlock()
	if m != nil {
		return m, nil
	}
	return s.Reload(ctx)
}

// SetModel replaces the served model
func (s *Server) SetModel(m *coupling.Model) {
	s.mu.Lock()
	s.model = m
	s.mu.Unlock()
}

// Reload rebuilds the model and swaps it in. On failure the old model stays.
func (s *Server) Reload(ctx context.Context) (*coupling.Model, error) {
	m, err := s.load(ctx)
	if err != nil {
		debug.LogMCP("reload failed: %v\n", err)
		return nil, err
	}
	if m == nil {
		return nil, ErrNoModel
	}
	s.SetModel(m)
	debug.LogMCP("model rebuilt: %d documents\n", m.Corpus().Len())
	return m, nil
}

// Start serves MCP over stdio until ctx is done or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	debug.LogMCP("starting MCP server with stdio transport\n")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
