package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/semcouple/internal/version"
)

const defaultTermCount = 20

type RankSimilarParams struct {
	Target string `json:"target"`
	K      *int   `json:"k,omitempty"`
}

type DocumentTermsParams struct {
	Target string `json:"target"`
	N      *int   `json:"n,omitempty"`
}

func unmarshalParams(req *mcp.CallToolRequest, v interface{}) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := map[string]interface{}{
		"server_name":    ServerName,
		"server_version": version.FullInfo(),
		"go_version":     runtime.Version(),
		"project_root":   s.cfg.Project.Root,
	}

	s.mu.RLock()
	m := s.model
	s.mu.RUnlock()
	if m != nil {
		info["documents"] = m.Corpus().Len()
		info["vocabulary"] = m.Dictionary().Len()
	}
	return createJSONResponse(info)
}

func (s *Server) handleRankSimilar(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params RankSimilarParams
	if err := unmarshalParams(req, &params); err != nil {
		return createErrorResponse("rank_similar", fmt.Errorf("invalid parameters: %w", err))
	}
	target := strings.TrimSpace(params.Target)
	if target == "" {
		return createErrorResponse("rank_similar", fmt.Errorf("target is required"))
	}

	k := s.cfg.Output.TopK
	if params.K != nil {
		k = *params.K
	}

	m, err := s.Model(ctx)
	if err != nil {
		return createErrorResponse("rank_similar", err)
	}
	results, err := m.RankSimilar(target, k)
	if err != nil {
		return createErrorResponse("rank_similar", err)
	}

	return createJSONResponse(map[string]interface{}{
		"target":  target,
		"k":       k,
		"results": results,
	})
}

func (s *Server) handleDocumentTerms(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params DocumentTermsParams
	if err := unmarshalParams(req, &params); err != nil {
		return createErrorResponse("document_terms", fmt.Errorf("invalid parameters: %w", err))
	}
	target := strings.TrimSpace(params.Target)
	if target == "" {
		return createErrorResponse("document_terms", fmt.Errorf("target is required"))
	}

	n := defaultTermCount
	if params.N != nil {
		n = *params.N
	}

	m, err := s.Model(ctx)
	if err != nil {
		return createErrorResponse("document_terms", err)
	}
	terms, err := m.TopTerms(target, n)
	if err != nil {
		return createErrorResponse("document_terms", err)
	}

	return createJSONResponse(map[string]interface{}{
		"target": target,
		"terms":  terms,
	})
}

func (s *Server) handleReload(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := s.Reload(ctx)
	if err != nil {
		return createErrorResponse("reload", err)
	}
	return createJSONResponse(map[string]interface{}{
		"success":    true,
		"documents":  m.Corpus().Len(),
		"vocabulary": m.Dictionary().Len(),
	})
}
