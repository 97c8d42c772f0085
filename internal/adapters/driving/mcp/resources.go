package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

const uriScheme = "missedcalls://"

// categoryInfo is the JSON form of a category.
type categoryInfo struct {
	Sheet       string   `json:"sheet"`
	Description string   `json:"description,omitempty"`
	Rules       []string `json:"rules"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Dashboard categories, each mapping rules to a spreadsheet tab",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "categories/{sheet}",
		Name:        "category",
		Description: "A single category by tab name",
		MIMEType:    "application/json",
	}, s.handleCategoryResource)
}

// handleCategoriesResource returns every configured category.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := s.ports.Pipeline.Categories()
	infos := make([]categoryInfo, len(categories))
	for i, c := range categories {
		infos[i] = newCategoryInfo(c)
	}
	return jsonResource(req.Params.URI, infos)
}

// handleCategoryResource returns the category named in the URI.
func (s *Server) handleCategoryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sheet := extractSheet(req.Params.URI)
	if sheet == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, c := range s.ports.Pipeline.Categories() {
		if c.Sheet == sheet {
			return jsonResource(req.Params.URI, newCategoryInfo(c))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func newCategoryInfo(c domain.Category) categoryInfo {
	rules := make([]string, len(c.Rules))
	for i, r := range c.Rules {
		rules[i] = r.String()
	}
	return categoryInfo{Sheet: c.Sheet, Description: c.Description, Rules: rules}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling categories: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSheet extracts the tab name from a URI like missedcalls://categories/{sheet}.
func extractSheet(uri string) string {
	const prefix = uriScheme + "categories/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	sheet := strings.TrimPrefix(uri, prefix)
	if strings.Contains(sheet, "/") {
		return ""
	}
	return sheet
}
