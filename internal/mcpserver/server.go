// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Pokédex tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pokedex/internal/apperr"
	"github.com/starford/pokedex/internal/catalog"
)

// DetailFormatURI identifies the detail format resource.
const DetailFormatURI = "pokedex://detail-format"

// Server wraps the MCP server with Pokédex tools.
type Server struct {
	mcp *server.MCPServer
	cat *catalog.Catalog
}

// New creates a new MCP server with all Pokédex tools registered.
func New(cat *catalog.Catalog, version string) *Server {
	s := &Server{cat: cat}

	s.mcp = server.NewMCPServer(
		"Pokedex",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("load_next_page",
		mcp.WithDescription("Load the next page of Pokémon into the collection. "+
			"Entries that fail to load are skipped; the result reports how many loaded."),
	), s.loadNextPage)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List every Pokémon loaded so far, in load order."),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Filter loaded Pokémon by name substring. With no local match the "+
			"query is looked up remotely as an exact name and added to the collection."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name or part of a name; empty lists everything")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("show_record",
		mcp.WithDescription("Show details of a loaded Pokémon: types, weight, height, abilities, "+
			"species and evolution chain. See the "+DetailFormatURI+" resource for the output format."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Pokémon name as listed (e.g. bulbasaur)")),
	), s.showRecord)

	// Resource: detail output format.
	s.mcp.AddResource(
		mcp.NewResource(DetailFormatURI, "Detail Format",
			mcp.WithResourceDescription("Field-by-field description of show_record output."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDetailFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) loadNextPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.cat.Loader.LoadNextPage(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrPageInFlight) {
			return mcp.NewToolResultError("a page is already loading; try again shortly"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"page":  res,
		"total": s.cat.State.Len(),
	})
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows := catalog.RowsView(s.cat.State.Records(), s.cat.State.IsSelected)
	if len(rows) == 0 {
		return mcp.NewToolResultText("no records loaded; call load_next_page first"), nil
	}
	return jsonResult(rows)
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.cat.Searcher.Search(ctx, query)
	if res.Empty != "" {
		return mcp.NewToolResultText(res.Empty), nil
	}
	return jsonResult(res.Rows)
}

func (s *Server) showRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.cat.Resolver.ShowByName(ctx, catalog.NormalizeQuery(name))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not loaded: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) readDetailFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DetailFormatURI,
			MIMEType: "text/markdown",
			Text:     DetailFormat,
		},
	}, nil
}
