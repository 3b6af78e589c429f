package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/pokedex/internal/catalog"
	"github.com/starford/pokedex/internal/pokeapi"
	"github.com/starford/pokedex/internal/testutil"
)

func testServer(t *testing.T) (*Server, *testutil.FakeAPI) {
	t.Helper()

	api := testutil.NewFakeAPI(t)
	api.AddRecord(1, "bulbasaur")
	api.AddRecord(2, "ivysaur")
	api.AddChain(1, "bulbasaur", "ivysaur")

	cat := catalog.New(pokeapi.New(api.URL()), nil, catalog.DefaultSettings())
	t.Cleanup(cat.Close)
	return New(cat, "test"), api
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handlers are
	// called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "load_next_page":
		result, err = srv.loadNextPage(ctx, req)
	case "list_records":
		result, err = srv.listRecords(ctx, req)
	case "search_records":
		result, err = srv.searchRecords(ctx, req)
	case "show_record":
		result, err = srv.showRecord(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestLoadAndList(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_records", map[string]interface{}{})
	if !strings.Contains(resultText(r), "no records loaded") {
		t.Errorf("empty list = %q", resultText(r))
	}

	r = callTool(t, srv, "load_next_page", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("load failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"total": 2`) {
		t.Errorf("load result = %q", resultText(r))
	}

	r = callTool(t, srv, "list_records", map[string]interface{}{})
	var rows []catalog.Row
	if err := json.Unmarshal([]byte(resultText(r)), &rows); err != nil {
		t.Fatalf("list output: %v", err)
	}
	if len(rows) != 2 || rows[1].Name != "Ivysaur" || rows[1].Code != "#002" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestLoadNextPageUpstreamError(t *testing.T) {
	srv, api := testServer(t)
	api.FailList(true)

	r := callTool(t, srv, "load_next_page", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error result")
	}
}

func TestSearchRecords(t *testing.T) {
	srv, api := testServer(t)
	api.AddUnlistedRecord(150, "mewtwo")
	callTool(t, srv, "load_next_page", map[string]interface{}{})

	r := callTool(t, srv, "search_records", map[string]interface{}{"query": "IVY"})
	if !strings.Contains(resultText(r), "Ivysaur") || strings.Contains(resultText(r), "Bulbasaur") {
		t.Errorf("local search = %q", resultText(r))
	}

	r = callTool(t, srv, "search_records", map[string]interface{}{"query": "mewtwo"})
	if !strings.Contains(resultText(r), `"#150"`) {
		t.Errorf("remote search = %q", resultText(r))
	}

	r = callTool(t, srv, "search_records", map[string]interface{}{"query": "missingno"})
	if resultText(r) != catalog.NoResults {
		t.Errorf("no match = %q", resultText(r))
	}

	r = callTool(t, srv, "search_records", map[string]interface{}{})
	if !r.IsError {
		t.Error("missing query should be an error")
	}
}

func TestShowRecord(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "load_next_page", map[string]interface{}{})

	r := callTool(t, srv, "show_record", map[string]interface{}{"name": "Bulbasaur"})
	if r.IsError {
		t.Fatalf("show failed: %s", resultText(r))
	}
	var res catalog.DetailResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatal(err)
	}
	if res.Detail.Species != "Seed Pokémon" || res.Detail.Height != "0.7 m" {
		t.Errorf("detail = %+v", res.Detail)
	}
	if res.Evolution == nil || len(res.Evolution.Items()) != 2 {
		t.Errorf("evolution = %+v", res.Evolution)
	}
}

func TestShowRecordNotLoaded(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "show_record", map[string]interface{}{"name": "bulbasaur"})
	if !r.IsError {
		t.Error("expected error for unloaded record")
	}
}

func TestDetailFormatResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readDetailFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != DetailFormatURI || !strings.Contains(tc.Text, "evolution_message") {
		t.Errorf("resource = %+v", contents[0])
	}
}
