// Package mcp exposes a project's search table to MCP clients through
// github.com/modelcontextprotocol/go-sdk.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/doxindex"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// DefaultLimit is the number of matches returned when none is requested.
	DefaultLimit = 10

	// MaxLimit caps the number of matches a client may request.
	MaxLimit = 50
)

// RecordLookup finds a record by its exact key. Both *doxindex.Table and
// *memory.Index satisfy it.
type RecordLookup interface {
	Lookup(key string) (*doxindex.Record, bool)
}

// Server serves symbol search tools for one project.
type Server struct {
	// Project is the name reported in tool descriptions.
	Project string

	// Version is reported to clients during initialization.
	Version string

	// Searcher answers search-box style prefix queries.
	Searcher doxindex.Searcher

	// Fuzzy answers fuzzy queries. Optional; fuzzy requests fail without it.
	Fuzzy doxindex.Searcher

	// Records resolves exact lookups.
	Records RecordLookup
}

// SearchSymbolsInput defines input for the search_symbols tool.
type SearchSymbolsInput struct {
	Query string `json:"query" jsonschema:"Symbol name or prefix, as typed into the documentation search box"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (optional, defaults to 10, at most 50)"`
	Fuzzy bool   `json:"fuzzy,omitempty" jsonschema:"Use full-text fuzzy matching instead of prefix matching (optional)"`
}

// SearchSymbolsOutput defines output for the search_symbols tool.
type SearchSymbolsOutput struct {
	Query   string         `json:"query"`
	Results []SymbolResult `json:"results"`
}

// LookupSymbolInput defines input for the lookup_symbol tool.
type LookupSymbolInput struct {
	Name string `json:"name" jsonschema:"Exact symbol name, e.g. fene or force_calc.cpp"`
}

// LookupSymbolOutput defines output for the lookup_symbol tool.
type LookupSymbolOutput struct {
	Symbol SymbolResult `json:"symbol"`
}

// SymbolResult is one record of the search table.
type SymbolResult struct {
	Key        string      `json:"key"`
	Name       string      `json:"name"`
	Score      float64     `json:"score,omitempty"`
	References []Reference `json:"references"`
}

// Reference is one place a symbol is documented.
type Reference struct {
	Page      string `json:"page"`
	Anchor    string `json:"anchor,omitempty"`
	Signature string `json:"signature,omitempty"`
	File      string `json:"file,omitempty"`
	Scope     string `json:"scope,omitempty"`
}

// NewMCPServer builds an MCP server with the symbol tools registered.
func (s *Server) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "doxindex",
			Version: s.Version,
		},
		nil,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_symbols",
			Description: fmt.Sprintf("Search the documented symbols of %s by name prefix, or fuzzily. Returns matching symbols with the pages documenting them.", s.project()),
		},
		s.SearchSymbols,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "lookup_symbol",
			Description: fmt.Sprintf("Look up one documented symbol of %s by its exact name.", s.project()),
		},
		s.LookupSymbol,
	)

	return server
}

// Run serves the tools over stdin and stdout until ctx is done or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.NewMCPServer().Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) project() string {
	if s.Project == "" {
		return "the project"
	}
	return s.Project
}

// SearchSymbols handles the search_symbols tool.
func (s *Server) SearchSymbols(ctx context.Context, req *mcp.CallToolRequest, input SearchSymbolsInput) (*mcp.CallToolResult, SearchSymbolsOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, SearchSymbolsOutput{}, doxindex.Errorf(doxindex.EINVALID, "query required")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	searcher := s.Searcher
	if input.Fuzzy {
		if s.Fuzzy == nil {
			return nil, SearchSymbolsOutput{}, doxindex.Errorf(doxindex.EINVALID, "fuzzy search is not available")
		}
		searcher = s.Fuzzy
	}

	matches, err := searcher.Search(ctx, query, doxindex.SearchOptions{Limit: limit})
	if err != nil {
		return nil, SearchSymbolsOutput{}, fmt.Errorf("search failed: %w", err)
	}

	output := SearchSymbolsOutput{
		Query:   query,
		Results: make([]SymbolResult, 0, len(matches)),
	}
	for _, m := range matches {
		r := symbolResult(m.Record)
		r.Score = m.Score
		output.Results = append(output.Results, r)
	}
	return nil, output, nil
}

// LookupSymbol handles the lookup_symbol tool.
func (s *Server) LookupSymbol(ctx context.Context, req *mcp.CallToolRequest, input LookupSymbolInput) (*mcp.CallToolResult, LookupSymbolOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, LookupSymbolOutput{}, doxindex.Errorf(doxindex.EINVALID, "name required")
	}

	rec, ok := s.Records.Lookup(doxindex.EncodeKey(name))
	if !ok {
		return nil, LookupSymbolOutput{}, doxindex.Errorf(doxindex.ENOTFOUND, "symbol not found: %s", name)
	}
	return nil, LookupSymbolOutput{Symbol: symbolResult(rec)}, nil
}

func symbolResult(rec *doxindex.Record) SymbolResult {
	r := SymbolResult{
		Key:        rec.Key,
		Name:       rec.Name,
		References: make([]Reference, 0, len(rec.Refs)),
	}
	for _, ref := range rec.Refs {
		info := doxindex.ParseScope(ref.Scope)
		r.References = append(r.References, Reference{
			Page:      strings.TrimPrefix(ref.Page(), "../"),
			Anchor:    ref.Anchor(),
			Signature: info.Signature,
			File:      info.File,
			Scope:     info.Text,
		})
	}
	return r
}
