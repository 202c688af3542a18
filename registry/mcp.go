// CLAUDE:SUMMARY Registers the expertry MCP tools — list, consult, consult_many, version, instructions.
package registry

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/expertry/kit"
)

// RegisterMCP registers the registry tools on an MCP server.
func (r *Registry) RegisterMCP(srv *mcp.Server) {
	r.registerListTool(srv)
	r.registerConsultTool(srv)
	r.registerConsultManyTool(srv)
	r.registerVersionTool(srv)
	r.registerInstructionsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// wrap applies the shared middleware stack to a tool endpoint.
func (r *Registry) wrap(name string, endpoint kit.Endpoint) kit.Endpoint {
	return kit.Chain(kit.Logging(r.logger, name))(endpoint)
}

// --- list ---

func (r *Registry) registerListTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "expertry_list",
		Description: "List all available experts with their role summaries.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		snap, err := r.Snapshot()
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"experts":  r.listEntries(snap),
			"count":    snap.Len(),
			"version":  snap.Fingerprint(),
			"warnings": snap.Warnings(),
		}, nil
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) {
		return nil, nil
	}

	kit.RegisterMCPTool(srv, tool, r.wrap(tool.Name, endpoint), decode)
}

// --- consult ---

type consultReq struct {
	ID string `json:"id"`
}

func (r *Registry) registerConsultTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "expertry_consult",
		Description: "Consult one expert by exact id and return its full content. Unknown ids fail with a suggestion; content is never guessed.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Expert id (file name without extension)"},
		}, []string{"id"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*consultReq)
		e, err := r.Consult(ctx, rr.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"id":          e.ID,
			"format_hint": e.FormatHint,
			"source":      e.Source,
			"content":     e.Content,
		}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var rr consultReq
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &rr, nil
	}

	kit.RegisterMCPTool(srv, tool, r.wrap(tool.Name, endpoint), decode)
}

// --- consult_many ---

type consultManyReq struct {
	IDs []string `json:"ids"`
}

// consultManyEntry mirrors ConsultResult for the wire: the error becomes
// a string so a batch with misses still serializes per slot.
type consultManyEntry struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r *Registry) registerConsultManyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "expertry_consult_many",
		Description: "Consult several experts in one call. Results come back in the requested order; a missing id yields a per-entry error without aborting the batch.",
		InputSchema: inputSchema(map[string]any{
			"ids": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Expert ids in the order results should be returned",
			},
		}, []string{"ids"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*consultManyReq)
		results, err := r.ConsultMany(ctx, rr.IDs)
		if err != nil {
			return nil, err
		}
		entries := make([]consultManyEntry, 0, len(results))
		for _, res := range results {
			entry := consultManyEntry{ID: res.ID}
			if res.Err != nil {
				entry.Error = res.Err.Error()
			} else {
				entry.Content = res.Expert.Content
			}
			entries = append(entries, entry)
		}
		return map[string]any{"results": entries}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var rr consultManyReq
		if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
			return nil, err
		}
		return &rr, nil
	}

	kit.RegisterMCPTool(srv, tool, r.wrap(tool.Name, endpoint), decode)
}

// --- version ---

func (r *Registry) registerVersionTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "expertry_version",
		Description: "Return the current collection fingerprint and expert count. The fingerprint changes whenever any expert is added, removed, or edited.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return r.Version(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (any, error) {
		return nil, nil
	}

	kit.RegisterMCPTool(srv, tool, r.wrap(tool.Name, endpoint), decode)
}

// --- instructions ---

type instructionsReq struct {
	CallerVersion string `json:"caller_version,omitempty"`
}

func (r *Registry) registerInstructionsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "expertry_instructions",
		Description: "Render the expert onboarding document. Pass your cached instructions version to get a short up-to-date notice instead of the full document when nothing changed.",
		InputSchema: inputSchema(map[string]any{
			"caller_version": map[string]any{"type": "string", "description": "Fingerprint embedded in previously fetched instructions"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		rr := req.(*instructionsReq)
		doc, err := r.Instructions(ctx, rr.CallerVersion)
		if err != nil {
			return nil, err
		}
		return map[string]any{"instructions": doc}, nil
	}

	decode := func(req *mcp.CallToolRequest) (any, error) {
		var rr instructionsReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &rr); err != nil {
				return nil, err
			}
		}
		return &rr, nil
	}

	kit.RegisterMCPTool(srv, tool, r.wrap(tool.Name, endpoint), decode)
}
