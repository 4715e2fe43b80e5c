package mcp

import (
	"context"

	"github.com/goadesign/agentcore/errs"
)

// clientIdentity is sent as initialize's clientInfo (§4.8 capability
// negotiation).
var clientIdentity = clientInfo{Name: "agentcore", Version: "1"}

// Server is a single MCP server connection: the capability-negotiated
// transport plus the handful of mandatory RPCs (§6.1).
type Server struct {
	Name string

	transport    *transport
	capabilities Capabilities
}

// NewServer validates cfg and constructs a Server. It does not perform
// initialize; callers (typically the multi-server Client) call Initialize
// explicitly so construction never blocks on network I/O.
func NewServer(cfg ServerConfig) (*Server, error) {
	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &Server{Name: cfg.Name, transport: t}, nil
}

// Initialize negotiates protocol version and capabilities with the server
// and caches the result (§4.8).
func (s *Server) Initialize(ctx context.Context) (Capabilities, error) {
	params := initializeParams{
		ProtocolVersion: protocolVersion,
		ClientInfo:      clientIdentity,
		Capabilities:    map[string]any{},
	}
	var result initializeResult
	if err := s.transport.call(ctx, "initialize", params, &result); err != nil {
		return Capabilities{}, err
	}
	s.capabilities = capabilitiesFromRaw(result.Capabilities)
	return s.capabilities, nil
}

// Capabilities returns the capabilities negotiated by the last Initialize
// call.
func (s *Server) Capabilities() Capabilities { return s.capabilities }

// ListTools calls tools/list.
func (s *Server) ListTools(ctx context.Context) ([]RemoteTool, error) {
	var result toolsListResult
	if err := s.transport.call(ctx, "tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool calls tools/call and returns the concatenated text content of the
// response. When the server flags the result with isError (a tool execution
// error rather than a transport/protocol error), the text is returned
// together with an *errs.MCPError carrying it as Message.
func (s *Server) CallTool(ctx context.Context, name string, arguments map[string]any) (string, error) {
	params := toolCallParams{Name: name, Arguments: arguments}
	var result toolCallResult
	if err := s.transport.call(ctx, "tools/call", params, &result); err != nil {
		return "", err
	}
	text := joinTextContent(result.Content)
	if result.IsError {
		return text, &errs.MCPError{ServerName: s.Name, Method: "tools/call", Message: text}
	}
	return text, nil
}

// ListResources calls resources/list.
func (s *Server) ListResources(ctx context.Context) ([]RemoteResource, error) {
	var result resourcesListResult
	if err := s.transport.call(ctx, "resources/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource calls resources/read and returns the concatenated text
// content of the response.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	params := resourceReadParams{URI: uri}
	var result resourceReadResult
	if err := s.transport.call(ctx, "resources/read", params, &result); err != nil {
		return "", err
	}
	var text string
	for _, c := range result.Contents {
		text += c.Text
	}
	return text, nil
}

// Close releases any resources held by the server connection. The HTTP
// transport holds nothing that outlives a call, so this is currently a
// no-op; it exists so Server satisfies the same shape CloseAll expects and
// so a future transport (e.g. one holding a persistent SSE stream) has a
// place to release it.
func (s *Server) Close(ctx context.Context) error { return nil }

func joinTextContent(content []toolContent) string {
	var out string
	for _, c := range content {
		out += c.Text
	}
	return out
}
