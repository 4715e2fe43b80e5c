// Package mcp implements an MCP (Model Context Protocol) client: JSON-RPC
// 2.0 over HTTPS with capability negotiation, retries, multi-server tool and
// resource aggregation with caching, and bridging of remote tools/resources
// into the local tool.Registry (§4.8, §6.1).
package mcp

import (
	"encoding/json"

	"github.com/google/uuid"
)

// protocolVersion is the MCP wire protocol version this client negotiates
// during initialize (§6.1).
const protocolVersion = "2024-11-05"

// request is a JSON-RPC 2.0 request envelope (§6.1, bit-exact).
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// response is a JSON-RPC 2.0 response envelope. Exactly one of Result/Error
// is set on a well-formed response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is the JSON-RPC error object.
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// newRequest builds a request with a fresh UUID id (§4.8 step 1).
func newRequest(method string, params any) request {
	return request{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
}

// isReservedErrorCode reports whether code is one of the five JSON-RPC
// reserved codes that must never be retried (§6.1, §8).
func isReservedErrorCode(code int) bool {
	switch code {
	case -32700, -32600, -32601, -32602, -32603:
		return true
	default:
		return false
	}
}

// initializeParams is sent as the params of the initialize method.
type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ClientInfo      clientInfo     `json:"clientInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// initializeResult is the parsed reply to initialize (§4.8 capability
// negotiation).
type initializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    rawCapabilities `json:"capabilities"`
}

type rawCapabilities struct {
	Tools     json.RawMessage `json:"tools"`
	Resources json.RawMessage `json:"resources"`
	Prompts   json.RawMessage `json:"prompts"`
	Sampling  json.RawMessage `json:"sampling"`
}

// Capabilities reports which optional MCP feature areas a server advertised
// during initialize.
type Capabilities struct {
	Tools     bool
	Resources bool
	Prompts   bool
	Sampling  bool
}

func capabilitiesFromRaw(raw rawCapabilities) Capabilities {
	return Capabilities{
		Tools:     raw.Tools != nil,
		Resources: raw.Resources != nil,
		Prompts:   raw.Prompts != nil,
		Sampling:  raw.Sampling != nil,
	}
}

// toolsListResult is the parsed reply to tools/list.
type toolsListResult struct {
	Tools []RemoteTool `json:"tools"`
}

// RemoteTool is a tool descriptor as reported by an MCP server's tools/list.
type RemoteTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// resourcesListResult is the parsed reply to resources/list.
type resourcesListResult struct {
	Resources []RemoteResource `json:"resources"`
}

// RemoteResource is a resource descriptor as reported by an MCP server's
// resources/list.
type RemoteResource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// toolCallParams is sent as the params of tools/call.
type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// toolCallResult is the parsed reply to tools/call.
type toolCallResult struct {
	Content []toolContent `json:"content"`
	IsError bool          `json:"isError"`
}

type toolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// resourceReadParams is sent as the params of resources/read.
type resourceReadParams struct {
	URI string `json:"uri"`
}

// resourceReadResult is the parsed reply to resources/read.
type resourceReadResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}
