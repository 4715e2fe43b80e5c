package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// fakeServerHandler builds an httptest server that dispatches JSON-RPC
// methods to the supplied handlers, keyed by method name. Unmatched methods
// reply with methodNotFound.
func fakeServerHandler(handlers map[string]func(req request) response) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h, ok := handlers[req.Method]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(response{
				JSONRPC: "2.0", ID: req.ID,
				Error: &rpcError{Code: -32601, Message: "method not found"},
			})
			return
		}
		resp := h(req)
		resp.JSONRPC = "2.0"
		resp.ID = req.ID
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func rawResult(v any) response {
	b, _ := json.Marshal(v)
	return response{Result: b}
}
