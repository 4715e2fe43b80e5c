package mcp

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/errs"
)

func initOKHandlers(extra map[string]func(request) response) map[string]func(request) response {
	h := map[string]func(request) response{
		"initialize": func(req request) response {
			return rawResult(initializeResult{ProtocolVersion: protocolVersion})
		},
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func TestClientRegisterServerInvalidatesToolCache(t *testing.T) {
	var listCalls int32
	srv := fakeServerHandler(initOKHandlers(map[string]func(request) response{
		"tools/list": func(req request) response {
			atomic.AddInt32(&listCalls, 1)
			return rawResult(toolsListResult{Tools: []RemoteTool{{Name: "search"}}})
		},
	}))
	defer srv.Close()

	c := NewClient()
	require.NoError(t, c.RegisterServer(t.Context(), ServerConfig{Name: "s1", URL: srv.URL}))

	tools, err := c.AggregatedTools(t.Context())
	require.NoError(t, err)
	require.Len(t, tools, 1)

	tools, err = c.AggregatedTools(t.Context())
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls))

	require.NoError(t, c.RegisterServer(t.Context(), ServerConfig{Name: "s2", URL: srv.URL}))

	tools, err = c.AggregatedTools(t.Context())
	require.NoError(t, err)
	assert.Len(t, tools, 2)
	assert.Equal(t, int32(3), atomic.LoadInt32(&listCalls))
}

func TestClientRemoveServerInvalidatesToolCache(t *testing.T) {
	srv := fakeServerHandler(initOKHandlers(map[string]func(request) response{
		"tools/list": func(req request) response {
			return rawResult(toolsListResult{Tools: []RemoteTool{{Name: "search"}}})
		},
	}))
	defer srv.Close()

	c := NewClient()
	require.NoError(t, c.RegisterServer(t.Context(), ServerConfig{Name: "s1", URL: srv.URL}))

	tools, err := c.AggregatedTools(t.Context())
	require.NoError(t, err)
	require.Len(t, tools, 1)

	c.RemoveServer("s1")

	tools, err = c.AggregatedTools(t.Context())
	require.NoError(t, err)
	assert.Len(t, tools, 0)
}

func TestClientAggregatedResourcesCachesWithinTTL(t *testing.T) {
	var listCalls int32
	srv := fakeServerHandler(initOKHandlers(map[string]func(request) response{
		"resources/list": func(req request) response {
			atomic.AddInt32(&listCalls, 1)
			return rawResult(resourcesListResult{Resources: []RemoteResource{{URI: "file://a"}}})
		},
	}))
	defer srv.Close()

	c := NewClient(WithResourceTTL(50 * time.Millisecond))
	require.NoError(t, c.RegisterServer(t.Context(), ServerConfig{Name: "s1", URL: srv.URL}))

	_, err := c.AggregatedResources(t.Context())
	require.NoError(t, err)
	_, err = c.AggregatedResources(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&listCalls))

	time.Sleep(60 * time.Millisecond)
	_, err = c.AggregatedResources(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&listCalls))
}

func TestClientCallToolRoutesToNamedServer(t *testing.T) {
	srv := fakeServerHandler(initOKHandlers(map[string]func(request) response{
		"tools/call": func(req request) response {
			return rawResult(toolCallResult{Content: []toolContent{{Text: "ok"}}})
		},
	}))
	defer srv.Close()

	c := NewClient()
	require.NoError(t, c.RegisterServer(t.Context(), ServerConfig{Name: "s1", URL: srv.URL}))

	out, err := c.CallTool(t.Context(), "s1", "search", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = c.CallTool(t.Context(), "unknown", "search", nil)
	require.Error(t, err)
}

func TestClientCloseAllClearsState(t *testing.T) {
	srv := fakeServerHandler(initOKHandlers(nil))
	defer srv.Close()

	c := NewClient()
	require.NoError(t, c.RegisterServer(t.Context(), ServerConfig{Name: "s1", URL: srv.URL}))

	err := c.CloseAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, c.ServerNames())
}

func TestMCPCloseFailedErrorMessageListsServers(t *testing.T) {
	err := &errs.MCPCloseFailed{FailedServers: []string{"a", "b"}}
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
}
