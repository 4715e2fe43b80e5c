package mcp

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goadesign/agentcore/errs"
)

// AggregatedTool pairs a RemoteTool with the server it came from, so a
// bridged tool invocation can be routed back to the right server.
type AggregatedTool struct {
	ServerName string
	Tool       RemoteTool
}

// AggregatedResource pairs a RemoteResource with the server it came from.
type AggregatedResource struct {
	ServerName string
	Resource   RemoteResource
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithResourceTTL sets the resource cache TTL (§4.8 "Resource cache"). A
// zero duration disables caching; a negative duration keeps entries until
// manually invalidated. Defaults to 60s.
func WithResourceTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl < 0 {
			ttl = ttlForever
		}
		c.resourceTTL = ttl
	}
}

// Client aggregates tools and resources across N named MCP servers,
// maintaining a tool cache (invalidated on server add/remove) and a
// TTL-based resource cache, both deduplicating concurrent refreshes
// (§4.8 "Multi-server client").
type Client struct {
	mu      sync.RWMutex
	servers map[string]*Server

	resourceTTL time.Duration

	toolCache     *refreshCache[[]AggregatedTool]
	resourceCache *refreshCache[[]AggregatedResource]
}

// NewClient constructs an empty multi-server Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		servers:     make(map[string]*Server),
		resourceTTL: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.toolCache = newRefreshCache[[]AggregatedTool](ttlForever)
	c.resourceCache = newRefreshCache[[]AggregatedResource](c.resourceTTL)
	return c
}

// RegisterServer constructs a Server from cfg, negotiates capabilities, adds
// it to the client, and invalidates the tool cache.
func (c *Client) RegisterServer(ctx context.Context, cfg ServerConfig) error {
	server, err := NewServer(cfg)
	if err != nil {
		return err
	}
	if _, err := server.Initialize(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.servers[cfg.Name] = server
	c.mu.Unlock()

	c.toolCache.invalidate()
	return nil
}

// RemoveServer drops a registered server by name and invalidates the tool
// cache. It is a no-op when name is absent.
func (c *Client) RemoveServer(name string) {
	c.mu.Lock()
	delete(c.servers, name)
	c.mu.Unlock()

	c.toolCache.invalidate()
}

// Server returns the registered server by name.
func (c *Client) Server(name string) (*Server, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.servers[name]
	return s, ok
}

// ServerNames returns every registered server name in no particular order.
func (c *Client) ServerNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	return names
}

// AggregatedTools returns the tools of every registered server, using the
// cache when valid. Concurrent refreshes are deduplicated to a single fetch.
func (c *Client) AggregatedTools(ctx context.Context) ([]AggregatedTool, error) {
	return c.toolCache.get(ctx, func(ctx context.Context) ([]AggregatedTool, error) {
		return c.fetchAllTools(ctx)
	})
}

func (c *Client) fetchAllTools(ctx context.Context) ([]AggregatedTool, error) {
	c.mu.RLock()
	servers := make([]*Server, 0, len(c.servers))
	for _, s := range c.servers {
		servers = append(servers, s)
	}
	c.mu.RUnlock()

	results := make([][]AggregatedTool, len(servers))
	g, gCtx := errgroup.WithContext(ctx)
	for i, server := range servers {
		i, server := i, server
		g.Go(func() error {
			tools, err := server.ListTools(gCtx)
			if err != nil {
				return err
			}
			out := make([]AggregatedTool, len(tools))
			for j, t := range tools {
				out[j] = AggregatedTool{ServerName: server.Name, Tool: t}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []AggregatedTool
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ServerName != all[j].ServerName {
			return all[i].ServerName < all[j].ServerName
		}
		return all[i].Tool.Name < all[j].Tool.Name
	})
	return all, nil
}

// AggregatedResources returns the resources of every registered server,
// using the TTL cache when valid (§4.8 "Resource cache").
func (c *Client) AggregatedResources(ctx context.Context) ([]AggregatedResource, error) {
	return c.resourceCache.get(ctx, func(ctx context.Context) ([]AggregatedResource, error) {
		return c.fetchAllResources(ctx)
	})
}

// InvalidateResourceCache forces the next AggregatedResources call to
// refresh, regardless of TTL.
func (c *Client) InvalidateResourceCache() {
	c.resourceCache.invalidate()
}

func (c *Client) fetchAllResources(ctx context.Context) ([]AggregatedResource, error) {
	c.mu.RLock()
	servers := make([]*Server, 0, len(c.servers))
	for _, s := range c.servers {
		servers = append(servers, s)
	}
	c.mu.RUnlock()

	results := make([][]AggregatedResource, len(servers))
	g, gCtx := errgroup.WithContext(ctx)
	for i, server := range servers {
		i, server := i, server
		g.Go(func() error {
			resources, err := server.ListResources(gCtx)
			if err != nil {
				return err
			}
			out := make([]AggregatedResource, len(resources))
			for j, r := range resources {
				out[j] = AggregatedResource{ServerName: server.Name, Resource: r}
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []AggregatedResource
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ServerName != all[j].ServerName {
			return all[i].ServerName < all[j].ServerName
		}
		return all[i].Resource.URI < all[j].Resource.URI
	})
	return all, nil
}

// CallTool routes a tool invocation to the named server.
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, arguments map[string]any) (string, error) {
	server, ok := c.Server(serverName)
	if !ok {
		return "", &errs.MCPError{ServerName: serverName, Method: "tools/call", Message: "server not registered"}
	}
	return server.CallTool(ctx, toolName, arguments)
}

// ReadResource routes a resource read to the named server.
func (c *Client) ReadResource(ctx context.Context, serverName, uri string) (string, error) {
	server, ok := c.Server(serverName)
	if !ok {
		return "", &errs.MCPError{ServerName: serverName, Method: "resources/read", Message: "server not registered"}
	}
	return server.ReadResource(ctx, uri)
}

// CloseAll closes every registered server concurrently, always clears the
// client's state, and raises a composite *errs.MCPCloseFailed if any server
// failed to close (§4.8).
func (c *Client) CloseAll(ctx context.Context) error {
	c.mu.Lock()
	servers := make(map[string]*Server, len(c.servers))
	for name, s := range c.servers {
		servers[name] = s
	}
	c.servers = make(map[string]*Server)
	c.mu.Unlock()

	c.toolCache.invalidate()
	c.resourceCache.invalidate()

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]error, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = servers[name].Close(ctx)
		}(i, name)
	}
	wg.Wait()

	var failed []string
	var errList []error
	for i, name := range names {
		if results[i] != nil {
			failed = append(failed, name)
			errList = append(errList, fmt.Errorf("%s: %w", name, results[i]))
		}
	}

	if len(failed) > 0 {
		return &errs.MCPCloseFailed{FailedServers: failed, Errors: errList}
	}
	return nil
}
