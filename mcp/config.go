package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// serverFileConfig is the YAML shape of a single server entry in a
// multi-server config file.
type serverFileConfig struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	APIKey     string `yaml:"apiKey"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"maxRetries"`
}

// fileConfig is the top-level YAML shape loaded by LoadServersFromYAML.
type fileConfig struct {
	Servers []serverFileConfig `yaml:"servers"`
}

// LoadServersFromYAML parses a multi-server configuration file (§6.4's "MCP
// HTTP" surface, declared as a list rather than one-at-a-time) and registers
// every entry against client. Entries are registered sequentially; the first
// failure aborts and is returned.
func LoadServersFromYAML(ctx context.Context, client *Client, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("mcp: read config %q: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("mcp: parse config %q: %w", path, err)
	}

	for _, entry := range cfg.Servers {
		sc := ServerConfig{
			Name:       entry.Name,
			URL:        entry.URL,
			APIKey:     entry.APIKey,
			MaxRetries: entry.MaxRetries,
		}
		if entry.Timeout != "" {
			d, err := time.ParseDuration(entry.Timeout)
			if err != nil {
				return fmt.Errorf("mcp: server %q: invalid timeout %q: %w", entry.Name, entry.Timeout, err)
			}
			sc.Timeout = d
		}
		if err := client.RegisterServer(ctx, sc); err != nil {
			return fmt.Errorf("mcp: server %q: %w", entry.Name, err)
		}
	}
	return nil
}
