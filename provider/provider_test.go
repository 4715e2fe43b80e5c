package provider_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/provider"
)

type recordingClient struct {
	lastOpts provider.Options
}

func (c *recordingClient) Generate(ctx context.Context, prompt string, opts provider.Options) (string, error) {
	c.lastOpts = opts
	return "ok: " + prompt, nil
}

func (c *recordingClient) Stream(ctx context.Context, prompt string, opts provider.Options, yield func(string) error) error {
	c.lastOpts = opts
	for _, chunk := range []string{"he", "llo"} {
		if err := yield(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (c *recordingClient) GenerateWithToolCalls(ctx context.Context, prompt string, schemas []provider.ToolSchema, opts provider.Options) (provider.Response, error) {
	c.lastOpts = opts
	if len(schemas) == 0 {
		return provider.Response{Content: prompt, FinishReason: provider.FinishCompleted}, nil
	}
	return provider.Response{
		ToolCalls: []provider.ParsedToolCall{
			{ToolName: schemas[0].Name, Arguments: map[string]any{}},
		},
		FinishReason: provider.FinishToolCalls,
	}, nil
}

var _ provider.Client = (*recordingClient)(nil)

func TestClientGenerateForwardsOptions(t *testing.T) {
	c := &recordingClient{}
	out, err := c.Generate(context.Background(), "hi", provider.Options{Temperature: 0.5, TopP: 0.9})
	require.NoError(t, err)
	assert.Equal(t, "ok: hi", out)
	assert.Equal(t, 0.5, c.lastOpts.Temperature)
}

func TestClientStreamDeliversChunksInOrder(t *testing.T) {
	c := &recordingClient{}
	var got []string
	err := c.Stream(context.Background(), "hi", provider.Options{}, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"he", "llo"}, got)
}

func TestClientGenerateWithToolCallsOnlyWhenSchemasPresent(t *testing.T) {
	c := &recordingClient{}
	resp, err := c.GenerateWithToolCalls(context.Background(), "hi", nil, provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, provider.FinishCompleted, resp.FinishReason)

	resp, err = c.GenerateWithToolCalls(context.Background(), "hi", []provider.ToolSchema{{Name: "search"}}, provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, provider.FinishToolCalls, resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "search", resp.ToolCalls[0].ToolName)
}
