package strategy_test

import (
	"context"

	"github.com/goadesign/agentcore/provider"
)

// fakeClient replays scripted responses in order, one per call, to make
// multi-iteration strategy loops deterministic to test.
type fakeClient struct {
	generateResponses []string
	generateErr       error
	generateCalls     int

	toolCallResponses []provider.Response
	toolCallErr       error
	toolCallCalls     int

	lastPrompt string
}

func (c *fakeClient) Generate(ctx context.Context, prompt string, opts provider.Options) (string, error) {
	c.lastPrompt = prompt
	if c.generateErr != nil {
		return "", c.generateErr
	}
	if c.generateCalls >= len(c.generateResponses) {
		return c.generateResponses[len(c.generateResponses)-1], nil
	}
	resp := c.generateResponses[c.generateCalls]
	c.generateCalls++
	return resp, nil
}

func (c *fakeClient) Stream(ctx context.Context, prompt string, opts provider.Options, yield func(string) error) error {
	return nil
}

func (c *fakeClient) GenerateWithToolCalls(ctx context.Context, prompt string, schemas []provider.ToolSchema, opts provider.Options) (provider.Response, error) {
	c.lastPrompt = prompt
	if c.toolCallErr != nil {
		return provider.Response{}, c.toolCallErr
	}
	if c.toolCallCalls >= len(c.toolCallResponses) {
		return c.toolCallResponses[len(c.toolCallResponses)-1], nil
	}
	resp := c.toolCallResponses[c.toolCallCalls]
	c.toolCallCalls++
	return resp, nil
}

var _ provider.Client = (*fakeClient)(nil)
