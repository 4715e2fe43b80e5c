package inmem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goadesign/agentcore/session"
	"github.com/goadesign/agentcore/session/inmem"
)

func TestAppendAndHistoryPreserveOrder(t *testing.T) {
	s := inmem.New()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "sess-1", session.Message{Role: session.RoleUser, Content: "hi"}))
	require.NoError(t, s.Append(ctx, "sess-1", session.Message{Role: session.RoleAssistant, Content: "hello"}))

	history, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, session.RoleUser, history[0].Role)
	assert.Equal(t, session.RoleAssistant, history[1].Role)
}

func TestHistoryUnknownSessionReturnsEmpty(t *testing.T) {
	s := inmem.New()
	history, err := s.History(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := inmem.New()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "a", session.Message{Role: session.RoleUser, Content: "x"}))
	require.NoError(t, s.Append(ctx, "b", session.Message{Role: session.RoleUser, Content: "y"}))

	ha, _ := s.History(ctx, "a")
	hb, _ := s.History(ctx, "b")
	require.Len(t, ha, 1)
	require.Len(t, hb, 1)
	assert.Equal(t, "x", ha[0].Content)
	assert.Equal(t, "y", hb[0].Content)
}
