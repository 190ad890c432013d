package anthropic

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolgate/internal/domain"
	"toolgate/internal/infra/adapter"
)

type mockCaller struct {
	createMessage func(ctx context.Context, req *Request) (*Response, error)
}

func (m *mockCaller) CreateMessage(ctx context.Context, req *Request) (*Response, error) {
	return m.createMessage(ctx, req)
}

func TestPrepareRequestAttachesTools(t *testing.T) {
	adp := NewAdapter(&mockCaller{})
	req := &Request{Model: "claude-sonnet-4-5", MaxTokens: 1024}

	tools := []domain.ToolDefinition{
		{
			Name:        "get_weather",
			Description: "Get the current weather",
			InputSchema: map[string]any{"type": "object"},
		},
	}
	prepared, err := adp.PrepareRequest(req, tools)
	require.NoError(t, err)

	require.Len(t, prepared.Tools, 1)
	assert.Equal(t, "get_weather", prepared.Tools[0].Name)
	assert.Equal(t, map[string]any{"type": "object"}, prepared.Tools[0].InputSchema)
	assert.Empty(t, req.Tools, "the original request is not mutated")

	raw, err := json.Marshal(prepared.Tools[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"input_schema"`)
}

func TestPrepareRequestRejectsStreaming(t *testing.T) {
	adp := NewAdapter(&mockCaller{})
	_, err := adp.PrepareRequest(&Request{Stream: true}, nil)
	require.ErrorIs(t, err, domain.ErrStreamingUnsupported)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeNotImplemented, code)
}

func TestToolCallsExtractsToolUseBlocks(t *testing.T) {
	adp := NewAdapter(&mockCaller{})
	resp := &Response{Content: []ContentBlock{
		{Type: BlockText, Text: "Let me look that up."},
		{Type: BlockToolUse, ID: "toolu_1", Name: domain.SearchToolName, Input: map[string]any{"query": "weather"}},
		{Type: BlockToolUse, ID: "toolu_2", Name: "get_weather", Input: map[string]any{"location": "Tokyo"}},
	}}

	calls := adp.ToolCalls(resp)
	require.Len(t, calls, 2)
	assert.Equal(t, "toolu_1", calls[0].ID)
	assert.Equal(t, "weather", calls[0].Query())
	assert.Equal(t, "get_weather", calls[1].Name)

	assert.False(t, adp.IsFinal(resp))
	assert.True(t, adp.IsFinal(&Response{Content: []ContentBlock{{Type: BlockText, Text: "hi"}}}))
}

func TestAppendSearchRoundShape(t *testing.T) {
	adp := NewAdapter(&mockCaller{})
	req := &Request{Messages: []Message{NewUserMessage("find the weather")}}
	resp := &Response{Content: []ContentBlock{
		{Type: BlockThinking, Thinking: "needs a tool", Signature: "sig"},
		{Type: BlockToolUse, ID: "toolu_1", Name: domain.SearchToolName, Input: map[string]any{"query": "weather"}},
	}}

	next := adp.AppendSearchRound(req, resp, []adapter.SearchResult{
		{CallID: "toolu_1", Content: "Found the following tools:"},
	})

	require.Len(t, next.Messages, 3)

	assistant := next.Messages[1]
	assert.Equal(t, RoleAssistant, assistant.Role)
	require.Len(t, assistant.Content, 2)
	assert.Equal(t, BlockThinking, assistant.Content[0].Type, "thinking blocks are preserved verbatim")

	user := next.Messages[2]
	assert.Equal(t, RoleUser, user.Role)
	require.Len(t, user.Content, 1)
	assert.Equal(t, BlockToolResult, user.Content[0].Type)
	assert.Equal(t, "toolu_1", user.Content[0].ToolUseID)
}

func TestSendDelegatesToCaller(t *testing.T) {
	want := &Response{ID: "msg_1"}
	adp := NewAdapter(&mockCaller{
		createMessage: func(_ context.Context, req *Request) (*Response, error) {
			assert.Equal(t, "claude-sonnet-4-5", req.Model)
			return want, nil
		},
	})

	got, err := adp.Send(context.Background(), &Request{Model: "claude-sonnet-4-5"})
	require.NoError(t, err)
	assert.Same(t, want, got)
}
