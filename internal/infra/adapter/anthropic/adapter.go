// Package anthropic adapts the interception loop to the Anthropic Messages
// API family.
package anthropic

import (
	"context"

	"toolgate/internal/domain"
	"toolgate/internal/infra/adapter"
)

// Caller submits a prepared Messages API request. The HTTP client in this
// package implements it; tests substitute their own.
type Caller interface {
	CreateMessage(ctx context.Context, req *Request) (*Response, error)
}

// Adapter implements the provider contract for the Messages API.
type Adapter struct {
	caller Caller
}

var _ adapter.Adapter[*Request, *Response] = (*Adapter)(nil)

// NewAdapter wraps a caller.
func NewAdapter(caller Caller) *Adapter {
	return &Adapter{caller: caller}
}

// Provider labels log lines and metrics.
func (a *Adapter) Provider() string { return "anthropic" }

// PrepareRequest returns a copy of req carrying the given tool list.
// Streaming requests are rejected before any transport traffic.
func (a *Adapter) PrepareRequest(req *Request, tools []domain.ToolDefinition) (*Request, error) {
	if req.Stream {
		return nil, domain.Wrap(domain.CodeNotImplemented, "anthropic.prepare_request", domain.ErrStreamingUnsupported)
	}
	out := *req
	out.Tools = make([]Tool, 0, len(tools))
	for _, tool := range tools {
		schema, _ := domain.CloneJSONValue(tool.InputSchema).(map[string]any)
		out.Tools = append(out.Tools, Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		})
	}
	return &out, nil
}

// Send submits the request through the wrapped caller.
func (a *Adapter) Send(ctx context.Context, req *Request) (*Response, error) {
	return a.caller.CreateMessage(ctx, req)
}

// ToolCalls extracts every tool_use block, in order.
func (a *Adapter) ToolCalls(resp *Response) []domain.ToolCallRequest {
	var calls []domain.ToolCallRequest
	for _, block := range resp.Content {
		if block.Type != BlockToolUse {
			continue
		}
		calls = append(calls, domain.ToolCallRequest{
			ID:        block.ID,
			Name:      block.Name,
			Arguments: block.Input,
		})
	}
	return calls
}

// IsFinal reports whether the response contains no search-tool call.
func (a *Adapter) IsFinal(resp *Response) bool {
	for _, block := range resp.Content {
		if block.Type == BlockToolUse && block.Name == domain.SearchToolName {
			return false
		}
	}
	return true
}

// AppendSearchRound extends the conversation with the assistant turn and one
// tool_result block per search call, yielding the next round's request.
func (a *Adapter) AppendSearchRound(req *Request, resp *Response, results []adapter.SearchResult) *Request {
	assistant := Message{Role: RoleAssistant}
	for _, block := range resp.Content {
		switch block.Type {
		case BlockText, BlockToolUse, BlockThinking, BlockRedactedThinking:
			assistant.Content = append(assistant.Content, block)
		}
	}

	user := Message{Role: RoleUser}
	for _, result := range results {
		user.Content = append(user.Content, ContentBlock{
			Type:      BlockToolResult,
			ToolUseID: result.CallID,
			Content:   result.Content,
		})
	}

	out := *req
	out.Messages = make([]Message, 0, len(req.Messages)+2)
	out.Messages = append(out.Messages, req.Messages...)
	out.Messages = append(out.Messages, assistant, user)
	return &out
}
