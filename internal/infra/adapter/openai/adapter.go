// Package openai adapts the interception loop to OpenAI-compatible
// chat-completions APIs.
package openai

import (
	"context"
	"encoding/json"

	"toolgate/internal/domain"
	"toolgate/internal/infra/adapter"
)

// Caller submits a prepared chat-completions request.
type Caller interface {
	CreateChatCompletion(ctx context.Context, req *Request) (*Response, error)
}

// Adapter implements the provider contract for chat completions.
type Adapter struct {
	caller Caller
}

var _ adapter.Adapter[*Request, *Response] = (*Adapter)(nil)

// NewAdapter wraps a caller.
func NewAdapter(caller Caller) *Adapter {
	return &Adapter{caller: caller}
}

// Provider labels log lines and metrics.
func (a *Adapter) Provider() string { return "openai" }

// PrepareRequest returns a copy of req carrying the given tool list in
// function-calling shape. Streaming requests are rejected before any
// transport traffic.
func (a *Adapter) PrepareRequest(req *Request, tools []domain.ToolDefinition) (*Request, error) {
	if req.Stream {
		return nil, domain.Wrap(domain.CodeNotImplemented, "openai.prepare_request", domain.ErrStreamingUnsupported)
	}
	out := *req
	out.Tools = make([]Tool, 0, len(tools))
	for _, tool := range tools {
		parameters, _ := domain.CloneJSONValue(tool.InputSchema).(map[string]any)
		out.Tools = append(out.Tools, Tool{
			Type: "function",
			Function: Function{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  parameters,
			},
		})
	}
	return &out, nil
}

// Send submits the request through the wrapped caller.
func (a *Adapter) Send(ctx context.Context, req *Request) (*Response, error) {
	return a.caller.CreateChatCompletion(ctx, req)
}

// ToolCalls extracts the first choice's tool calls, in order. Argument JSON
// that fails to parse yields a call with nil arguments rather than an error;
// the search handler then sees an empty query.
func (a *Adapter) ToolCalls(resp *Response) []domain.ToolCallRequest {
	var calls []domain.ToolCallRequest
	for _, tc := range firstChoiceToolCalls(resp) {
		var arguments map[string]any
		if tc.Function.Arguments != "" {
			_ = json.Unmarshal([]byte(tc.Function.Arguments), &arguments)
		}
		calls = append(calls, domain.ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: arguments,
		})
	}
	return calls
}

// IsFinal reports whether the response contains no search-tool call.
func (a *Adapter) IsFinal(resp *Response) bool {
	for _, tc := range firstChoiceToolCalls(resp) {
		if tc.Function.Name == domain.SearchToolName {
			return false
		}
	}
	return true
}

// AppendSearchRound extends the conversation with the assistant turn and one
// role=tool message per search call, yielding the next round's request.
func (a *Adapter) AppendSearchRound(req *Request, resp *Response, results []adapter.SearchResult) *Request {
	out := *req
	out.Messages = make([]Message, 0, len(req.Messages)+1+len(results))
	out.Messages = append(out.Messages, req.Messages...)

	if len(resp.Choices) > 0 {
		message := resp.Choices[0].Message
		message.Role = RoleAssistant
		out.Messages = append(out.Messages, message)
	}
	for _, result := range results {
		out.Messages = append(out.Messages, Message{
			Role:       RoleTool,
			Content:    result.Content,
			ToolCallID: result.CallID,
		})
	}
	return &out
}

func firstChoiceToolCalls(resp *Response) []ToolCall {
	if resp == nil || len(resp.Choices) == 0 {
		return nil
	}
	return resp.Choices[0].Message.ToolCalls
}
