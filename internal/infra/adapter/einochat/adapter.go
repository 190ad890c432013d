// Package einochat adapts the interception loop to any chat model behind the
// cloudwego/eino ToolCallingChatModel interface.
package einochat

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"toolgate/internal/domain"
	"toolgate/internal/infra/adapter"
)

// Request is the conversation state carried between rounds: the message
// history plus the tool bindings prepared for the next Generate call.
type Request struct {
	Messages []*schema.Message

	tools []*schema.ToolInfo
}

// NewRequest starts a conversation from a message history.
func NewRequest(messages ...*schema.Message) *Request {
	return &Request{Messages: messages}
}

// Adapter implements the provider contract over an eino chat model. Only the
// non-streaming Generate path is used; streaming is out of scope.
type Adapter struct {
	model model.ToolCallingChatModel
}

var _ adapter.Adapter[*Request, *schema.Message] = (*Adapter)(nil)

// NewAdapter wraps a tool-calling chat model.
func NewAdapter(chatModel model.ToolCallingChatModel) *Adapter {
	return &Adapter{model: chatModel}
}

// Provider labels log lines and metrics.
func (a *Adapter) Provider() string { return "eino" }

// PrepareRequest returns a copy of req with the tool list converted to eino
// tool infos, ready to bind at Send time.
func (a *Adapter) PrepareRequest(req *Request, tools []domain.ToolDefinition) (*Request, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, tool := range tools {
		infos = append(infos, toolInfo(tool))
	}
	out := *req
	out.tools = infos
	return &out, nil
}

// Send binds the prepared tools and generates one reply.
func (a *Adapter) Send(ctx context.Context, req *Request) (*schema.Message, error) {
	chatModel := a.model
	if len(req.tools) > 0 {
		bound, err := chatModel.WithTools(req.tools)
		if err != nil {
			return nil, domain.Wrap(domain.CodeInternal, "einochat.send", err)
		}
		chatModel = bound
	}
	return chatModel.Generate(ctx, req.Messages)
}

// ToolCalls extracts the reply's tool calls, in order.
func (a *Adapter) ToolCalls(resp *schema.Message) []domain.ToolCallRequest {
	var calls []domain.ToolCallRequest
	for _, tc := range resp.ToolCalls {
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

// IsFinal reports whether the reply contains no search-tool call.
func (a *Adapter) IsFinal(resp *schema.Message) bool {
	for _, tc := range resp.ToolCalls {
		if tc.Function.Name == domain.SearchToolName {
			return false
		}
	}
	return true
}

// AppendSearchRound extends the history with the assistant reply and one tool
// message per search call.
func (a *Adapter) AppendSearchRound(req *Request, resp *schema.Message, results []adapter.SearchResult) *Request {
	out := *req
	out.Messages = make([]*schema.Message, 0, len(req.Messages)+1+len(results))
	out.Messages = append(out.Messages, req.Messages...)
	out.Messages = append(out.Messages, resp)
	for _, result := range results {
		out.Messages = append(out.Messages, schema.ToolMessage(result.Content, result.CallID))
	}
	return &out
}
