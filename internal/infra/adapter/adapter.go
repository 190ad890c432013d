// Package adapter defines the provider contract the interception loop speaks.
// One implementation exists per API family; the loop never depends on a
// concrete transport type.
package adapter

import (
	"context"
	"strings"

	"toolgate/internal/domain"
)

// SearchResult is the synthesized outcome of one intercepted search call,
// keyed by the provider call ID so the follow-up message can reference it.
type SearchResult struct {
	CallID  string
	Content string
}

// Adapter converts between the loop's internal notion of tool lists, tool
// calls, and tool results and one provider wire format.
//
// PrepareRequest must fail fast (before any transport traffic) when the
// request asks for an unsupported mode such as streaming. Send delegates to
// the wrapped transport and must propagate cancellation unchanged.
type Adapter[Req, Resp any] interface {
	// Provider labels log lines and metrics.
	Provider() string
	// PrepareRequest returns a copy of req carrying the given tool list.
	PrepareRequest(req Req, tools []domain.ToolDefinition) (Req, error)
	// Send submits the request and awaits the reply.
	Send(ctx context.Context, req Req) (Resp, error)
	// ToolCalls extracts every tool invocation from a response, in order.
	ToolCalls(resp Resp) []domain.ToolCallRequest
	// IsFinal reports whether the response contains no search-tool call.
	IsFinal(resp Resp) bool
	// AppendSearchRound extends req with the assistant turn from resp and
	// the synthesized search results, producing the next round's request.
	AppendSearchRound(req Req, resp Resp, results []SearchResult) Req
}

// FormatSearchResult renders matched tools into the textual body of a search
// tool result.
func FormatSearchResult(matched []domain.ToolDefinition) string {
	if len(matched) == 0 {
		return "No matching tools found. Try a different search query."
	}
	var sb strings.Builder
	sb.WriteString("Found the following tools:\n")
	for _, tool := range matched {
		sb.WriteString("\n- **")
		sb.WriteString(tool.Name)
		sb.WriteString("**: ")
		sb.WriteString(tool.Description)
	}
	sb.WriteString("\n\nThese tools are now available for you to use.")
	return sb.String()
}
