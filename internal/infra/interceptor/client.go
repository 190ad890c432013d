// Package interceptor drives the request/response cycle that intercepts
// search-tool calls, expands the visible tool set, and resubmits the request.
package interceptor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"toolgate/internal/domain"
	"toolgate/internal/infra/adapter"
	"toolgate/internal/infra/discovery"
	"toolgate/internal/infra/index"
)

// Client wraps one provider adapter with transparent lexical tool search.
//
// Instead of sending the full catalog on every request, only the reserved
// search tool, the always-available tools, and previously discovered tools
// are offered. Search invocations by the model are answered locally from the
// ranking index and the request is resubmitted, bounded by MaxSearchRounds.
//
// The index is immutable and shared safely; the discovery state is mutable
// per client, so concurrent Create calls on one client may interleave
// discovery updates.
type Client[Req, Resp any] struct {
	adapter adapter.Adapter[Req, Resp]
	index   *index.Index
	state   *discovery.State
	always  []domain.ToolDefinition
	opts    domain.Options
	metrics domain.Metrics
	logger  *zap.Logger
}

// New validates the catalog and options and builds a client. A catalog tool
// named like the reserved search tool is rejected here, before any request.
func New[Req, Resp any](
	adp adapter.Adapter[Req, Resp],
	tools []domain.ToolDefinition,
	opts domain.Options,
	settings ...Setting,
) (*Client[Req, Resp], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for _, tool := range tools {
		if tool.Name == "" {
			return nil, domain.E(domain.CodeInvalidArgument, "interceptor.new", "tool with empty name", nil)
		}
		if tool.Name == domain.SearchToolName {
			return nil, domain.E(domain.CodeInvalidArgument, "interceptor.new",
				fmt.Sprintf("tool name %q", tool.Name), domain.ErrReservedToolName)
		}
	}

	always, searchable := splitAlways(tools, opts.AlwaysAvailable)
	idx, err := index.New(searchable)
	if err != nil {
		return nil, err
	}

	alwaysNames := make([]string, len(always))
	for i, tool := range always {
		alwaysNames[i] = tool.Name
	}

	cfg := newSettings(settings)
	client := &Client[Req, Resp]{
		adapter: adp,
		index:   idx,
		state:   discovery.NewState(alwaysNames),
		always:  always,
		opts:    opts,
		metrics: cfg.metrics,
		logger:  cfg.logger.Named("interceptor"),
	}
	client.metrics.SetIndexSize(idx.Len())
	return client, nil
}

// splitAlways partitions the catalog into always-available tools and the
// searchable remainder, both in catalog order. Always-available names absent
// from the catalog are ignored.
func splitAlways(tools []domain.ToolDefinition, alwaysNames []string) (always, searchable []domain.ToolDefinition) {
	alwaysSet := make(map[string]struct{}, len(alwaysNames))
	for _, name := range alwaysNames {
		alwaysSet[name] = struct{}{}
	}
	for _, tool := range tools {
		if _, ok := alwaysSet[tool.Name]; ok {
			always = append(always, domain.CloneToolDefinition(tool))
		} else {
			searchable = append(searchable, tool)
		}
	}
	return always, searchable
}

// Create submits a request, intercepting search-tool calls until the model
// stops searching or the round limit is reached. The last response is
// returned verbatim in either case; a search call left unresolved by the
// round limit is the caller's to observe.
//
// Transport failures, including context cancellation, propagate unchanged
// and leave the discovery state untouched for that round.
func (c *Client[Req, Resp]) Create(ctx context.Context, req Req) (Resp, error) {
	var zero Resp
	provider := c.adapter.Provider()

	rounds := 0
	for {
		visible, err := c.visibleTools()
		if err != nil {
			return zero, err
		}
		prepared, err := c.adapter.PrepareRequest(req, visible)
		if err != nil {
			return zero, err
		}

		resp, err := c.adapter.Send(ctx, prepared)
		if err != nil {
			if ctx.Err() != nil {
				return zero, domain.Wrap(domain.CodeCanceled, "interceptor.create", err)
			}
			return zero, err
		}

		calls := c.adapter.ToolCalls(resp)
		searches := searchCalls(calls)
		if len(searches) == 0 {
			return resp, nil
		}

		if len(searches) < len(calls) {
			// The model asked for a real tool alongside a search; record
			// the discoveries and hand the response back as-is.
			c.runSearches(searches, provider, rounds+1)
			return resp, nil
		}

		if rounds == c.opts.MaxSearchRounds {
			c.logger.Debug("search round limit reached",
				zap.String("provider", provider),
				zap.Int("maxSearchRounds", c.opts.MaxSearchRounds),
			)
			c.metrics.ObserveRoundLimitExhausted(provider)
			return resp, nil
		}
		rounds++

		results := c.runSearches(searches, provider, rounds)
		req = c.adapter.AppendSearchRound(prepared, resp, results)
	}
}

// runSearches answers each search call from the index, unions the matches
// into the discovery state, and synthesizes the tool results.
func (c *Client[Req, Resp]) runSearches(searches []domain.ToolCallRequest, provider string, round int) []adapter.SearchResult {
	started := time.Now()
	results := make([]adapter.SearchResult, 0, len(searches))
	totalMatched := 0
	for _, call := range searches {
		query := call.Query()
		names := c.index.Search(query, c.opts.TopK)
		c.state.Union(names)
		totalMatched += len(names)

		matched, err := c.index.Tools(names)
		if err != nil {
			// Names came from the index a moment ago; this cannot happen
			// unless the index was corrupted.
			panic(err)
		}
		c.logger.Debug("search call answered",
			zap.String("query", query),
			zap.Strings("matched", names),
			zap.Int("round", round),
		)
		results = append(results, adapter.SearchResult{
			CallID:  call.ID,
			Content: adapter.FormatSearchResult(matched),
		})
	}
	c.metrics.ObserveSearchRound(domain.SearchRoundMetric{
		Provider: provider,
		Round:    round,
		Queries:  len(searches),
		Matched:  totalMatched,
		Duration: time.Since(started),
	})
	c.metrics.SetDiscoveredTools(c.state.Size())
	return results
}

// visibleTools composes the tool list for the next request: the reserved
// search tool, the always-available tools, then discovered tools in catalog
// registration order. A discovered name missing from the index means the
// discovery state and the index diverged; that is fatal, not swallowed.
func (c *Client[Req, Resp]) visibleTools() ([]domain.ToolDefinition, error) {
	tools := make([]domain.ToolDefinition, 0, 1+len(c.always)+c.state.Size())
	tools = append(tools, domain.SearchTool())
	tools = append(tools, c.always...)

	for _, name := range c.index.Names() {
		if !c.state.Visible(name) {
			continue
		}
		tool, ok := c.index.Tool(name)
		if !ok {
			return nil, domain.E(domain.CodeInternal, "interceptor.visible_tools",
				fmt.Sprintf("discovered tool %q missing from index", name), nil)
		}
		tools = append(tools, tool)
	}
	return tools, nil
}

func searchCalls(calls []domain.ToolCallRequest) []domain.ToolCallRequest {
	var searches []domain.ToolCallRequest
	for _, call := range calls {
		if domain.IsSearchCall(call) {
			searches = append(searches, call)
		}
	}
	return searches
}

// ResetDiscoveries empties the discovered set, e.g. when a new conversation
// starts. Always-available tools stay visible.
func (c *Client[Req, Resp]) ResetDiscoveries() {
	c.state.Reset()
	c.metrics.SetDiscoveredTools(0)
}

// Search exposes the ranking surface independent of the interception loop.
func (c *Client[Req, Resp]) Search(query string) []string {
	return c.index.Search(query, c.opts.TopK)
}

// Tools resolves names to full definitions, preserving input order.
func (c *Client[Req, Resp]) Tools(names []string) ([]domain.ToolDefinition, error) {
	return c.index.Tools(names)
}

// Discovered returns the discovered tool names, sorted.
func (c *Client[Req, Resp]) Discovered() []string {
	return c.state.Discovered()
}

// VisibleNames returns the names currently visible to the model, sorted.
func (c *Client[Req, Resp]) VisibleNames() []string {
	return c.state.VisibleNames()
}

// Inner returns the wrapped adapter for direct access to the transport.
func (c *Client[Req, Resp]) Inner() adapter.Adapter[Req, Resp] {
	return c.adapter
}
