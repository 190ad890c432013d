package interceptor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolgate/internal/domain"
	"toolgate/internal/infra/adapter"
)

type mockRequest struct {
	tools   []domain.ToolDefinition
	rounds  int
	results []adapter.SearchResult
}

type mockResponse struct {
	text  string
	calls []domain.ToolCallRequest
}

// mockAdapter replays a scripted sequence of responses and records every
// request that reaches Send.
type mockAdapter struct {
	responses []*mockResponse
	errs      []error
	sent      []*mockRequest
}

func (m *mockAdapter) Provider() string { return "mock" }

func (m *mockAdapter) PrepareRequest(req *mockRequest, tools []domain.ToolDefinition) (*mockRequest, error) {
	out := *req
	out.tools = tools
	return &out, nil
}

func (m *mockAdapter) Send(_ context.Context, req *mockRequest) (*mockResponse, error) {
	i := len(m.sent)
	m.sent = append(m.sent, req)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.responses) {
		return nil, errors.New("unexpected extra request")
	}
	return m.responses[i], nil
}

func (m *mockAdapter) ToolCalls(resp *mockResponse) []domain.ToolCallRequest {
	return resp.calls
}

func (m *mockAdapter) IsFinal(resp *mockResponse) bool {
	for _, call := range resp.calls {
		if domain.IsSearchCall(call) {
			return false
		}
	}
	return true
}

func (m *mockAdapter) AppendSearchRound(req *mockRequest, _ *mockResponse, results []adapter.SearchResult) *mockRequest {
	out := *req
	out.rounds++
	out.results = append(append([]adapter.SearchResult(nil), req.results...), results...)
	return &out
}

var _ adapter.Adapter[*mockRequest, *mockResponse] = (*mockAdapter)(nil)

func searchCall(id, query string) domain.ToolCallRequest {
	return domain.ToolCallRequest{
		ID:        id,
		Name:      domain.SearchToolName,
		Arguments: map[string]any{"query": query},
	}
}

func testCatalog() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{Name: "get_weather", Description: "Get the current weather for a location"},
		{Name: "send_email", Description: "Send an email message to a recipient"},
		{Name: "help", Description: "Show usage help"},
	}
}

func toolNames(tools []domain.ToolDefinition) []string {
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	return names
}

func newTestClient(t *testing.T, mock *mockAdapter, opts domain.Options) *Client[*mockRequest, *mockResponse] {
	t.Helper()
	client, err := New[*mockRequest, *mockResponse](mock, testCatalog(), opts)
	require.NoError(t, err)
	return client
}

func TestCreateFinalResponsePassesThrough(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{{text: "hello"}}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	resp, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.text)

	require.Len(t, mock.sent, 1)
	assert.Equal(t, []string{domain.SearchToolName}, toolNames(mock.sent[0].tools),
		"only the search tool is offered before any discovery")
}

func TestCreateExpandsAfterSearch(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{calls: []domain.ToolCallRequest{searchCall("call_1", "weather forecast")}},
		{text: "done"},
	}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	resp, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.text)

	require.Len(t, mock.sent, 2)
	second := mock.sent[1]
	assert.Equal(t, 1, second.rounds)
	assert.Equal(t, []string{domain.SearchToolName, "get_weather"}, toolNames(second.tools))

	require.Len(t, second.results, 1)
	assert.Equal(t, "call_1", second.results[0].CallID)
	assert.Contains(t, second.results[0].Content, "**get_weather**")
	assert.Contains(t, second.results[0].Content, "now available")

	assert.Equal(t, []string{"get_weather"}, client.Discovered())
}

func TestCreateNoMatchStillCountsAsRound(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{calls: []domain.ToolCallRequest{searchCall("call_1", "quantum chromodynamics")}},
		{text: "done"},
	}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	_, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)

	require.Len(t, mock.sent, 2)
	require.Len(t, mock.sent[1].results, 1)
	assert.Equal(t, "No matching tools found. Try a different search query.", mock.sent[1].results[0].Content)
	assert.Empty(t, client.Discovered())
}

func TestCreateRoundLimitReturnsLastResponse(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{calls: []domain.ToolCallRequest{searchCall("call_1", "weather")}},
		{text: "still searching", calls: []domain.ToolCallRequest{searchCall("call_2", "email")}},
	}}
	opts := domain.DefaultOptions()
	opts.MaxSearchRounds = 1
	client := newTestClient(t, mock, opts)

	resp, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)

	// The second search is left unresolved: no third request goes out and
	// the response comes back verbatim.
	assert.Len(t, mock.sent, 2)
	assert.Equal(t, "still searching", resp.text)
	require.Len(t, resp.calls, 1)
	assert.Equal(t, "call_2", resp.calls[0].ID)
}

func TestCreateMixedCallsReturnsImmediately(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{
			text: "using tools",
			calls: []domain.ToolCallRequest{
				searchCall("call_1", "send email"),
				{ID: "call_2", Name: "help"},
			},
		},
	}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	resp, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)
	assert.Equal(t, "using tools", resp.text)
	assert.Len(t, mock.sent, 1, "a real tool call alongside a search ends the loop")

	// The search alongside the real call is still answered into state.
	assert.Contains(t, client.Discovered(), "send_email")
}

func TestCreateMultipleSearchCallsUnion(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{calls: []domain.ToolCallRequest{
			searchCall("call_1", "weather"),
			searchCall("call_2", "send email"),
		}},
		{text: "done"},
	}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	_, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)

	require.Len(t, mock.sent, 2)
	require.Len(t, mock.sent[1].results, 2)
	assert.Equal(t, "call_1", mock.sent[1].results[0].CallID)
	assert.Equal(t, "call_2", mock.sent[1].results[1].CallID)

	discovered := client.Discovered()
	assert.Contains(t, discovered, "get_weather")
	assert.Contains(t, discovered, "send_email")

	// Both discovered tools ride along on the second request, in catalog
	// order after the search tool.
	assert.Equal(t, []string{domain.SearchToolName, "get_weather", "send_email"}, toolNames(mock.sent[1].tools))
}

func TestCreateTransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("connection reset")
	mock := &mockAdapter{errs: []error{transportErr}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	_, err := client.Create(context.Background(), &mockRequest{})
	require.ErrorIs(t, err, transportErr)
	assert.Empty(t, client.Discovered())
}

func TestCreateCancellationLeavesStateUntouched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &mockAdapter{errs: []error{context.Canceled}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	_, err := client.Create(ctx, &mockRequest{})
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeCanceled, code)
	assert.Empty(t, client.Discovered())
}

func TestAlwaysAvailableOfferedFromFirstRequest(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{{text: "hello"}}}
	opts := domain.DefaultOptions()
	opts.AlwaysAvailable = []string{"help"}
	client := newTestClient(t, mock, opts)

	_, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)

	require.Len(t, mock.sent, 1)
	assert.Equal(t, []string{domain.SearchToolName, "help"}, toolNames(mock.sent[0].tools))
	assert.Equal(t, []string{"help"}, client.VisibleNames())
}

func TestAlwaysAvailableToolsAreNotSearchable(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{calls: []domain.ToolCallRequest{searchCall("call_1", "usage help")}},
		{text: "done"},
	}}
	opts := domain.DefaultOptions()
	opts.AlwaysAvailable = []string{"help"}
	client := newTestClient(t, mock, opts)

	_, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)

	assert.Empty(t, client.Discovered(), "always-available tools are outside the searchable set")
	require.Len(t, mock.sent, 2)
	assert.Equal(t, []string{domain.SearchToolName, "help"}, toolNames(mock.sent[1].tools))
}

func TestResetDiscoveries(t *testing.T) {
	mock := &mockAdapter{responses: []*mockResponse{
		{calls: []domain.ToolCallRequest{searchCall("call_1", "weather")}},
		{text: "done"},
	}}
	client := newTestClient(t, mock, domain.DefaultOptions())

	_, err := client.Create(context.Background(), &mockRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, client.Discovered())

	client.ResetDiscoveries()
	assert.Empty(t, client.Discovered())
}

func TestNewRejectsReservedToolName(t *testing.T) {
	catalog := append(testCatalog(), domain.ToolDefinition{Name: domain.SearchToolName})
	_, err := New[*mockRequest, *mockResponse](&mockAdapter{}, catalog, domain.DefaultOptions())
	require.ErrorIs(t, err, domain.ErrReservedToolName)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	opts := domain.DefaultOptions()
	opts.TopK = 0
	_, err := New[*mockRequest, *mockResponse](&mockAdapter{}, testCatalog(), opts)
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidArgument, code)
}

func TestNewRequiresSearchableTools(t *testing.T) {
	opts := domain.DefaultOptions()
	opts.AlwaysAvailable = []string{"get_weather", "send_email", "help"}
	_, err := New[*mockRequest, *mockResponse](&mockAdapter{}, testCatalog(), opts)
	require.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestSearchSurface(t *testing.T) {
	client := newTestClient(t, &mockAdapter{}, domain.DefaultOptions())

	assert.Equal(t, []string{"get_weather"}, client.Search("weather forecast"))

	tools, err := client.Tools([]string{"send_email"})
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "send_email", tools[0].Name)
}
