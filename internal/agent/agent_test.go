package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/tools"
)

// scriptedProvider replays responses in order and records every
// conversation it was sent.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []schema.LLMResponse
	err       error
	errAt     int // 1-based call number that fails; 0 = never
	calls     []schema.Messages
	toolDefs  [][]map[string]any
}

func (p *scriptedProvider) Chat(_ context.Context, msgs schema.Messages, defs []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, msgs.Clone())
	p.toolDefs = append(p.toolDefs, defs)
	n := len(p.calls)
	if p.errAt == n {
		return schema.LLMResponse{}, p.err
	}
	if n > len(p.responses) {
		return p.responses[len(p.responses)-1], nil
	}
	return p.responses[n-1], nil
}

func (p *scriptedProvider) DefaultModel() string { return "stub-model" }

func text(s string) *string { return &s }

func final(s string) schema.LLMResponse { return schema.LLMResponse{Content: text(s)} }

func callTools(calls ...schema.ToolCall) schema.LLMResponse {
	return schema.LLMResponse{ToolCalls: calls}
}

// stubTool is a configurable schema.Tool.
type stubTool struct {
	name   string
	params string
	run    func(schema.Args) (string, error)

	mu   sync.Mutex
	seen []schema.Args
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub " + s.name }
func (s *stubTool) Parameters() json.RawMessage {
	if s.params == "" {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return json.RawMessage(s.params)
}
func (s *stubTool) Execute(_ context.Context, args schema.Args) (string, error) {
	s.mu.Lock()
	s.seen = append(s.seen, args)
	s.mu.Unlock()
	if s.run == nil {
		return s.name + " ok", nil
	}
	return s.run(args)
}

func newTestAgent(t *testing.T, p schema.LLMProvider, maxSteps int, ts ...schema.Tool) *Agent {
	t.Helper()
	a, err := New(p, tools.NewToolList(ts...), Settings{MaxSteps: maxSteps, SystemPrompt: "be useful"})
	require.NoError(t, err)
	return a
}

func toolResults(msgs schema.Messages) []schema.Message {
	var out []schema.Message
	for _, m := range msgs.Messages {
		if m.Role == schema.RoleTool {
			out = append(out, m)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil, Settings{})
	assert.Error(t, err)

	a, err := New(&scriptedProvider{}, nil, Settings{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxSteps, a.settings.MaxSteps)
	assert.Equal(t, "stub-model", a.settings.Model)
	assert.Equal(t, SystemPrompt, a.systemPrompt)
}

func TestRun_DirectAnswer(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{final("Hello!")}}
	a := newTestAgent(t, p, 0)

	reply, ok, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hello!", reply)

	require.Len(t, p.calls, 1)
	msgs := p.calls[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.RoleSystem, msgs[0].Role)
	assert.Equal(t, "be useful", msgs[0].Text())
	assert.Equal(t, schema.RoleUser, msgs[1].Role)
	assert.Equal(t, "hi", msgs[1].Text())
}

func TestRun_BlankPromptMakesNoCall(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{final("x")}}
	a := newTestAgent(t, p, 0)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, ok, err := a.Run(context.Background(), prompt)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.False(t, ok)
	}
	assert.Empty(t, p.calls)
}

func TestRun_ToolRoundTrip(t *testing.T) {
	create := &stubTool{
		name:   "create_airtable_record",
		params: `{"type":"object","properties":{"fields":{"type":"object"}},"required":["fields"]}`,
		run: func(a schema.Args) (string, error) {
			f, _ := a.Map("fields")
			return "Successfully created record rec1: " + f["Name"].(string), nil
		},
	}
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(schema.ToolCall{ID: "c1", Name: "create_airtable_record", Arguments: `{"fields":{"Name":"Buy milk"}}`}),
		final("Added Buy milk ✅"),
	}}
	a := newTestAgent(t, p, 0, create)

	reply, ok, err := a.Run(context.Background(), "add a task to buy milk")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Added Buy milk ✅", reply)

	require.Len(t, create.seen, 1)
	assert.Equal(t, map[string]any{"Name": "Buy milk"}, create.seen[0]["fields"])

	require.Len(t, p.calls, 2)
	second := p.calls[1].Messages
	require.Len(t, second, 4)
	assert.Equal(t, schema.RoleAssistant, second[2].Role)
	require.Len(t, second[2].ToolCalls, 1)
	assert.Equal(t, `{"fields":{"Name":"Buy milk"}}`, second[2].ToolCalls[0].Arguments)
	assert.Equal(t, schema.RoleTool, second[3].Role)
	assert.Equal(t, "c1", second[3].ToolCallID)
	assert.Contains(t, second[3].Text(), "Buy milk")

	require.Len(t, p.toolDefs[0], 1)
}

func TestRun_StepsExhausted(t *testing.T) {
	loop := callTools(schema.ToolCall{ID: "c", Name: "noop", Arguments: `{}`})
	p := &scriptedProvider{responses: []schema.LLMResponse{loop}}
	a := newTestAgent(t, p, 3, &stubTool{name: "noop"})

	reply, ok, err := a.Run(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, reply)
	assert.Len(t, p.calls, 3)
}

func TestRun_MaxStepsOneMakesOneCall(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(schema.ToolCall{ID: "c", Name: "noop"}),
	}}
	noop := &stubTool{name: "noop"}
	a := newTestAgent(t, p, 1, noop)

	_, ok, err := a.Run(context.Background(), "go")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, p.calls, 1)
	assert.Len(t, noop.seen, 1)
}

func TestRun_UnknownToolListsRegisteredNames(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(schema.ToolCall{ID: "c1", Name: "launch_rocket", Arguments: `{}`}),
		final("sorry"),
	}}
	a := newTestAgent(t, p, 0, &stubTool{name: "beta"}, &stubTool{name: "alpha"})

	reply, ok, err := a.Run(context.Background(), "launch")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sorry", reply)

	results := toolResults(p.calls[1])
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ToolCallID)
	assert.Contains(t, results[0].Text(), "launch_rocket")
	assert.Contains(t, results[0].Text(), "alpha, beta")
	assert.Contains(t, results[0].Text(), ErrToolNotFound.Error())
}

func TestRun_UnknownToolEveryStepExhaustsBudget(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(schema.ToolCall{ID: "c1", Name: "launch_rocket", Arguments: `{}`}),
	}}
	a := newTestAgent(t, p, 3, &stubTool{name: "beta"}, &stubTool{name: "alpha"})

	reply, ok, err := a.Run(context.Background(), "launch")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, reply)
	require.Len(t, p.calls, 3)

	for i, msgs := range p.calls[1:] {
		results := toolResults(msgs)
		require.Len(t, results, i+1)
		for _, r := range results {
			assert.Contains(t, r.Text(), ErrToolNotFound.Error())
			assert.Contains(t, r.Text(), "Available tools: alpha, beta")
		}
	}
}

func TestRun_BadArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"malformed json", `{"fields":`, "malformed JSON"},
		{"not an object", `["a"]`, "expected a JSON object"},
		{"schema violation", `{"fields":"oops"}`, "fields: expected object"},
		{"missing required", `{}`, `missing required property "fields"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := &stubTool{
				name:   "create",
				params: `{"type":"object","properties":{"fields":{"type":"object"}},"required":["fields"]}`,
			}
			p := &scriptedProvider{responses: []schema.LLMResponse{
				callTools(schema.ToolCall{ID: "c1", Name: "create", Arguments: tt.args}),
				final("fixed"),
			}}
			a := newTestAgent(t, p, 0, tool)

			_, ok, err := a.Run(context.Background(), "create")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Empty(t, tool.seen)

			results := toolResults(p.calls[1])
			require.Len(t, results, 1)
			assert.Contains(t, results[0].Text(), ErrInvalidToolArguments.Error())
			assert.Contains(t, results[0].Text(), tt.want)
		})
	}
}

func TestRun_EmptyArgumentsMeanEmptyObject(t *testing.T) {
	list := &stubTool{name: "airtable_get_all_records"}
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(schema.ToolCall{ID: "c1", Name: "airtable_get_all_records", Arguments: ""}),
		final("done"),
	}}
	a := newTestAgent(t, p, 0, list)

	_, ok, err := a.Run(context.Background(), "list")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, list.seen, 1)
	assert.Empty(t, list.seen[0])
}

func TestRun_ToolFailuresAreRecovered(t *testing.T) {
	failing := &stubTool{name: "failing", run: func(schema.Args) (string, error) {
		return "", errors.New("disk full")
	}}
	panicking := &stubTool{name: "panicking", run: func(schema.Args) (string, error) {
		panic("nil map")
	}}
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(
			schema.ToolCall{ID: "c1", Name: "failing", Arguments: `{}`},
			schema.ToolCall{ID: "c2", Name: "panicking", Arguments: `{}`},
		),
		final("recovered"),
	}}
	a := newTestAgent(t, p, 0, failing, panicking)

	reply, ok, err := a.Run(context.Background(), "try")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "recovered", reply)

	results := toolResults(p.calls[1])
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].ToolCallID)
	assert.Contains(t, results[0].Text(), "failing")
	assert.Contains(t, results[0].Text(), "disk full")
	assert.Equal(t, "c2", results[1].ToolCallID)
	assert.Contains(t, results[1].Text(), "panicking")
	assert.Contains(t, results[1].Text(), "nil map")
}

func TestRun_ResultsFollowRequestOrder(t *testing.T) {
	var order []string
	record := func(name string) *stubTool {
		return &stubTool{name: name, run: func(schema.Args) (string, error) {
			order = append(order, name)
			return name + " result", nil
		}}
	}
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(
			schema.ToolCall{ID: "b", Name: "second", Arguments: `{}`},
			schema.ToolCall{ID: "a", Name: "first", Arguments: `{}`},
		),
		final("ok"),
	}}
	a := newTestAgent(t, p, 0, record("first"), record("second"))

	_, _, err := a.Run(context.Background(), "both")
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, order)

	msgs := p.calls[1].Messages
	require.Len(t, msgs, 5)
	assert.Equal(t, "b", msgs[3].ToolCallID)
	assert.Equal(t, "second result", msgs[3].Text())
	assert.Equal(t, "a", msgs[4].ToolCallID)
	assert.Equal(t, "first result", msgs[4].Text())
}

func TestRun_NormalisesToolCallIDs(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		callTools(
			schema.ToolCall{ID: "", Name: "noop", Arguments: `{}`},
			schema.ToolCall{ID: "dup", Name: "noop", Arguments: `{}`},
			schema.ToolCall{ID: "dup", Name: "noop", Arguments: `{}`},
		),
		final("ok"),
	}}
	a := newTestAgent(t, p, 0, &stubTool{name: "noop"})

	_, ok, err := a.Run(context.Background(), "ids")
	require.NoError(t, err)
	assert.True(t, ok)

	msgs := p.calls[1].Messages
	calls := msgs[2].ToolCalls
	require.Len(t, calls, 3)
	results := toolResults(p.calls[1])
	require.Len(t, results, 3)

	seen := map[string]bool{}
	for i, tc := range calls {
		assert.NotEmpty(t, tc.ID)
		assert.False(t, seen[tc.ID], "duplicate id %s", tc.ID)
		seen[tc.ID] = true
		assert.Equal(t, tc.ID, results[i].ToolCallID)
	}
	assert.Equal(t, "dup", calls[1].ID)
	assert.True(t, strings.HasPrefix(calls[0].ID, "call_"))
	assert.True(t, strings.HasPrefix(calls[2].ID, "call_"))
}

func TestRun_ProviderError(t *testing.T) {
	boom := errors.New("connection reset")
	p := &scriptedProvider{
		responses: []schema.LLMResponse{callTools(schema.ToolCall{ID: "c", Name: "noop", Arguments: `{}`})},
		err:       boom,
		errAt:     2,
	}
	a := newTestAgent(t, p, 0, &stubTool{name: "noop"})

	reply, ok, err := a.Run(context.Background(), "fail later")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, reply)
	assert.ErrorIs(t, err, ErrProviderCommunication)
	assert.ErrorIs(t, err, boom)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Step)
	assert.Len(t, p.calls, 2)
}

func TestRun_NilContentFinalAnswer(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{{}}}
	a := newTestAgent(t, p, 0)

	reply, ok, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, reply)
}

func TestSummary_UsesSummaryPrompt(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{final("📊 3 tasks")}}
	a := newTestAgent(t, p, 0)

	reply, ok, err := a.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "📊 3 tasks", reply)
	assert.Equal(t, SummaryPrompt, p.calls[0].Messages[1].Text())
}

func TestRun_ConcurrentRunsAreIndependent(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{final("ok")}}
	a := newTestAgent(t, p, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := a.Run(context.Background(), "hi")
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	for _, c := range p.calls {
		assert.Equal(t, 2, c.Len())
	}
}
