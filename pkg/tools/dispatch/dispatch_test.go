package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/germanamz/owui-mcp/pkg/owui"
	"github.com/germanamz/owui-mcp/pkg/tools/discover"
	"github.com/germanamz/owui-mcp/pkg/tools/toolbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type base struct{}

func (b *base) RouterDescription() string { return "test router" }

type doRequest struct {
	A int    `json:"a"`
	B string `json:"b,omitempty" jsonschema:"default=x"`
}

type opsRouter struct {
	base
	calls int
	lastA int
	lastB string
}

func (r *opsRouter) Do(_ context.Context, req doRequest) (map[string]any, error) {
	r.calls++
	r.lastA = req.A
	r.lastB = req.B

	return map[string]any{"a": req.A, "b": req.B}, nil
}

func (r *opsRouter) Missing(_ context.Context) error {
	return &owui.APIError{StatusCode: 404, Detail: "chat not found"}
}

func (r *opsRouter) Boom(_ context.Context) error { panic("kaboom") }

func (r *opsRouter) Nothing(_ context.Context) error { return nil }

type testClient struct {
	Ops *opsRouter
}

func setup(t *testing.T) (*opsRouter, *toolbox.ToolBox) {
	t.Helper()

	client := &testClient{Ops: &opsRouter{}}

	ops, err := discover.Discover(client, nil)
	require.NoError(t, err)

	tb := toolbox.New()
	require.NoError(t, Register(tb, ops))

	return client.Ops, tb
}

func call(t *testing.T, tb *toolbox.ToolBox, name, args string) (string, *Failure) {
	t.Helper()

	result, err := tb.Call(context.Background(), name, json.RawMessage(args))
	if err == nil {
		return result, nil
	}

	return "", FromError(err)
}

func TestRegisterToolSet(t *testing.T) {
	_, tb := setup(t)

	var names []string
	for _, tool := range tb.Tools() {
		names = append(names, tool.Name)
	}

	assert.Equal(t, []string{"ops__boom", "ops__do", "ops__missing", "ops__nothing"}, names)
}

func TestRoundTripWithDefault(t *testing.T) {
	router, tb := setup(t)

	result, failure := call(t, tb, "ops__do", `{"a":2}`)
	require.Nil(t, failure)
	assert.JSONEq(t, `{"a":2,"b":"x"}`, result)

	// The omitted optional field arrives with its schema default.
	assert.Equal(t, 1, router.calls)
	assert.Equal(t, 2, router.lastA)
	assert.Equal(t, "x", router.lastB)
}

func TestSuppliedValueBeatsDefault(t *testing.T) {
	router, tb := setup(t)

	_, failure := call(t, tb, "ops__do", `{"a":1,"b":"y"}`)
	require.Nil(t, failure)
	assert.Equal(t, "y", router.lastB)
}

func TestMissingRequiredField(t *testing.T) {
	router, tb := setup(t)

	_, failure := call(t, tb, "ops__do", `{"b":"y"}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindInvalidArguments, failure.Kind)
	assert.Equal(t, []string{"a"}, failure.Fields)
	assert.Zero(t, router.calls, "operation must not run on invalid arguments")
}

func TestUnknownArgumentField(t *testing.T) {
	router, tb := setup(t)

	_, failure := call(t, tb, "ops__do", `{"a":1,"frobnicate":true}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindInvalidArguments, failure.Kind)
	assert.Equal(t, []string{"frobnicate"}, failure.Fields)
	assert.Zero(t, router.calls)
}

func TestWrongFieldType(t *testing.T) {
	router, tb := setup(t)

	_, failure := call(t, tb, "ops__do", `{"a":"not a number"}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindInvalidArguments, failure.Kind)
	assert.Equal(t, []string{"a"}, failure.Fields)
	assert.Zero(t, router.calls)
}

func TestParameterlessOperation(t *testing.T) {
	_, tb := setup(t)

	result, failure := call(t, tb, "ops__nothing", `{}`)
	require.Nil(t, failure)
	assert.Equal(t, "null", result)

	_, failure = call(t, tb, "ops__nothing", `{"x":1}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindInvalidArguments, failure.Kind)
	assert.Equal(t, []string{"x"}, failure.Fields)
}

func TestRemoteErrorDoesNotPoisonDispatch(t *testing.T) {
	_, tb := setup(t)

	_, failure := call(t, tb, "ops__missing", `{}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindRemoteError, failure.Kind)
	assert.Equal(t, 404, failure.Status)
	assert.Contains(t, failure.Message, "chat not found")

	// The loop continues: an unrelated call after the failure succeeds.
	_, failure = call(t, tb, "ops__do", `{"a":1}`)
	assert.Nil(t, failure)
}

func TestPanicRecovered(t *testing.T) {
	_, tb := setup(t)

	_, failure := call(t, tb, "ops__boom", `{}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindInternal, failure.Kind)
	assert.Contains(t, failure.Message, "kaboom")

	_, failure = call(t, tb, "ops__do", `{"a":1}`)
	assert.Nil(t, failure)
}

func TestUnknownTool(t *testing.T) {
	_, tb := setup(t)

	_, failure := call(t, tb, "nope__nothing", `{}`)
	require.NotNil(t, failure)
	assert.Equal(t, KindToolNotFound, failure.Kind)
}

func TestListingStableAcrossCalls(t *testing.T) {
	_, tb := setup(t)

	before := tb.Tools()
	_, _ = call(t, tb, "ops__do", `{"a":1}`)
	_, _ = call(t, tb, "ops__missing", `{}`)
	after := tb.Tools()

	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.JSONEq(t, string(before[i].InputSchema), string(after[i].InputSchema))
	}
}

func TestFailureJSON(t *testing.T) {
	f := InvalidArguments("missing required field(s)", "a")
	assert.JSONEq(t,
		`{"kind":"invalid_arguments","message":"missing required field(s)","fields":["a"]}`,
		string(f.JSON()))
}

func TestFromErrorClassification(t *testing.T) {
	apiErr := &owui.APIError{StatusCode: 401, Detail: "unauthorized"}
	f := FromError(apiErr)
	assert.Equal(t, KindRemoteError, f.Kind)
	assert.Equal(t, 401, f.Status)

	f = FromError(assert.AnError)
	assert.Equal(t, KindRemoteError, f.Kind)

	f = FromError(InvalidArguments("bad", "x"))
	assert.Equal(t, KindInvalidArguments, f.Kind)
}
