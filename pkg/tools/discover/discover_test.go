package discover

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBase mirrors the shared resource base of a client library: it carries
// the router marker plus a helper with a qualifying method shape that must
// never be registered as a tool.
type fakeBase struct {
	desc  string
	opdoc map[string]string
}

func (b *fakeBase) RouterDescription() string { return b.desc }

func (b *fakeBase) OperationDescriptions() map[string]string { return b.opdoc }

func (b *fakeBase) Refresh(_ context.Context) error { return nil }

type getWidgetRequest struct {
	ID string `json:"id"`
}

type widgetsRouter struct {
	fakeBase
	listCalls int
}

func (r *widgetsRouter) List(_ context.Context) ([]string, error) {
	r.listCalls++
	return []string{"w1", "w2"}, nil
}

func (r *widgetsRouter) Get(_ context.Context, req getWidgetRequest) (string, error) {
	return "widget:" + req.ID, nil
}

// Flush has no context parameter and must not be discovered.
func (r *widgetsRouter) Flush() error { return nil }

type badRequest struct {
	Ch chan int `json:"ch"`
}

type gadgetsRouter struct {
	fakeBase
}

func (r *gadgetsRouter) Scan(_ context.Context, _ badRequest) error { return nil }

// plainService does not carry the router marker and must be skipped whole.
type plainService struct{}

func (p *plainService) Ping(_ context.Context) error { return nil }

type fakeClient struct {
	Widgets *widgetsRouter
	Gadgets *gadgetsRouter
	Plain   *plainService
	Missing *widgetsRouter // left nil
	Count   int

	hidden *widgetsRouter //nolint:unused // exercises the exported-field filter
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		Widgets: &widgetsRouter{fakeBase: fakeBase{
			desc:  "Widget store",
			opdoc: map[string]string{"List": "List all widgets."},
		}},
		Gadgets: &gadgetsRouter{fakeBase: fakeBase{desc: "Gadgets"}},
		Plain:   &plainService{},
	}
}

func toolNames(ops []Operation) []string {
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.ToolName)
	}

	return names
}

func opByName(t *testing.T, ops []Operation, name string) *Operation {
	t.Helper()

	for i := range ops {
		if ops[i].ToolName == name {
			return &ops[i]
		}
	}
	t.Fatalf("operation %q not found in %v", name, toolNames(ops))

	return nil
}

func TestDiscoverToolSet(t *testing.T) {
	ops, err := Discover(newFakeClient(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"gadgets__scan", "widgets__get", "widgets__list"}, toolNames(ops))
}

func TestDiscoverDescriptions(t *testing.T) {
	ops, err := Discover(newFakeClient(), nil)
	require.NoError(t, err)

	assert.Equal(t, "List all widgets.", opByName(t, ops, "widgets__list").Description)
	// No per-method description registered: falls back to router.method.
	assert.Equal(t, "widgets.get", opByName(t, ops, "widgets__get").Description)
}

func TestDiscoverSchemas(t *testing.T) {
	ops, err := Discover(newFakeClient(), nil)
	require.NoError(t, err)

	get := opByName(t, ops, "widgets__get")
	require.Len(t, get.Schema.Fields, 1)
	assert.Equal(t, "id", get.Schema.Fields[0].Name)
	assert.True(t, get.Schema.Fields[0].Required)

	// badRequest cannot be derived; the tool degrades to an opaque schema
	// instead of sinking discovery.
	scan := opByName(t, ops, "gadgets__scan")
	assert.True(t, scan.Schema.Opaque)
}

func TestDiscoverExcludesPromoted(t *testing.T) {
	ops, err := Discover(newFakeClient(), nil)
	require.NoError(t, err)

	assert.NotContains(t, toolNames(ops), "widgets__refresh")
	assert.NotContains(t, toolNames(ops), "gadgets__refresh")
}

func TestDiscoverRestartable(t *testing.T) {
	client := newFakeClient()

	first, err := Discover(client, nil)
	require.NoError(t, err)
	second, err := Discover(client, nil)
	require.NoError(t, err)

	assert.Equal(t, toolNames(first), toolNames(second))
}

type collidingClient struct {
	APIKeys *widgetsRouter
	ApiKeys *widgetsRouter
}

func TestDiscoverCollision(t *testing.T) {
	client := &collidingClient{
		APIKeys: &widgetsRouter{},
		ApiKeys: &widgetsRouter{},
	}

	_, err := Discover(client, nil)
	require.Error(t, err)

	var discErr *DiscoveryError
	require.ErrorAs(t, err, &discErr)
	assert.Contains(t, discErr.Reason, "api_keys__get")
}

func TestDiscoverNotIntrospectable(t *testing.T) {
	var discErr *DiscoveryError

	_, err := Discover(42, nil)
	require.ErrorAs(t, err, &discErr)

	_, err = Discover((*fakeClient)(nil), nil)
	require.ErrorAs(t, err, &discErr)
}

func TestOperationInvoke(t *testing.T) {
	ops, err := Discover(newFakeClient(), nil)
	require.NoError(t, err)

	get := opByName(t, ops, "widgets__get")
	req := get.NewRequest()
	require.NoError(t, json.Unmarshal([]byte(`{"id":"z"}`), req))

	result, err := get.Invoke(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "widget:z", result)
}

func TestOperationInvokeNoParams(t *testing.T) {
	client := newFakeClient()
	ops, err := Discover(client, nil)
	require.NoError(t, err)

	list := opByName(t, ops, "widgets__list")
	assert.Nil(t, list.NewRequest())

	result, err := list.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2"}, result)
	assert.Equal(t, 1, client.Widgets.listCalls)
}
