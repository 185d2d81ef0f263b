package owui

import (
	"context"
	"net/url"
)

// ModelsRouter groups model catalogue operations.
type ModelsRouter struct {
	resource
}

func newModelsRouter(t *transport) *ModelsRouter {
	return &ModelsRouter{resource{
		t:    t,
		desc: "Model catalogue: list available models and fetch one by ID.",
		opdoc: map[string]string{
			"List": "List all models available to the caller.",
			"Get":  "Fetch one model by its ID.",
		},
	}}
}

// Model describes one model exposed by the instance.
type Model struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// ListModelsRequest has no parameters; the catalogue is not paginated.
type ListModelsRequest struct{}

// List returns every model available to the caller.
func (r *ModelsRouter) List(ctx context.Context, _ ListModelsRequest) ([]Model, error) {
	var out struct {
		Data []Model `json:"data"`
	}
	if err := r.t.get(ctx, "models", nil, &out); err != nil {
		return nil, err
	}

	return out.Data, nil
}

// GetModelRequest identifies one model.
type GetModelRequest struct {
	ID string `json:"id" jsonschema:"description=Model ID."`
}

// Get fetches one model by ID.
func (r *ModelsRouter) Get(ctx context.Context, req GetModelRequest) (*Model, error) {
	var out struct {
		Data []Model `json:"data"`
	}
	if err := r.t.get(ctx, "models", url.Values{"id": {req.ID}}, &out); err != nil {
		return nil, err
	}

	if len(out.Data) == 0 {
		return nil, &APIError{StatusCode: 404, Detail: "model not found: " + req.ID}
	}

	return &out.Data[0], nil
}
