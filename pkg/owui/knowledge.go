package owui

import (
	"context"
	"net/url"
)

// KnowledgeRouter groups knowledge-base operations.
type KnowledgeRouter struct {
	resource
}

func newKnowledgeRouter(t *transport) *KnowledgeRouter {
	return &KnowledgeRouter{resource{
		t:    t,
		desc: "Knowledge bases: list, fetch, create and delete knowledge collections.",
		opdoc: map[string]string{
			"List":   "List knowledge bases visible to the caller.",
			"Get":    "Fetch one knowledge base with its file list.",
			"Create": "Create a new knowledge base.",
			"Delete": "Delete a knowledge base.",
		},
	}}
}

// KnowledgeBase is a named collection of files used for retrieval.
type KnowledgeBase struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Files       []FileMeta `json:"files,omitempty"`
	UpdatedAt   int64      `json:"updated_at"`
	CreatedAt   int64      `json:"created_at"`
}

// ListKnowledgeRequest has no parameters.
type ListKnowledgeRequest struct{}

// List returns the knowledge bases visible to the caller.
func (r *KnowledgeRouter) List(ctx context.Context, _ ListKnowledgeRequest) ([]KnowledgeBase, error) {
	var bases []KnowledgeBase
	if err := r.t.get(ctx, "v1/knowledge/", nil, &bases); err != nil {
		return nil, err
	}

	return bases, nil
}

// GetKnowledgeRequest identifies one knowledge base.
type GetKnowledgeRequest struct {
	ID string `json:"id" jsonschema:"description=Knowledge base ID."`
}

// Get fetches one knowledge base by ID.
func (r *KnowledgeRouter) Get(ctx context.Context, req GetKnowledgeRequest) (*KnowledgeBase, error) {
	var base KnowledgeBase
	if err := r.t.get(ctx, "v1/knowledge/"+url.PathEscape(req.ID), nil, &base); err != nil {
		return nil, err
	}

	return &base, nil
}

// CreateKnowledgeRequest carries the fields of a new knowledge base.
type CreateKnowledgeRequest struct {
	Name        string `json:"name" jsonschema:"description=Knowledge base name."`
	Description string `json:"description,omitempty" jsonschema:"description=Optional description."`
}

// Create creates a new knowledge base.
func (r *KnowledgeRouter) Create(ctx context.Context, req CreateKnowledgeRequest) (*KnowledgeBase, error) {
	var base KnowledgeBase
	if err := r.t.post(ctx, "v1/knowledge/create", req, &base); err != nil {
		return nil, err
	}

	return &base, nil
}

// DeleteKnowledgeRequest identifies the knowledge base to delete.
type DeleteKnowledgeRequest struct {
	ID string `json:"id" jsonschema:"description=Knowledge base ID."`
}

// Delete deletes a knowledge base.
func (r *KnowledgeRouter) Delete(ctx context.Context, req DeleteKnowledgeRequest) error {
	return r.t.delete(ctx, "v1/knowledge/"+url.PathEscape(req.ID)+"/delete")
}
