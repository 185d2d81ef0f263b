package owui

import (
	"context"
	"net/url"
)

// FilesRouter groups uploaded-file operations.
type FilesRouter struct {
	resource
}

func newFilesRouter(t *transport) *FilesRouter {
	return &FilesRouter{resource{
		t:    t,
		desc: "Uploaded files: list, inspect and delete files attached to chats or knowledge bases.",
		opdoc: map[string]string{
			"List":   "List the caller's uploaded files.",
			"Get":    "Fetch one file's metadata.",
			"Delete": "Delete an uploaded file.",
		},
	}}
}

// FileMeta is the metadata of one uploaded file.
type FileMeta struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	UserID    string         `json:"user_id"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt int64          `json:"created_at"`
}

// ListFilesRequest has no parameters.
type ListFilesRequest struct{}

// List returns the caller's uploaded files.
func (r *FilesRouter) List(ctx context.Context, _ ListFilesRequest) ([]FileMeta, error) {
	var files []FileMeta
	if err := r.t.get(ctx, "v1/files/", nil, &files); err != nil {
		return nil, err
	}

	return files, nil
}

// GetFileRequest identifies one file.
type GetFileRequest struct {
	ID string `json:"id" jsonschema:"description=File ID."`
}

// Get fetches one file's metadata by ID.
func (r *FilesRouter) Get(ctx context.Context, req GetFileRequest) (*FileMeta, error) {
	var file FileMeta
	if err := r.t.get(ctx, "v1/files/"+url.PathEscape(req.ID), nil, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// DeleteFileRequest identifies the file to delete.
type DeleteFileRequest struct {
	ID string `json:"id" jsonschema:"description=File ID."`
}

// Delete deletes an uploaded file.
func (r *FilesRouter) Delete(ctx context.Context, req DeleteFileRequest) error {
	return r.t.delete(ctx, "v1/files/"+url.PathEscape(req.ID))
}
