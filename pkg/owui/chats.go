package owui

import (
	"context"
	"net/url"
	"strconv"
)

// ChatsRouter groups chat operations.
type ChatsRouter struct {
	resource
}

func newChatsRouter(t *transport) *ChatsRouter {
	return &ChatsRouter{resource{
		t:    t,
		desc: "Chat conversations: list, search, fetch, create, archive and delete chats.",
		opdoc: map[string]string{
			"List":    "List the caller's chats, newest first. Paginated.",
			"Search":  "Search chat titles and contents for a query string.",
			"Get":     "Fetch one chat with its full message history.",
			"Create":  "Create a new chat with a title and optional initial content.",
			"Archive": "Archive a chat so it no longer appears in the default list.",
			"Delete":  "Permanently delete a chat.",
		},
	}}
}

// ChatSummary is one entry in a chat listing.
type ChatSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updated_at"`
	CreatedAt int64  `json:"created_at"`
}

// Chat is a full chat record including its message payload.
type Chat struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Chat      map[string]any `json:"chat"`
	Archived  bool           `json:"archived"`
	UpdatedAt int64          `json:"updated_at"`
	CreatedAt int64          `json:"created_at"`
}

// ListChatsRequest selects a page of the caller's chats.
type ListChatsRequest struct {
	Page *int `json:"page,omitempty" jsonschema:"default=1,description=1-based page number."`
}

// List returns a page of the caller's chats.
func (r *ChatsRouter) List(ctx context.Context, req ListChatsRequest) ([]ChatSummary, error) {
	query := url.Values{}
	if req.Page != nil {
		query.Set("page", strconv.Itoa(*req.Page))
	}

	var chats []ChatSummary
	if err := r.t.get(ctx, "v1/chats/list", query, &chats); err != nil {
		return nil, err
	}

	return chats, nil
}

// SearchChatsRequest holds a chat search query.
type SearchChatsRequest struct {
	Text string `json:"text" jsonschema:"description=Text to search for in chat titles and messages."`
	Page *int   `json:"page,omitempty" jsonschema:"default=1,description=1-based page number."`
}

// Search returns chats matching the query text.
func (r *ChatsRouter) Search(ctx context.Context, req SearchChatsRequest) ([]ChatSummary, error) {
	query := url.Values{"text": {req.Text}}
	if req.Page != nil {
		query.Set("page", strconv.Itoa(*req.Page))
	}

	var chats []ChatSummary
	if err := r.t.get(ctx, "v1/chats/search", query, &chats); err != nil {
		return nil, err
	}

	return chats, nil
}

// GetChatRequest identifies one chat.
type GetChatRequest struct {
	ID string `json:"id" jsonschema:"description=Chat ID."`
}

// Get fetches one chat by ID.
func (r *ChatsRouter) Get(ctx context.Context, req GetChatRequest) (*Chat, error) {
	var chat Chat
	if err := r.t.get(ctx, "v1/chats/"+url.PathEscape(req.ID), nil, &chat); err != nil {
		return nil, err
	}

	return &chat, nil
}

// CreateChatRequest carries the initial state of a new chat.
type CreateChatRequest struct {
	Title   string         `json:"title" jsonschema:"description=Chat title."`
	Content map[string]any `json:"content,omitempty" jsonschema:"description=Optional initial chat payload such as messages and models."`
}

// Create creates a new chat.
func (r *ChatsRouter) Create(ctx context.Context, req CreateChatRequest) (*Chat, error) {
	payload := map[string]any{"title": req.Title}
	for k, v := range req.Content {
		payload[k] = v
	}

	var chat Chat
	if err := r.t.post(ctx, "v1/chats/new", map[string]any{"chat": payload}, &chat); err != nil {
		return nil, err
	}

	return &chat, nil
}

// ArchiveChatRequest identifies the chat to archive.
type ArchiveChatRequest struct {
	ID string `json:"id" jsonschema:"description=Chat ID."`
}

// Archive archives a chat.
func (r *ChatsRouter) Archive(ctx context.Context, req ArchiveChatRequest) (*Chat, error) {
	var chat Chat
	if err := r.t.post(ctx, "v1/chats/"+url.PathEscape(req.ID)+"/archive", nil, &chat); err != nil {
		return nil, err
	}

	return &chat, nil
}

// DeleteChatRequest identifies the chat to delete.
type DeleteChatRequest struct {
	ID string `json:"id" jsonschema:"description=Chat ID."`
}

// Delete permanently deletes a chat.
func (r *ChatsRouter) Delete(ctx context.Context, req DeleteChatRequest) error {
	return r.t.delete(ctx, "v1/chats/"+url.PathEscape(req.ID))
}
