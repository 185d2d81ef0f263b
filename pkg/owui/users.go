package owui

import (
	"context"
	"net/url"
	"strconv"
)

// UsersRouter groups user administration operations. Most require an admin
// API key; without one the server responds 401.
type UsersRouter struct {
	resource
}

func newUsersRouter(t *transport) *UsersRouter {
	return &UsersRouter{resource{
		t:    t,
		desc: "User administration: list users and fetch one by ID (admin only).",
		opdoc: map[string]string{
			"List": "List registered users. Requires an admin API key.",
			"Get":  "Fetch one user by ID. Requires an admin API key.",
		},
	}}
}

// User is one registered account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// ListUsersRequest selects a page of users.
type ListUsersRequest struct {
	Page *int `json:"page,omitempty" jsonschema:"default=1,description=1-based page number."`
}

// List returns a page of registered users.
func (r *UsersRouter) List(ctx context.Context, req ListUsersRequest) ([]User, error) {
	query := url.Values{}
	if req.Page != nil {
		query.Set("page", strconv.Itoa(*req.Page))
	}

	var users []User
	if err := r.t.get(ctx, "v1/users/", query, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUserRequest identifies one user.
type GetUserRequest struct {
	ID string `json:"id" jsonschema:"description=User ID."`
}

// Get fetches one user by ID.
func (r *UsersRouter) Get(ctx context.Context, req GetUserRequest) (*User, error) {
	var user User
	if err := r.t.get(ctx, "v1/users/"+url.PathEscape(req.ID), nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
