package owui

import (
	"fmt"
	"net/http"
	"net/url"
)

// DefaultBaseURL is used when Options.BaseURL is empty. It matches a local
// Open WebUI instance on its default port.
const DefaultBaseURL = "http://127.0.0.1:8080/api"

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:8080/api".
	BaseURL string
	// APIKey is the bearer token. Empty means unauthenticated requests;
	// endpoints that require auth will fail with a 401 APIError at call time.
	APIKey string
	// HTTPClient overrides the underlying HTTP client. Nil uses a plain
	// http.Client with no timeout; cancellation comes from the per-call
	// context.
	HTTPClient *http.Client
}

// Client is the root of the Open WebUI API client. Each exported field is a
// router grouping related operations. The router set is fixed at
// construction and routers must not be mutated.
type Client struct {
	Chats     *ChatsRouter
	Models    *ModelsRouter
	Knowledge *KnowledgeRouter
	Files     *FilesRouter
	Users     *UsersRouter

	t *transport
}

// New creates a Client from the given options.
func New(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("owui: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("owui: base url %q: scheme must be http or https", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	t := &transport{
		base:   base,
		apiKey: opts.APIKey,
		client: httpClient,
	}

	return &Client{
		Chats:     newChatsRouter(t),
		Models:    newModelsRouter(t),
		Knowledge: newKnowledgeRouter(t),
		Files:     newFilesRouter(t),
		Users:     newUsersRouter(t),
		t:         t,
	}, nil
}

// Close releases idle connections held by the underlying HTTP client.
func (c *Client) Close() error {
	c.t.client.CloseIdleConnections()
	return nil
}
