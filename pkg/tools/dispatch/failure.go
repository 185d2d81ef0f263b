package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/germanamz/owui-mcp/pkg/owui"
	"github.com/germanamz/owui-mcp/pkg/tools/toolbox"
)

// Failure kinds, published verbatim on the protocol.
const (
	KindToolNotFound     = "tool_not_found"
	KindInvalidArguments = "invalid_arguments"
	KindRemoteError      = "remote_error"
	KindInternal         = "internal"
)

// Failure is the structured result of a failed invocation. Every error that
// crosses the protocol boundary is rendered as one of these; raw errors and
// stack traces never reach the caller.
type Failure struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"` // offending argument fields
	Status  int      `json:"status,omitempty"` // HTTP status for remote errors
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if len(f.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%s)", f.Kind, f.Message, strings.Join(f.Fields, ", "))
	}

	return f.Kind + ": " + f.Message
}

// JSON renders the failure as its protocol payload.
func (f *Failure) JSON() json.RawMessage {
	data, err := json.Marshal(f)
	if err != nil {
		// Failure contains only plain fields; this cannot happen in practice.
		return json.RawMessage(fmt.Sprintf(`{"kind":%q,"message":"failure encoding failed"}`, f.Kind))
	}

	return data
}

// NotFound is the failure for an unknown tool name.
func NotFound(name string) *Failure {
	return &Failure{Kind: KindToolNotFound, Message: "unknown tool: " + name}
}

// InvalidArguments is the failure for a request that does not match the
// tool's input schema. fields names the offending argument(s).
func InvalidArguments(message string, fields ...string) *Failure {
	return &Failure{Kind: KindInvalidArguments, Message: message, Fields: fields}
}

// FromError classifies an error raised below the gateway into a Failure.
func FromError(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	if errors.Is(err, toolbox.ErrToolNotFound) {
		return &Failure{Kind: KindToolNotFound, Message: err.Error()}
	}

	var apiErr *owui.APIError
	if errors.As(err, &apiErr) {
		return &Failure{Kind: KindRemoteError, Message: apiErr.Error(), Status: apiErr.StatusCode}
	}

	return &Failure{Kind: KindRemoteError, Message: err.Error()}
}
