// Package dispatch is the gateway between protocol requests and discovered
// operations. Bind turns an Operation into a toolbox.Tool whose handler
// validates arguments against the derived schema, merges defaults, invokes
// the bound method and serializes the outcome. Every failure (unknown
// field, missing argument, remote API error, even a panic in the underlying
// call) is converted to a *Failure at this single choke point so one bad
// request can never take down the serving loop.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/germanamz/owui-mcp/pkg/tools/discover"
	"github.com/germanamz/owui-mcp/pkg/tools/toolbox"
)

// Register binds every operation and adds it to the toolbox. A duplicate
// tool name aborts registration; partial registries must not serve.
func Register(tb *toolbox.ToolBox, ops []discover.Operation) error {
	for i := range ops {
		if err := tb.Register(Bind(&ops[i])); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}

	return nil
}

// Bind wraps one discovered operation as a callable tool.
func Bind(op *discover.Operation) toolbox.Tool {
	return toolbox.Tool{
		Name:        op.ToolName,
		Description: op.Description,
		InputSchema: op.Schema.JSON,
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			return handle(ctx, op, input)
		},
	}
}

// handle runs one invocation: validate, invoke, serialize.
func handle(ctx context.Context, op *discover.Operation, input json.RawMessage) (string, error) {
	req, err := decodeArgs(op, input)
	if err != nil {
		return "", err
	}

	result, err := invoke(ctx, op, req)
	if err != nil {
		return "", FromError(err)
	}

	if result == nil {
		return "null", nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", &Failure{Kind: KindInternal, Message: "serialize result: " + err.Error()}
	}

	return string(data), nil
}

// invoke calls the underlying operation, converting panics into failures so
// a misbehaving collaborator cannot crash the server.
func invoke(ctx context.Context, op *discover.Operation, req any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Failure{Kind: KindInternal, Message: fmt.Sprintf("operation panicked: %v", r)}
		}
	}()

	return op.Invoke(ctx, req)
}

// decodeArgs validates the raw arguments against the operation's schema and
// decodes them into a request value. Unknown fields, missing required fields
// and primitive type mismatches each produce an InvalidArguments failure
// naming the offending field(s), without invoking the operation.
func decodeArgs(op *discover.Operation, input json.RawMessage) (any, error) {
	args, err := argsObject(input)
	if err != nil {
		return nil, err
	}

	req := op.NewRequest()
	if req == nil {
		if len(args) > 0 {
			return nil, InvalidArguments("operation takes no arguments", sortedKeys(args)...)
		}

		return nil, nil
	}

	// Opaque schemas carry no field metadata; decoding is the only check.
	if !op.Schema.Opaque {
		if err := checkFields(op, args); err != nil {
			return nil, err
		}
		mergeDefaults(op, args)
	}

	merged, err := json.Marshal(args)
	if err != nil {
		return nil, &Failure{Kind: KindInternal, Message: "re-encode arguments: " + err.Error()}
	}

	if err := json.Unmarshal(merged, req); err != nil {
		return nil, decodeFailure(err)
	}

	return req, nil
}

// argsObject parses the raw input into a field map. Absent or null input is
// an empty object.
func argsObject(input json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(input))
	if trimmed == "" || trimmed == "null" {
		return map[string]json.RawMessage{}, nil
	}

	var args map[string]json.RawMessage
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, InvalidArguments("arguments must be a JSON object")
	}

	return args, nil
}

// checkFields rejects unknown and missing-required argument fields.
func checkFields(op *discover.Operation, args map[string]json.RawMessage) error {
	known := make(map[string]bool, len(op.Schema.Fields))
	for _, f := range op.Schema.Fields {
		known[f.Name] = true
	}

	var unknown []string
	for name := range args {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return InvalidArguments("unknown argument field(s)", unknown...)
	}

	var missing []string
	for _, f := range op.Schema.Fields {
		if f.Required {
			if _, ok := args[f.Name]; !ok {
				missing = append(missing, f.Name)
			}
		}
	}
	if len(missing) > 0 {
		return InvalidArguments("missing required field(s)", missing...)
	}

	return nil
}

// mergeDefaults fills schema defaults for fields the caller omitted.
func mergeDefaults(op *discover.Operation, args map[string]json.RawMessage) {
	for _, f := range op.Schema.Fields {
		if f.Default == nil {
			continue
		}
		if _, ok := args[f.Name]; ok {
			continue
		}

		if data, err := json.Marshal(f.Default); err == nil {
			args[f.Name] = data
		}
	}
}

// decodeFailure maps a JSON decoding error to an arguments failure, naming
// the field when the decoder reports one.
func decodeFailure(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return InvalidArguments(
			fmt.Sprintf("field %q: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value),
			typeErr.Field,
		)
	}

	return InvalidArguments("decode arguments: " + err.Error())
}

// sortedKeys returns the map's keys in sorted order.
func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
