// Package discover walks a client root, finds its routers and enumerates
// their operations, producing one Operation descriptor per callable tool.
//
// A router is any exported field of the client whose value satisfies the
// Router marker interface. An operation is an exported method defined
// directly on the router (not promoted from an embedded base) with the shape
//
//	func (r *R) Name(ctx context.Context[, req RequestStruct]) ([T,] error)
//
// Discovery runs once at startup. The resulting descriptors are immutable;
// rediscovery requires a fresh process.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/germanamz/owui-mcp/pkg/tools/schema"
)

// Router marks a sub-client whose exported context methods become tools.
// Satisfied structurally; client libraries do not need to import this
// package.
type Router interface {
	RouterDescription() string
}

// operationDescriber is optionally implemented by routers to provide
// per-method descriptions keyed by Go method name.
type operationDescriber interface {
	OperationDescriptions() map[string]string
}

// DiscoveryError is a fatal startup failure: the client root could not be
// introspected, or two operations produced the same tool name. The process
// must not start serving after one.
type DiscoveryError struct {
	Reason string
}

// Error implements the error interface.
func (e *DiscoveryError) Error() string { return "discover: " + e.Reason }

// Operation describes one discovered tool: its names, description, derived
// input schema and the bound method to invoke.
type Operation struct {
	RouterName  string // snake_cased router field name
	MethodName  string // snake_cased method name
	ToolName    string // RouterName + Separator + MethodName
	Description string
	Schema      schema.Schema

	method  reflect.Value // bound method on the router instance
	reqType reflect.Type  // declared request parameter type, nil if none
}

// NewRequest returns a pointer to a zero request struct for the operation,
// or nil when the operation takes no request parameter.
func (op *Operation) NewRequest() any {
	if op.reqType == nil {
		return nil
	}

	base := op.reqType
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	return reflect.New(base).Interface()
}

// Invoke calls the underlying method with the caller's context. req must be
// the pointer returned by NewRequest (ignored for parameterless operations).
// The first return value is nil for operations that only return an error.
func (op *Operation) Invoke(ctx context.Context, req any) (any, error) {
	args := []reflect.Value{reflect.ValueOf(ctx)}

	if op.reqType != nil {
		rv := reflect.ValueOf(req)
		if op.reqType.Kind() != reflect.Pointer {
			rv = rv.Elem()
		}
		args = append(args, rv)
	}

	results := op.method.Call(args)

	errVal := results[len(results)-1]
	var err error
	if !errVal.IsNil() {
		err = errVal.Interface().(error)
	}

	if len(results) == 1 {
		return nil, err
	}

	return results[0].Interface(), err
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Discover walks the client root and returns one Operation per qualifying
// router method, sorted by tool name. log receives schema degradation
// warnings; nil discards them. Returns a *DiscoveryError when the root is
// not introspectable or two operations collide on a tool name.
func Discover(root any, log *slog.Logger) ([]Operation, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	rv := reflect.ValueOf(root)
	if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, &DiscoveryError{Reason: "client root is nil"}
	}
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &DiscoveryError{Reason: fmt.Sprintf("client root %T is not a struct", root)}
	}

	var (
		ops    []Operation
		byName = map[string]Operation{}
	)

	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}

		if _, ok := fv.Interface().(Router); !ok {
			continue
		}

		routerOps := discoverRouter(field.Name, fv, log)

		for _, op := range routerOps {
			if prev, dup := byName[op.ToolName]; dup {
				return nil, &DiscoveryError{Reason: fmt.Sprintf(
					"tool name %q produced by both %s.%s and %s.%s",
					op.ToolName, prev.RouterName, prev.MethodName, op.RouterName, op.MethodName,
				)}
			}
			ops = append(ops, op)
			byName[op.ToolName] = op
		}
	}

	sort.Slice(ops, func(i, j int) bool { return ops[i].ToolName < ops[j].ToolName })

	return ops, nil
}

// discoverRouter enumerates the qualifying methods of one router value.
func discoverRouter(fieldName string, fv reflect.Value, log *slog.Logger) []Operation {
	routerName := snake(fieldName)
	promoted := promotedMethods(fv.Type())

	var opdoc map[string]string
	if d, ok := fv.Interface().(operationDescriber); ok {
		opdoc = d.OperationDescriptions()
	}

	var ops []Operation

	rt := fv.Type()
	for i := range rt.NumMethod() {
		m := rt.Method(i)
		if !m.IsExported() || promoted[m.Name] {
			continue
		}

		reqType, ok := operationShape(m.Type)
		if !ok {
			continue
		}

		methodName := snake(m.Name)
		toolName := ToolName(routerName, methodName)

		s, err := schema.Derive(reqType)
		if err != nil {
			// One bad request type must not sink the whole registry.
			log.Warn("schema derivation failed, degrading to opaque input",
				"tool", toolName, "error", err)
			s = schema.Opaque()
		}

		description := opdoc[m.Name]
		if description == "" {
			description = routerName + "." + methodName
		}

		ops = append(ops, Operation{
			RouterName:  routerName,
			MethodName:  methodName,
			ToolName:    toolName,
			Description: description,
			Schema:      s,
			method:      fv.Method(i),
			reqType:     reqType,
		})
	}

	return ops
}

// operationShape reports whether a method type (receiver included) matches
// the operation contract and returns its request parameter type, nil when the
// method takes only a context.
func operationShape(ft reflect.Type) (reflect.Type, bool) {
	if ft.IsVariadic() || ft.NumIn() < 2 || ft.NumIn() > 3 {
		return nil, false
	}
	if ft.In(1) != ctxType {
		return nil, false
	}
	if ft.NumOut() < 1 || ft.NumOut() > 2 || ft.Out(ft.NumOut()-1) != errType {
		return nil, false
	}

	if ft.NumIn() == 2 {
		return nil, true
	}

	req := ft.In(2)
	base := req
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return nil, false
	}

	return req, true
}

// promotedMethods returns the names of methods reachable only through
// embedded fields. Naive reflection would register base helpers (the marker
// itself included) as tools on every router.
func promotedMethods(rt reflect.Type) map[string]bool {
	base := rt
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return nil
	}

	names := map[string]bool{}

	for i := range base.NumField() {
		field := base.Field(i)
		if !field.Anonymous {
			continue
		}

		et := field.Type
		if et.Kind() != reflect.Pointer {
			et = reflect.PointerTo(et)
		}
		for j := range et.NumMethod() {
			names[et.Method(j).Name] = true
		}
	}

	return names
}
