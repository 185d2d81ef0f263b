// Package schema derives JSON Schemas for tool inputs from request struct
// types.
//
// Derivation happens in two stages: a visitor walks the type first and checks
// it against a closed set of supported shapes (primitives, pointers, slices,
// string-keyed maps, nested structs, any), bounding nesting depth. A field
// that re-expands a struct already on its expansion path is cut there and
// rendered as an open object, so a self-referencing model keeps the rest of
// its schema. Accepted types are reflected into a JSON Schema with
// invopop/jsonschema; types that fail should be degraded to Opaque() by the
// caller rather than aborting discovery.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cast"
)

// maxDepth bounds nested struct expansion. API request models are shallow;
// anything deeper is treated as unsupported.
const maxDepth = 8

// Field is the dispatch-time metadata of one top-level input field.
type Field struct {
	Name     string // JSON field name.
	Required bool
	Default  any // Typed default value, nil when the field has none.
}

// Schema is the derived input schema of one tool.
type Schema struct {
	// JSON is the JSON Schema document published in tool listings.
	JSON json.RawMessage
	// Fields holds top-level field metadata used for argument validation.
	// Empty for opaque schemas.
	Fields []Field
	// Opaque is true when derivation was degraded to an open object and
	// argument validation must be skipped.
	Opaque bool
}

// EmptyObject returns the schema of an operation that takes no arguments.
func EmptyObject() Schema {
	return Schema{JSON: json.RawMessage(`{"type":"object","properties":{}}`)}
}

// Opaque returns the fallback schema used when derivation fails: any object
// is accepted and validation is left to the underlying operation.
func Opaque() Schema {
	return Schema{JSON: json.RawMessage(`{"type":"object"}`), Opaque: true}
}

// Derive builds the input schema for a request struct type. t may be a
// struct or pointer to struct. Callers should substitute Opaque() when an
// error is returned, so one unsupported type never aborts discovery.
func Derive(t reflect.Type) (Schema, error) {
	if t == nil {
		return EmptyObject(), nil
	}

	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return Schema{}, fmt.Errorf("schema: %s is not a struct type", t)
	}

	elem, err := sanitize(elem, map[reflect.Type]bool{}, 0)
	if err != nil {
		return Schema{}, err
	}

	reflector := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}

	js := reflector.ReflectFromType(elem)
	js.Version = "" // keep tool listings free of the $schema preamble

	raw, err := json.Marshal(js)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: marshal schema for %s: %w", elem, err)
	}

	fields, err := collectFields(elem, js)
	if err != nil {
		return Schema{}, err
	}

	return Schema{JSON: raw, Fields: fields}, nil
}

// anyObject stands in for a struct type that re-expands itself, rendering as
// an open object in the schema.
var anyObject = reflect.TypeOf(map[string]any{})

// sanitize is the shape visitor. It returns the type to reflect the schema
// from, which differs from t only when a cycle had to be cut: a struct
// already on the expansion path is replaced with anyObject so the rest of
// the schema survives. Unsupported kinds and over-deep nesting are errors.
func sanitize(t reflect.Type, path map[reflect.Type]bool, depth int) (reflect.Type, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("schema: %s exceeds max nesting depth %d", t, maxDepth)
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Interface:
		return t, nil
	case reflect.Pointer:
		elem, err := sanitize(t.Elem(), path, depth+1)
		if err != nil || elem == t.Elem() {
			return t, err
		}
		return reflect.PointerTo(elem), nil
	case reflect.Slice:
		elem, err := sanitize(t.Elem(), path, depth+1)
		if err != nil || elem == t.Elem() {
			return t, err
		}
		return reflect.SliceOf(elem), nil
	case reflect.Array:
		elem, err := sanitize(t.Elem(), path, depth+1)
		if err != nil || elem == t.Elem() {
			return t, err
		}
		return reflect.ArrayOf(t.Len(), elem), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("schema: map key of %s must be a string", t)
		}
		elem, err := sanitize(t.Elem(), path, depth+1)
		if err != nil || elem == t.Elem() {
			return t, err
		}
		return reflect.MapOf(t.Key(), elem), nil
	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return t, nil
		}
		if path[t] {
			return anyObject, nil
		}
		path[t] = true
		defer delete(path, t)

		return sanitizeStruct(t, path, depth)
	default:
		return nil, fmt.Errorf("schema: unsupported kind %s in %s", t.Kind(), t)
	}
}

// sanitizeStruct rebuilds a struct type when any of its fields had a cycle
// cut, preserving names and tags. Unchanged structs are returned as-is.
func sanitizeStruct(t reflect.Type, path map[reflect.Type]bool, depth int) (reflect.Type, error) {
	rebuilt := make([]reflect.StructField, 0, t.NumField())
	changed := false

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || jsonName(f) == "" {
			continue
		}

		ft, err := sanitize(f.Type, path, depth+1)
		if err != nil {
			return nil, err
		}
		if ft != f.Type {
			changed = true
			f.Type = ft
			f.Anonymous = false
			f.Index = nil
			f.Offset = 0
		}
		rebuilt = append(rebuilt, f)
	}

	if !changed {
		return t, nil
	}

	return reflect.StructOf(rebuilt), nil
}

// collectFields extracts top-level field metadata from the struct type and
// the reflected schema. Defaults are coerced to the Go field's kind so they
// can later be merged into argument payloads without type mismatches.
func collectFields(t reflect.Type, js *jsonschema.Schema) ([]Field, error) {
	required := make(map[string]bool, len(js.Required))
	for _, name := range js.Required {
		required[name] = true
	}

	fields := make([]Field, 0, t.NumField())

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := jsonName(f)
		if name == "" {
			continue
		}

		var def any
		if js.Properties != nil {
			if prop, ok := js.Properties.Get(name); ok && prop.Default != nil {
				coerced, err := coerceDefault(prop.Default, f.Type)
				if err != nil {
					return nil, fmt.Errorf("schema: default for field %q: %w", name, err)
				}
				def = coerced
			}
		}

		fields = append(fields, Field{
			Name:     name,
			Required: required[name],
			Default:  def,
		})
	}

	return fields, nil
}

// jsonName returns the effective JSON name of a struct field, or "" when the
// field is excluded from serialization.
func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}

	return name
}

// coerceDefault converts a schema default (typically a tag string) to the Go
// field's kind so it round-trips through JSON into the field cleanly.
func coerceDefault(v any, t reflect.Type) (any, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Bool:
		return cast.ToBoolE(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToInt64E(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToUint64E(v)
	case reflect.Float32, reflect.Float64:
		return cast.ToFloat64E(v)
	case reflect.String:
		return cast.ToStringE(v)
	default:
		return v, nil
	}
}
