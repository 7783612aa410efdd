// Package openapi describes the persisted inventory payload as an OpenAPI
// document so other tools can read and validate what the editor stores.
package openapi

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	inventory "github.com/goliatone/go-inventory"
)

// SchemaProvider lets a type with a custom JSON shape describe itself.
type SchemaProvider interface {
	OpenAPISchema() map[string]any
}

var (
	providerType = reflect.TypeOf((*SchemaProvider)(nil)).Elem()
	timeType     = reflect.TypeOf(time.Time{})
)

// Generate builds the storage document for the inventory payload.
func Generate(opts ...GeneratorOption) (map[string]any, error) {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	item, err := Schema(inventory.Item{})
	if err != nil {
		return nil, err
	}
	return newDocumentBuilder(cfg, item).build()
}

// Schema returns the JSON schema of value's type, following json tags.
func Schema(value any) (map[string]any, error) {
	if value == nil {
		return map[string]any{"type": "null"}, nil
	}
	return buildSchema(reflect.TypeOf(value))
}

func buildSchema(rt reflect.Type) (map[string]any, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Interface && rt.Implements(providerType) {
		return reflect.Zero(rt).Interface().(SchemaProvider).OpenAPISchema(), nil
	}

	switch rt.Kind() {
	case reflect.Interface:
		return map[string]any{}, nil
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rt == timeType {
			return map[string]any{"type": "string", "format": "date-time"}, nil
		}
		return schemaForStruct(rt)
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("openapi: map key type %s unsupported", rt.Key())
		}
		values, err := buildSchema(rt.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "object", "additionalProperties": values}, nil
	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return map[string]any{"type": "string", "format": "byte"}, nil
		}
		items, err := buildSchema(rt.Elem())
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "array", "items": items}, nil
	default:
		return nil, fmt.Errorf("openapi: type %s unsupported", rt)
	}
}

func schemaForStruct(rt reflect.Type) (map[string]any, error) {
	properties := map[string]any{}
	var required []string

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		optional := false
		if tag := field.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, flag := range parts[1:] {
				if flag == "omitempty" || flag == "omitzero" {
					optional = true
				}
			}
		}

		child, err := buildSchema(field.Type)
		if err != nil {
			return nil, fmt.Errorf("openapi: field %s: %w", field.Name, err)
		}
		properties[name] = child
		if !optional {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}
