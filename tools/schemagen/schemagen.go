// Package main generates the JSON schema of structured guilt reports from
// the report.Document type.
//
// Field constraints come from the `schema` struct tag, a comma-separated
// list of minLength=N, minimum=N and nonzero.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/guilt/pkg/report"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

// errUnsupportedConstraint indicates an unknown `schema` tag entry.
var errUnsupportedConstraint = errors.New("unsupported schema constraint")

// Schema represents a JSON Schema.
type Schema struct {
	Schema               string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	Minimum              *int               `json:"minimum,omitempty"`
	Not                  *Schema            `json:"not,omitempty"`
	Const                *int               `json:"const,omitempty"`
	Ref                  string             `json:"$ref,omitempty"`
	Definitions          map[string]*Schema `json:"definitions,omitempty"`
}

func main() {
	output := flag.String("o", "pkg/report/schema/report.schema.json", "Output path for the report schema")
	flag.Parse()

	schema, err := generateSchema(report.Document{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = writeSchema(*output, schema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", *output)
}

func generateSchema(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	defs := make(map[string]*Schema)

	root, err := objectSchema(t, defs)
	if err != nil {
		return nil, err
	}

	root.Schema = draft07
	root.Title = "guilt report"
	root.Description = "Ownership deltas between two revisions, split by line and byte attribution."

	if len(defs) > 0 {
		root.Definitions = defs
	}

	return root, nil
}

func objectSchema(t reflect.Type, defs map[string]*Schema) (*Schema, error) {
	props := make(map[string]*Schema)

	var required []string

	for i := range t.NumField() {
		field := t.Field(i)
		jsonTag := field.Tag.Get("json")

		if jsonTag == "-" || jsonTag == "" {
			continue
		}

		name, opts, _ := strings.Cut(jsonTag, ",")

		fieldSchema, err := typeToSchema(field.Type, defs)
		if err != nil {
			return nil, err
		}

		err = applyConstraints(fieldSchema, field.Tag.Get("schema"))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), field.Name, err)
		}

		props[name] = fieldSchema

		if opts != "omitempty" {
			required = append(required, name)
		}
	}

	closed := false

	return &Schema{
		Type:                 "object",
		Properties:           props,
		Required:             required,
		AdditionalProperties: &closed,
	}, nil
}

func typeToSchema(t reflect.Type, defs map[string]*Schema) (*Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil

	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil

	case reflect.Slice:
		items, err := typeToSchema(t.Elem(), defs)
		if err != nil {
			return nil, err
		}

		return &Schema{Type: "array", Items: items}, nil

	case reflect.Struct:
		defName := t.Name()
		if defName == "" {
			return objectSchema(t, defs)
		}

		if _, exists := defs[defName]; !exists {
			def, err := objectSchema(t, defs)
			if err != nil {
				return nil, err
			}

			defs[defName] = def
		}

		return &Schema{Ref: "#/definitions/" + defName}, nil

	case reflect.Ptr:
		return typeToSchema(t.Elem(), defs)

	default:
		return &Schema{Type: "object"}, nil
	}
}

func applyConstraints(s *Schema, tag string) error {
	if tag == "" {
		return nil
	}

	for constraint := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(constraint, "=")

		switch key {
		case "nonzero":
			zero := 0
			s.Not = &Schema{Const: &zero}
		case "minLength", "minimum":
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%w: %q", errUnsupportedConstraint, constraint)
			}

			if key == "minLength" {
				s.MinLength = &n
			} else {
				s.Minimum = &n
			}
		default:
			return fmt.Errorf("%w: %q", errUnsupportedConstraint, constraint)
		}
	}

	return nil
}

func writeSchema(path string, schema *Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0o600) //nolint:wrapcheck // path is the caller's argument.
}
