package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var documentSchema []byte

// FieldError is a single schema violation at a document path.
type FieldError struct {
	// Path is the JSON-pointer-style location of the violation.
	Path string

	// Message describes the violation.
	Message string
}

func (e FieldError) String() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}

// SchemaError collects every schema violation found in one validation pass so
// the document can be fixed in a single round trip.
type SchemaError struct {
	Fields []FieldError
}

func (e *SchemaError) Error() string {
	lines := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		lines[i] = f.String()
	}
	return fmt.Sprintf("document validation failed:\n  - %s", strings.Join(lines, "\n  - "))
}

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("document.json", bytes.NewReader(documentSchema)); err != nil {
		panic(fmt.Sprintf("add document schema: %v", err))
	}
	schema, err := compiler.Compile("document.json")
	if err != nil {
		panic(fmt.Sprintf("compile document schema: %v", err))
	}
	return schema
}

// Parse validates raw YAML (or JSON) document bytes against the fixed schema
// and decodes them into a defaulted Document. Schema violations are collected
// exhaustively and returned as a *SchemaError.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if raw == nil {
		return nil, &SchemaError{Fields: []FieldError{{Path: "", Message: "document is empty"}}}
	}

	// The schema validator expects JSON-decoded values, so round-trip the
	// YAML value through JSON before validating.
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(jsonBytes, &instance); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}

	if err := compiledSchema.Validate(instance); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return nil, collectSchemaError(validationErr)
		}
		return nil, fmt.Errorf("validate document: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	applyDocumentDefaults(&doc)
	return &doc, nil
}

// collectSchemaError flattens the validator's error tree into one SchemaError
// with a field-level entry per leaf violation.
func collectSchemaError(err *jsonschema.ValidationError) *SchemaError {
	out := &SchemaError{}

	var collect func(e *jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out.Fields = append(out.Fields, FieldError{
				Path:    e.InstanceLocation,
				Message: e.Message,
			})
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	sort.SliceStable(out.Fields, func(i, j int) bool {
		return out.Fields[i].Path < out.Fields[j].Path
	})
	if len(out.Fields) == 0 {
		out.Fields = []FieldError{{Path: err.InstanceLocation, Message: err.Message}}
	}
	return out
}

// applyDocumentDefaults injects defaults for optional per-entity fields so
// downstream code never sees nil maps or unnamed entries. Profile-level
// option defaults are deliberately not injected here: they form the bottom
// layer of the resolution merge chain, beneath the base profile.
func applyDocumentDefaults(doc *Document) {
	for _, profile := range doc.Profiles {
		if profile.Metadata == nil {
			profile.Metadata = map[string]any{}
		}
		for _, project := range profile.Projects {
			for _, deployment := range project.Deployments {
				if deployment.Values == nil {
					deployment.Values = map[string]any{}
				}
			}
		}
	}
}
