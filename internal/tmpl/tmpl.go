// Package tmpl renders string templates against a runtime context.
//
// The engine is stateless: evaluation order of dependent templates (a release
// name template referencing deployment.name, for example) is entirely the
// caller's responsibility.
package tmpl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders templates with the sprig function library plus the
// stevedore lookup functions. Lookups are pure functions over the maps below;
// a reference to a missing entry fails the render.
type Engine struct {
	// Metadata backs the meta function: the active profile's metadata map.
	Metadata map[string]any

	// Params backs the param function: CLI-supplied parameters.
	Params map[string]string
}

// Error is a render-time failure. Path carries the missing metadata or
// parameter path when the failure came from a lookup.
type Error struct {
	Template string
	Path     string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("render %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// lookupError survives text/template's error wrapping so Render can recover
// the missing path.
type lookupError struct {
	kind string
	path string
}

func (e *lookupError) Error() string {
	return fmt.Sprintf("missing %s %q", e.kind, e.path)
}

// Render evaluates one template string against the data map. Strings without
// template syntax pass through unchanged.
func (e *Engine) Render(text string, data map[string]any) (string, error) {
	tpl, err := template.New("stevedore").
		Funcs(sprig.TxtFuncMap()).
		Funcs(e.funcMap()).
		Parse(text)
	if err != nil {
		return "", &Error{Template: text, Err: err}
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		renderErr := &Error{Template: text, Err: err}
		var le *lookupError
		if errors.As(err, &le) {
			renderErr.Path = le.path
			renderErr.Err = le
		}
		return "", renderErr
	}
	return buf.String(), nil
}

// RenderDeep renders every string leaf of a nested structure. Mapping and
// sequence containers are walked recursively; other values pass through.
// With convert set, each rendered string is reinterpreted as a JSON value
// where possible, so a template producing "3" or "true" or an object lands in
// the output as a number, boolean or mapping rather than a quoted string.
func (e *Engine) RenderDeep(value any, data map[string]any, convert bool) (any, error) {
	switch v := value.(type) {
	case string:
		rendered, err := e.Render(v, data)
		if err != nil {
			return nil, err
		}
		if convert {
			return reinterpret(rendered), nil
		}
		return rendered, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			converted, err := e.RenderDeep(item, data, convert)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[k] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			converted, err := e.RenderDeep(item, data, convert)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return value, nil
	}
}

// reinterpret decodes a rendered string as JSON when it parses; plain text
// stays a string.
func reinterpret(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return s
	}
	return v
}

// funcMap returns the stevedore-specific template functions. Lookup
// functions close over the engine's maps, so registration carries no global
// state.
func (e *Engine) funcMap() template.FuncMap {
	return template.FuncMap{
		"meta": func(path string) (any, error) {
			v, ok := lookupPath(e.Metadata, path)
			if !ok {
				return nil, &lookupError{kind: "metadata", path: path}
			}
			return v, nil
		},
		"param": func(name string) (string, error) {
			v, ok := e.Params[name]
			if !ok {
				return "", &lookupError{kind: "parameter", path: name}
			}
			return v, nil
		},
		"sanitize": Sanitize,
		"short":    short,
	}
}

// lookupPath resolves a dotted path against nested string-keyed maps.
func lookupPath(m map[string]any, path string) (any, bool) {
	if m == nil || path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	var current any = m
	for _, part := range parts {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// dnsLabelMax is the longest identifier Sanitize will emit.
const dnsLabelMax = 63

// Sanitize makes a string safe as a DNS-label-like identifier: lowercase,
// every character outside [a-z0-9-] replaced with '-', leading and trailing
// '-' stripped, truncated to 63 characters.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > dnsLabelMax {
		out = strings.Trim(out[:dnsLabelMax], "-")
	}
	return out
}

// short truncates to the first N characters, defaulting to 8. It accepts
// both {{ x | short }} and {{ x | short 12 }} pipeline forms.
func short(args ...any) (string, error) {
	switch len(args) {
	case 1:
		s, ok := args[0].(string)
		if !ok {
			return "", fmt.Errorf("short: expected string, got %T", args[0])
		}
		return truncate(s, 8), nil
	case 2:
		n, ok := toInt(args[0])
		if !ok {
			return "", fmt.Errorf("short: expected integer length, got %T", args[0])
		}
		s, ok := args[1].(string)
		if !ok {
			return "", fmt.Errorf("short: expected string, got %T", args[1])
		}
		return truncate(s, n), nil
	default:
		return "", fmt.Errorf("short: expected 1 or 2 arguments, got %d", len(args))
	}
}

func truncate(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
