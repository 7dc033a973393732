package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/resolve"
)

// parseOverrides converts the raw --option/--metadata/--project/--param
// flag values into structured overrides.
func parseOverrides() (resolve.Overrides, error) {
	var out resolve.Overrides

	for _, raw := range flagOptions {
		key, value, err := splitKeyValue(raw, "--option")
		if err != nil {
			return out, err
		}
		if err := setOption(&out.Options, key, value); err != nil {
			return out, err
		}
	}

	out.Metadata = map[string]any{}
	for _, raw := range flagMetadata {
		key, value, err := splitKeyValue(raw, "--metadata")
		if err != nil {
			return out, err
		}
		setNested(out.Metadata, key, scalarValue(value))
	}

	for _, raw := range flagProjects {
		key, value, err := splitKeyValue(raw, "--project")
		if err != nil {
			return out, err
		}
		// The segment before the first dot is the project pattern, the
		// rest is the path into the project.
		pattern, path, found := strings.Cut(key, ".")
		if !found || path == "" {
			return out, fmt.Errorf("--project %q: expected pattern.path=value", raw)
		}
		overlay := map[string]any{}
		setNested(overlay, path, scalarValue(value))
		out.Projects = append(out.Projects, resolve.ProjectOverride{
			Pattern: pattern,
			Overlay: overlay,
		})
	}

	out.Params = map[string]string{}
	for _, raw := range flagParams {
		key, value, err := splitKeyValue(raw, "--param")
		if err != nil {
			return out, err
		}
		out.Params[key] = value
	}

	return out, nil
}

// setOption applies one --option key=value pair to the options overlay.
func setOption(o *manifest.Options, key, value string) error {
	switch key {
	case "push", "cleanup", "forward":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("--option %s: %q is not a boolean", key, value)
		}
		switch key {
		case "push":
			o.Push = &b
		case "cleanup":
			o.Cleanup = &b
		case "forward":
			o.Forward = &b
		}
	case "repository":
		o.Repository = &value
	case "tag":
		o.Tag = &value
	case "namespace":
		o.Namespace = &value
	case "releaseName":
		o.ReleaseName = &value
	default:
		return fmt.Errorf("--option: unknown option %q", key)
	}
	return nil
}

func splitKeyValue(raw, flag string) (string, string, error) {
	key, value, found := strings.Cut(raw, "=")
	if !found || key == "" {
		return "", "", fmt.Errorf("%s %q: expected key=value", flag, raw)
	}
	return key, value, nil
}

// setNested writes value at a dotted path, creating intermediate maps.
func setNested(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for _, part := range parts[:len(parts)-1] {
		next, ok := m[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[part] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// scalarValue decodes a flag value as a YAML scalar, so "3", "true" and
// "1.5" arrive typed while plain text stays a string.
func scalarValue(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		// Flag values are scalars; anything structured is kept verbatim.
		return s
	default:
		return v
	}
}
