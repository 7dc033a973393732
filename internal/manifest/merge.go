package manifest

import "fmt"

// Merge semantics, per entity:
//   - Options: field-wise, a set field in the overlay wins.
//   - Metadata / Values: DeepMerge (maps unioned recursively, scalar leaves
//     and sequences replaced by the overlay).
//   - Projects / Deployments: keyed union. Base entries keep their position,
//     overlay-only entries append in overlay order; same-name entries merge
//     field-wise.

// MergeOptions overlays over onto base and returns the result. Fields left
// unset in over keep the base value.
func MergeOptions(base, over Options) Options {
	out := base
	if over.Push != nil {
		out.Push = boolPtr(*over.Push)
	}
	if over.Cleanup != nil {
		out.Cleanup = boolPtr(*over.Cleanup)
	}
	if over.Forward != nil {
		out.Forward = boolPtr(*over.Forward)
	}
	if over.Repository != nil {
		out.Repository = strPtr(*over.Repository)
	}
	if over.Tag != nil {
		out.Tag = strPtr(*over.Tag)
	}
	if over.Namespace != nil {
		out.Namespace = strPtr(*over.Namespace)
	}
	if over.ReleaseName != nil {
		out.ReleaseName = strPtr(*over.ReleaseName)
	}
	return out
}

// MergeProfiles merges over onto base and returns a new profile carrying
// over's name and default marker. Neither input is mutated.
func MergeProfiles(base, over *Profile) *Profile {
	out := &Profile{
		Name:     over.Name,
		Default:  over.Default,
		Options:  MergeOptions(base.Options, over.Options),
		Metadata: DeepMerge(base.Metadata, over.Metadata),
	}
	out.Projects = mergeProjects(base.Projects, over.Projects)
	return out
}

func mergeProjects(base, over ProjectList) ProjectList {
	out := make(ProjectList, 0, len(base)+len(over))
	for _, p := range base {
		if o := over.Get(p.Name); o != nil {
			out = append(out, mergeProject(p, o))
		} else {
			out = append(out, p.Clone())
		}
	}
	for _, o := range over {
		if base.Get(o.Name) == nil {
			out = append(out, o.Clone())
		}
	}
	return out
}

func mergeProject(base, over *Project) *Project {
	out := base.Clone()
	out.Name = over.Name
	if over.Image != nil {
		if out.Image == nil {
			out.Image = &Image{}
		}
		if over.Image.Name != "" {
			out.Image.Name = over.Image.Name
		}
		if over.Image.Context != "" {
			out.Image.Context = over.Image.Context
		}
	}
	if over.Sync != nil {
		out.Sync = append([]string(nil), over.Sync...)
	}
	out.Deployments = mergeDeployments(out.Deployments, over.Deployments)
	return out
}

func mergeDeployments(base, over DeploymentList) DeploymentList {
	out := make(DeploymentList, 0, len(base)+len(over))
	for _, d := range base {
		if o := over.Get(d.Name); o != nil {
			out = append(out, mergeDeployment(d, o))
		} else {
			out = append(out, d.Clone())
		}
	}
	for _, o := range over {
		if base.Get(o.Name) == nil {
			out = append(out, o.Clone())
		}
	}
	return out
}

func mergeDeployment(base, over *Deployment) *Deployment {
	out := base.Clone()
	out.Name = over.Name
	if over.Chart != "" {
		out.Chart = over.Chart
	}
	if over.Namespace != "" {
		out.Namespace = over.Namespace
	}
	if over.ReleaseName != "" {
		out.ReleaseName = over.ReleaseName
	}
	if over.Recreate {
		out.Recreate = true
	}
	out.Values = DeepMerge(out.Values, over.Values)
	return out
}

// ApplyOverlay merges a free-form project overlay (a CLI --project override
// value) into the project. Field rules:
//   - image: mapping with name/context string entries, set field-wise
//   - sync: sequence of strings (or one string), replaces the project's
//     sync list
//   - deployments: mapping of deployment name to a deployment overlay with
//     chart/namespace/releaseName strings, recreate bool, and values merged
//     via DeepMerge; unknown deployment names are created
//
// Unknown keys are an error so a mistyped override fails instead of being
// silently dropped.
func ApplyOverlay(p *Project, overlay map[string]any) error {
	for key, val := range overlay {
		switch key {
		case "image":
			m, err := asMap(val, "image")
			if err != nil {
				return err
			}
			if p.Image == nil {
				p.Image = &Image{}
			}
			for ik, iv := range m {
				s, err := asString(iv, "image."+ik)
				if err != nil {
					return err
				}
				switch ik {
				case "name":
					p.Image.Name = s
				case "context":
					p.Image.Context = s
				default:
					return fmt.Errorf("unknown image field %q", ik)
				}
			}
		case "sync":
			patterns, err := asStringSlice(val, "sync")
			if err != nil {
				return err
			}
			p.Sync = patterns
		case "deployments":
			m, err := asMap(val, "deployments")
			if err != nil {
				return err
			}
			for name, dv := range m {
				dm, err := asMap(dv, "deployments."+name)
				if err != nil {
					return err
				}
				d := p.Deployments.Get(name)
				if d == nil {
					d = &Deployment{Name: name}
					p.Deployments = append(p.Deployments, d)
				}
				if err := applyDeploymentOverlay(d, dm); err != nil {
					return fmt.Errorf("deployment %q: %w", name, err)
				}
			}
		default:
			return fmt.Errorf("unknown project field %q", key)
		}
	}
	return nil
}

func applyDeploymentOverlay(d *Deployment, overlay map[string]any) error {
	for key, val := range overlay {
		switch key {
		case "chart":
			s, err := asString(val, "chart")
			if err != nil {
				return err
			}
			d.Chart = s
		case "namespace":
			s, err := asString(val, "namespace")
			if err != nil {
				return err
			}
			d.Namespace = s
		case "releaseName":
			s, err := asString(val, "releaseName")
			if err != nil {
				return err
			}
			d.ReleaseName = s
		case "recreate":
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("recreate must be a boolean, got %T", val)
			}
			d.Recreate = b
		case "values":
			m, err := asMap(val, "values")
			if err != nil {
				return err
			}
			d.Values = DeepMerge(d.Values, m)
		default:
			return fmt.Errorf("unknown deployment field %q", key)
		}
	}
	return nil
}

// DeepMerge recursively merges overlay onto base and returns a new map.
// Mapping keys are unioned; scalar leaves and sequences are replaced by the
// overlay. Neither input is mutated.
func DeepMerge(base, overlay map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		result[k] = deepCopyValue(v)
	}
	for key, overlayValue := range overlay {
		baseValue, exists := result[key]
		if !exists {
			result[key] = deepCopyValue(overlayValue)
			continue
		}
		baseMap, baseIsMap := baseValue.(map[string]any)
		overlayMap, overlayIsMap := overlayValue.(map[string]any)
		if baseIsMap && overlayIsMap {
			result[key] = DeepMerge(baseMap, overlayMap)
			continue
		}
		result[key] = deepCopyValue(overlayValue)
	}
	return result
}

// deepCopyValue creates a deep copy of any value.
func deepCopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = deepCopyValue(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = deepCopyValue(val)
		}
		return result
	case []string:
		result := make([]string, len(v))
		copy(result, v)
		return result
	default:
		// Primitive types are immutable, return as-is
		return value
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	out := &Profile{
		Name:     p.Name,
		Default:  p.Default,
		Options:  MergeOptions(Options{}, p.Options),
		Metadata: DeepMerge(nil, p.Metadata),
	}
	out.Projects = make(ProjectList, len(p.Projects))
	for i, proj := range p.Projects {
		out.Projects[i] = proj.Clone()
	}
	return out
}

// Clone returns a deep copy of the project.
func (p *Project) Clone() *Project {
	out := &Project{Name: p.Name}
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	if p.Sync != nil {
		out.Sync = append([]string(nil), p.Sync...)
	}
	out.Deployments = make(DeploymentList, len(p.Deployments))
	for i, d := range p.Deployments {
		out.Deployments[i] = d.Clone()
	}
	return out
}

// Clone returns a deep copy of the deployment.
func (d *Deployment) Clone() *Deployment {
	out := *d
	out.Values = DeepMerge(nil, d.Values)
	return &out
}

func asMap(v any, field string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a mapping, got %T", field, v)
	}
	return m, nil
}

func asString(v any, field string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", field, v)
	}
	return s, nil
}

func asStringSlice(v any, field string) ([]string, error) {
	switch vv := v.(type) {
	case string:
		// CLI overrides supply single patterns as bare strings.
		return []string{vv}, nil
	case []string:
		return append([]string(nil), vv...), nil
	case []any:
		out := make([]string, len(vv))
		for i, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string, got %T", field, i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be a sequence of strings, got %T", field, v)
	}
}
