package manifest

// Template-visible views of the model. Templates address fields with
// lowercase keys ({{ .profile.options.repository }}), so each entity exposes
// an explicit map instead of its Go struct.

// ContextMap returns the template-visible view of the profile.
func (p *Profile) ContextMap() map[string]any {
	return map[string]any{
		"name": p.Name,
		"options": map[string]any{
			"push":        p.Options.PushEnabled(),
			"cleanup":     p.Options.CleanupEnabled(),
			"forward":     p.Options.ForwardEnabled(),
			"repository":  p.Options.RepositoryValue(),
			"tag":         p.Options.TagValue(),
			"namespace":   p.Options.NamespaceTemplate(),
			"releaseName": p.Options.ReleaseNameTemplate(),
		},
		"metadata": DeepMerge(nil, p.Metadata),
	}
}

// ContextMap returns the template-visible view of the project.
func (p *Project) ContextMap() map[string]any {
	out := map[string]any{
		"name": p.Name,
	}
	if p.Image != nil {
		out["image"] = map[string]any{
			"name":     p.Image.Name,
			"context":  p.Image.Context,
			"fullName": p.Image.FullName,
		}
	}
	if len(p.Sync) > 0 {
		out["sync"] = append([]string(nil), p.Sync...)
	}
	return out
}

// ContextMap returns the template-visible view of the deployment.
func (d *Deployment) ContextMap() map[string]any {
	return map[string]any{
		"name":        d.Name,
		"chart":       d.Chart,
		"namespace":   d.Namespace,
		"releaseName": d.ReleaseName,
		"recreate":    d.Recreate,
	}
}
