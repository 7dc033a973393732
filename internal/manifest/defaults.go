package manifest

// DefaultTagTemplate is the built-in image tag template: the exact git tag
// when HEAD carries one, otherwise the first 8 characters of the commit hash.
// Outside a git repository it renders empty and the tag suffix is omitted.
const DefaultTagTemplate = `{{ if .git.tag }}{{ .git.tag }}{{ else }}{{ .git.commit | trunc 8 }}{{ end }}`

// DefaultOptions returns the built-in option defaults, the bottom layer of
// the merge chain: defaults < base profile < named profile < CLI overrides.
func DefaultOptions() Options {
	return Options{
		Push:        boolPtr(true),
		Cleanup:     boolPtr(true),
		Forward:     boolPtr(false),
		Repository:  strPtr(""),
		Tag:         strPtr(DefaultTagTemplate),
		Namespace:   strPtr(""),
		ReleaseName: strPtr(""),
	}
}

// PushEnabled returns the push flag, defaulting to true when unset.
func (o Options) PushEnabled() bool {
	if o.Push == nil {
		return true
	}
	return *o.Push
}

// CleanupEnabled returns the cleanup flag, defaulting to true when unset.
func (o Options) CleanupEnabled() bool {
	if o.Cleanup == nil {
		return true
	}
	return *o.Cleanup
}

// ForwardEnabled returns the forward flag, defaulting to false when unset.
func (o Options) ForwardEnabled() bool {
	return o.Forward != nil && *o.Forward
}

// RepositoryValue returns the repository prefix, or "" when unset.
func (o Options) RepositoryValue() string {
	return strVal(o.Repository)
}

// TagValue returns the tag option, or "" when unset.
func (o Options) TagValue() string {
	return strVal(o.Tag)
}

// NamespaceTemplate returns the namespace template, or "" when unset.
func (o Options) NamespaceTemplate() string {
	return strVal(o.Namespace)
}

// ReleaseNameTemplate returns the release name template, or "" when unset.
func (o Options) ReleaseNameTemplate() string {
	return strVal(o.ReleaseName)
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
