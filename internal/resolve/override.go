package resolve

import (
	"fmt"

	"github.com/cameronsjo/stevedore/internal/manifest"
)

// OverrideError reports a --project pattern that matched no project.
// Unmatched patterns are a hard error: a typo must not silently deploy an
// un-overridden configuration.
type OverrideError struct {
	Pattern string
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("override pattern %q matched no project", e.Pattern)
}

// Apply merges the --project overrides into the profile's matching projects
// in flag order (later patterns win on scalar leaves), then computes the
// fully-qualified image name for every project carrying an image. The
// profile is mutated in place.
func Apply(profile *manifest.Profile, overrides []ProjectOverride) error {
	for _, ov := range overrides {
		matched := false
		for _, project := range profile.Projects {
			if !matchPattern(ov.Pattern, project.Name) {
				continue
			}
			matched = true
			if err := manifest.ApplyOverlay(project, ov.Overlay); err != nil {
				return fmt.Errorf("override %q on project %q: %w", ov.Pattern, project.Name, err)
			}
		}
		if !matched {
			return &OverrideError{Pattern: ov.Pattern}
		}
	}

	repository := profile.Options.RepositoryValue()
	tag := profile.Options.TagValue()
	for _, project := range profile.Projects {
		if project.Image == nil {
			continue
		}
		full := ComputeImageName(repository, project.Image.Name)
		if tag != "" {
			full += ":" + tag
		}
		project.Image.FullName = full
	}
	return nil
}

// matchPattern reports whether name matches the limited glob pattern. The
// only wildcard is '*', which matches any run of characters within a single
// path segment (it never crosses '/'). There is no '**', '?' or character
// class support; every other character matches literally.
func matchPattern(pattern, name string) bool {
	if pattern == "" {
		return name == ""
	}
	if pattern[0] == '*' {
		for i := 0; ; i++ {
			if matchPattern(pattern[1:], name[i:]) {
				return true
			}
			if i >= len(name) || name[i] == '/' {
				return false
			}
		}
	}
	if name == "" || pattern[0] != name[0] {
		return false
	}
	return matchPattern(pattern[1:], name[1:])
}
