// Package resolve turns a validated document into the single active,
// fully-merged profile for one invocation.
package resolve

import (
	"fmt"

	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/runctx"
	"github.com/cameronsjo/stevedore/internal/tmpl"
)

// Overrides carries the CLI-shaped override inputs, already parsed into
// structured form by the boundary.
type Overrides struct {
	// Options is the --option overlay.
	Options manifest.Options

	// Metadata is the --metadata overlay.
	Metadata map[string]any

	// Projects holds the --project pattern overrides in flag order.
	Projects []ProjectOverride

	// Params backs the param template function (--param).
	Params map[string]string
}

// ProjectOverride is one --project override: a glob-style pattern matched
// against project names, and the partial project value to merge into every
// match.
type ProjectOverride struct {
	Pattern string
	Overlay map[string]any
}

// ResolutionError reports a failure to determine or complete the active
// profile. Entity names the offending profile or project when there is one.
type ResolutionError struct {
	Entity string
	Reason string
}

func (e *ResolutionError) Error() string {
	if e.Entity == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}

// Resolve selects and merges the active profile:
//
//	built-in defaults < base profile < named profile < --option/--metadata
//
// then renders the tag template against the context. The returned warnings
// are non-fatal (currently only the missing-base-profile case). The document
// is not mutated.
func Resolve(doc *manifest.Document, requested string, ctx *runctx.Context, ov Overrides) (*manifest.Profile, []string, error) {
	var warnings []string

	base := findBase(doc)
	if base == nil {
		warnings = append(warnings, "no base profile found, proceeding without shared defaults")
		base = &manifest.Profile{}
	}

	def := findDefault(doc)
	if def == nil {
		return nil, warnings, &ResolutionError{Reason: "no profile is marked default"}
	}

	name := requested
	if name == "" {
		name = def.Name
	}
	if len(name) > 0 && name[:1] == manifest.BaseProfileSigil {
		return nil, warnings, &ResolutionError{Entity: name, Reason: "base profiles cannot be selected directly"}
	}
	named := doc.Profiles.Get(name)
	if named == nil {
		return nil, warnings, &ResolutionError{Entity: name, Reason: "profile not found"}
	}

	builtin := &manifest.Profile{Options: manifest.DefaultOptions()}
	merged := manifest.MergeProfiles(manifest.MergeProfiles(builtin, base), named)
	merged.Name = name

	merged.Options = manifest.MergeOptions(merged.Options, ov.Options)
	merged.Metadata = manifest.DeepMerge(merged.Metadata, ov.Metadata)

	// The default marker is resolution metadata, not a deploy-time option.
	merged.Default = false

	engine := &tmpl.Engine{Metadata: merged.Metadata, Params: ov.Params}
	data := ctx.Data()
	data["profile"] = merged.ContextMap()
	tag, err := engine.Render(merged.Options.TagValue(), data)
	if err != nil {
		return nil, warnings, fmt.Errorf("render tag template: %w", err)
	}
	merged.Options.Tag = &tag

	for _, project := range merged.Projects {
		if err := checkProject(project); err != nil {
			return nil, warnings, err
		}
	}

	return merged, warnings, nil
}

// checkProject enforces per-project requirements on the merged result and
// fills remaining per-deployment defaults.
func checkProject(p *manifest.Project) error {
	if p.Image != nil {
		if p.Image.Name == "" {
			return &ResolutionError{Entity: p.Name, Reason: `image is missing required field "name"`}
		}
		if p.Image.Context == "" {
			return &ResolutionError{Entity: p.Name, Reason: `image is missing required field "context"`}
		}
	}
	for _, d := range p.Deployments {
		if d.Values == nil {
			d.Values = map[string]any{}
		}
	}
	return nil
}

// findBase returns the first base profile in declaration order, or nil.
func findBase(doc *manifest.Document) *manifest.Profile {
	for _, p := range doc.Profiles {
		if p.IsBase() {
			return p
		}
	}
	return nil
}

// findDefault returns the first profile flagged default, or nil.
func findDefault(doc *manifest.Document) *manifest.Profile {
	for _, p := range doc.Profiles {
		if p.Default {
			return p
		}
	}
	return nil
}
