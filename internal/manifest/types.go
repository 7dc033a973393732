// Package manifest implements the stevedore document model: profiles,
// projects and deployments, plus schema validation and merge semantics.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BaseProfileSigil marks a profile as a base profile. Base profiles are never
// selected directly; they are merged underneath every real profile.
const BaseProfileSigil = "$"

// Document is the top-level parsed configuration.
type Document struct {
	// Profiles maps profile name to profile, in declaration order.
	Profiles ProfileList `yaml:"profiles"`
}

// Profile is one named deployment scenario.
type Profile struct {
	// Name is the profile's key in the document's profiles mapping.
	Name string `yaml:"-"`

	// Default marks the profile selected when no explicit name is given.
	// At most one profile should carry it; the first found wins.
	Default bool `yaml:"default,omitempty"`

	// Options holds push/cleanup/forward flags and template-bearing options.
	Options Options `yaml:"options,omitempty"`

	// Metadata is a free-form mapping consumed only by templates.
	Metadata map[string]any `yaml:"metadata,omitempty"`

	// Projects maps project name to project, in declaration order.
	Projects ProjectList `yaml:"projects,omitempty"`
}

// IsBase reports whether the profile is a base profile.
func (p *Profile) IsBase() bool {
	return len(p.Name) > 0 && p.Name[:1] == BaseProfileSigil
}

// Options holds profile-level deployment options. All fields are pointers so
// merging can distinguish "unset" from an explicit zero value.
type Options struct {
	// Push controls whether built images are pushed.
	Push *bool `yaml:"push,omitempty"`

	// Cleanup controls whether intermediate artifacts are removed.
	Cleanup *bool `yaml:"cleanup,omitempty"`

	// Forward controls whether port-forwards are established after deploy.
	Forward *bool `yaml:"forward,omitempty"`

	// Repository is the image repository prefix.
	Repository *string `yaml:"repository,omitempty"`

	// Tag is the image tag template, rendered during resolution.
	Tag *string `yaml:"tag,omitempty"`

	// Namespace is the namespace template applied to every deployment.
	// Empty means each deployment's declared namespace is used unchanged.
	Namespace *string `yaml:"namespace,omitempty"`

	// ReleaseName is the release name template applied to every deployment.
	// Empty means the deployment name is used.
	ReleaseName *string `yaml:"releaseName,omitempty"`
}

// Project is a buildable unit owning zero or more deployments.
type Project struct {
	// Name is the project's key in the profile's projects mapping.
	Name string `yaml:"-"`

	// Image describes how to build the project's container image.
	Image *Image `yaml:"image,omitempty"`

	// Sync lists file sync patterns for development mode.
	Sync []string `yaml:"sync,omitempty"`

	// Deployments maps deployment name to deployment, in declaration order.
	Deployments DeploymentList `yaml:"deployments,omitempty"`
}

// Image describes a project's container image.
type Image struct {
	// Name is the bare image name as declared in the document.
	Name string `yaml:"name,omitempty"`

	// Context is the build context directory.
	Context string `yaml:"context,omitempty"`

	// FullName is the computed fully-qualified, tag-suffixed image
	// reference. Populated during override application.
	FullName string `yaml:"-"`
}

// Deployment is one releasable unit within a project.
type Deployment struct {
	// Name is the deployment's key in the project's deployments mapping.
	Name string `yaml:"-"`

	// Chart is the chart path. Required.
	Chart string `yaml:"chart,omitempty"`

	// Namespace is the target namespace, literal or template-derived.
	Namespace string `yaml:"namespace,omitempty"`

	// ReleaseName overrides the release name derived from the deployment
	// name.
	ReleaseName string `yaml:"releaseName,omitempty"`

	// Recreate forces resource recreation on deploy.
	Recreate bool `yaml:"recreate,omitempty"`

	// Values holds arbitrary nested override values, template-eligible.
	Values map[string]any `yaml:"values,omitempty"`
}

// ProfileList is an ordered profile mapping. YAML mappings decode into it
// preserving declaration order, which drives deterministic output.
type ProfileList []*Profile

// UnmarshalYAML decodes a YAML mapping node, keeping key order.
func (l *ProfileList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("profiles must be a mapping, got %s", nodeKind(node))
	}
	out := make(ProfileList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		p := &Profile{}
		if err := node.Content[i+1].Decode(p); err != nil {
			return fmt.Errorf("profile %q: %w", node.Content[i].Value, err)
		}
		p.Name = node.Content[i].Value
		out = append(out, p)
	}
	*l = out
	return nil
}

// Get returns the profile with the given name, or nil.
func (l ProfileList) Get(name string) *Profile {
	for _, p := range l {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// ProjectList is an ordered project mapping.
type ProjectList []*Project

// UnmarshalYAML decodes a YAML mapping node, keeping key order.
func (l *ProjectList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("projects must be a mapping, got %s", nodeKind(node))
	}
	out := make(ProjectList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		p := &Project{}
		if err := node.Content[i+1].Decode(p); err != nil {
			return fmt.Errorf("project %q: %w", node.Content[i].Value, err)
		}
		p.Name = node.Content[i].Value
		out = append(out, p)
	}
	*l = out
	return nil
}

// Get returns the project with the given name, or nil.
func (l ProjectList) Get(name string) *Project {
	for _, p := range l {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// DeploymentList is an ordered deployment mapping.
type DeploymentList []*Deployment

// UnmarshalYAML decodes a YAML mapping node, keeping key order.
func (l *DeploymentList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("deployments must be a mapping, got %s", nodeKind(node))
	}
	out := make(DeploymentList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		d := &Deployment{}
		if err := node.Content[i+1].Decode(d); err != nil {
			return fmt.Errorf("deployment %q: %w", node.Content[i].Value, err)
		}
		d.Name = node.Content[i].Value
		out = append(out, d)
	}
	*l = out
	return nil
}

// Get returns the deployment with the given name, or nil.
func (l DeploymentList) Get(name string) *Deployment {
	for _, d := range l {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// nodeKind names a YAML node kind for error messages.
func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
