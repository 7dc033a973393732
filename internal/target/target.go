// Package target assembles the final deployment document handed to the
// external deploy tool.
package target

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/resolve"
	"github.com/cameronsjo/stevedore/internal/runctx"
	"github.com/cameronsjo/stevedore/internal/tmpl"
)

// Document is the fully-resolved deployment document.
type Document struct {
	Build  Build  `yaml:"build" json:"build"`
	Deploy Deploy `yaml:"deploy" json:"deploy"`
}

// Build lists the artifacts to produce, one per project with an image.
type Build struct {
	Artifacts []Artifact `yaml:"artifacts" json:"artifacts"`
}

// Artifact is one buildable image.
type Artifact struct {
	// Image is the fully-qualified, tag-suffixed image reference.
	Image string `yaml:"image" json:"image"`

	// Context is the build context directory.
	Context string `yaml:"context" json:"context"`

	// Sync lists file sync patterns.
	Sync []string `yaml:"sync,omitempty" json:"sync,omitempty"`
}

// Deploy lists the releases to install, one per deployment.
type Deploy struct {
	Releases []Release `yaml:"releases" json:"releases"`
}

// Release is one resolved deployment.
type Release struct {
	Name      string         `yaml:"name" json:"name"`
	Namespace string         `yaml:"namespace" json:"namespace"`
	ChartPath string         `yaml:"chartPath" json:"chartPath"`
	Recreate  bool           `yaml:"recreate" json:"recreate"`
	Overrides map[string]any `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Assemble produces the target document from the fully-resolved profile.
// Projects and deployments are emitted in source declaration order. Release
// names and namespaces come from the profile-level templates when configured,
// otherwise from the deployment's declared literals; deployment values are
// rendered deeply with JSON reinterpretation enabled.
func Assemble(profile *manifest.Profile, ctx *runctx.Context, params map[string]string) (*Document, error) {
	engine := &tmpl.Engine{Metadata: profile.Metadata, Params: params}
	profileMap := profile.ContextMap()

	doc := &Document{
		Build:  Build{Artifacts: []Artifact{}},
		Deploy: Deploy{Releases: []Release{}},
	}

	for _, project := range profile.Projects {
		if project.Image != nil {
			image := project.Image.FullName
			if image == "" {
				image = project.Image.Name
			}
			doc.Build.Artifacts = append(doc.Build.Artifacts, Artifact{
				Image:   image,
				Context: project.Image.Context,
				Sync:    append([]string(nil), project.Sync...),
			})
		}

		for _, deployment := range project.Deployments {
			release, err := assembleRelease(engine, ctx, profileMap, profile, project, deployment)
			if err != nil {
				return nil, err
			}
			doc.Deploy.Releases = append(doc.Deploy.Releases, *release)
		}
	}

	return doc, nil
}

func assembleRelease(engine *tmpl.Engine, ctx *runctx.Context, profileMap map[string]any, profile *manifest.Profile, project *manifest.Project, deployment *manifest.Deployment) (*Release, error) {
	if deployment.Chart == "" {
		return nil, &resolve.ResolutionError{
			Entity: project.Name + "/" + deployment.Name,
			Reason: `deployment is missing required field "chart"`,
		}
	}

	data := ctx.Data()
	data["profile"] = profileMap
	data["project"] = project.ContextMap()
	deploymentMap := deployment.ContextMap()
	data["deployment"] = deploymentMap

	namespace := deployment.Namespace
	if t := profile.Options.NamespaceTemplate(); t != "" {
		rendered, err := engine.Render(t, data)
		if err != nil {
			return nil, fmt.Errorf("render namespace for %s/%s: %w", project.Name, deployment.Name, err)
		}
		namespace = rendered
	}
	if namespace == "" {
		return nil, &resolve.ResolutionError{
			Entity: project.Name + "/" + deployment.Name,
			Reason: "deployment has no resolvable namespace",
		}
	}
	// Later templates see the resolved namespace, not the raw literal.
	deploymentMap["namespace"] = namespace

	name := deployment.ReleaseName
	if name == "" {
		name = deployment.Name
	}
	if t := profile.Options.ReleaseNameTemplate(); t != "" {
		rendered, err := engine.Render(t, data)
		if err != nil {
			return nil, fmt.Errorf("render release name for %s/%s: %w", project.Name, deployment.Name, err)
		}
		name = rendered
	}
	deploymentMap["releaseName"] = name

	values, err := engine.RenderDeep(deployment.Values, data, true)
	if err != nil {
		return nil, fmt.Errorf("render values for %s/%s: %w", project.Name, deployment.Name, err)
	}
	overrides, _ := values.(map[string]any)

	return &Release{
		Name:      name,
		Namespace: namespace,
		ChartPath: deployment.Chart,
		Recreate:  deployment.Recreate,
		Overrides: overrides,
	}, nil
}

// YAML encodes the document for the external tool's stdin.
func (d *Document) YAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode target document: %w", err)
	}
	return out, nil
}
