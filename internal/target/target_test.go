package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/resolve"
	"github.com/cameronsjo/stevedore/internal/runctx"
	"github.com/cameronsjo/stevedore/internal/vcs"
)

func testContext() *runctx.Context {
	return &runctx.Context{
		User:      "dev",
		Timestamp: "2026-08-26T12:00:00Z",
		Env:       map[string]string{},
		Git:       vcs.State{Commit: "0123456789abcdef", Branch: "main"},
	}
}

func TestAssembleEndToEnd(t *testing.T) {
	// Outside a git repository the default tag renders empty, so the
	// artifact keeps its bare image name.
	ctx := &runctx.Context{
		User:      "dev",
		Timestamp: "2026-08-26T12:00:00Z",
		Env:       map[string]string{},
	}

	doc, err := manifest.Parse([]byte(`
profiles:
  $base:
    options:
      cleanup: false
  ci:
    default: true
    options:
      push: true
    projects:
      api:
        image:
          name: api
          context: ./api
        deployments:
          primary:
            chart: ./chart
            namespace: ns
`))
	require.NoError(t, err)

	profile, _, err := resolve.Resolve(doc, "", ctx, resolve.Overrides{})
	require.NoError(t, err)
	require.NoError(t, resolve.Apply(profile, nil))

	assert.False(t, profile.Options.CleanupEnabled(), "inherited from base profile")

	target, err := Assemble(profile, ctx, nil)
	require.NoError(t, err)

	require.Len(t, target.Build.Artifacts, 1)
	assert.Equal(t, "api", target.Build.Artifacts[0].Image)
	assert.Equal(t, "./api", target.Build.Artifacts[0].Context)

	require.Len(t, target.Deploy.Releases, 1)
	release := target.Deploy.Releases[0]
	assert.Equal(t, "primary", release.Name)
	assert.Equal(t, "ns", release.Namespace)
	assert.Equal(t, "./chart", release.ChartPath)
	assert.False(t, release.Recreate)
}

func assembleProfile(t *testing.T, profile *manifest.Profile, params map[string]string) *Document {
	t.Helper()
	target, err := Assemble(profile, testContext(), params)
	require.NoError(t, err)
	return target
}

func TestAssembleNamespaceTemplate(t *testing.T) {
	ns := `{{ .profile.name }}-{{ .deployment.name }}`
	profile := &manifest.Profile{
		Name:    "ci",
		Options: manifest.Options{Namespace: &ns},
		Projects: manifest.ProjectList{
			{
				Name: "api",
				Deployments: manifest.DeploymentList{
					{Name: "primary", Chart: "./chart", Namespace: "ignored"},
				},
			},
		},
	}

	target := assembleProfile(t, profile, nil)
	assert.Equal(t, "ci-primary", target.Deploy.Releases[0].Namespace)
}

func TestAssembleReleaseNameTemplate(t *testing.T) {
	// The release-name template sees the resolved namespace.
	rel := `{{ .deployment.namespace }}-{{ .deployment.name }}`
	profile := &manifest.Profile{
		Name:    "ci",
		Options: manifest.Options{ReleaseName: &rel},
		Projects: manifest.ProjectList{
			{
				Name: "api",
				Deployments: manifest.DeploymentList{
					{Name: "primary", Chart: "./chart", Namespace: "ns"},
				},
			},
		},
	}

	target := assembleProfile(t, profile, nil)
	assert.Equal(t, "ns-primary", target.Deploy.Releases[0].Name)
}

func TestAssembleReleaseNameLiteral(t *testing.T) {
	profile := &manifest.Profile{
		Name: "ci",
		Projects: manifest.ProjectList{
			{
				Name: "api",
				Deployments: manifest.DeploymentList{
					{Name: "primary", Chart: "./chart", Namespace: "ns", ReleaseName: "api-main"},
				},
			},
		},
	}

	target := assembleProfile(t, profile, nil)
	assert.Equal(t, "api-main", target.Deploy.Releases[0].Name)
}

func TestAssembleValuesRendering(t *testing.T) {
	profile := &manifest.Profile{
		Name:     "ci",
		Metadata: map[string]any{"replicas": 3},
		Projects: manifest.ProjectList{
			{
				Name:  "api",
				Image: &manifest.Image{Name: "api", Context: "./api", FullName: "api:v1"},
				Deployments: manifest.DeploymentList{
					{
						Name:      "primary",
						Chart:     "./chart",
						Namespace: "ns",
						Values: map[string]any{
							"image":    `{{ .project.image.fullName }}`,
							"replicas": `{{ meta "replicas" }}`,
							"debug":    "true",
							"note":     "literal text",
							"nested": map[string]any{
								"owner": `{{ .user }}`,
							},
						},
					},
				},
			},
		},
	}

	target := assembleProfile(t, profile, map[string]string{})
	overrides := target.Deploy.Releases[0].Overrides

	assert.Equal(t, "api:v1", overrides["image"])
	assert.Equal(t, float64(3), overrides["replicas"], "numeric output converts to a number")
	assert.Equal(t, true, overrides["debug"], "boolean-shaped strings convert")
	assert.Equal(t, "literal text", overrides["note"])
	assert.Equal(t, "dev", overrides["nested"].(map[string]any)["owner"])
}

func TestAssembleMissingChart(t *testing.T) {
	profile := &manifest.Profile{
		Name: "ci",
		Projects: manifest.ProjectList{
			{
				Name: "api",
				Deployments: manifest.DeploymentList{
					{Name: "primary", Namespace: "ns"},
				},
			},
		},
	}

	_, err := Assemble(profile, testContext(), nil)
	var resErr *resolve.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "api/primary", resErr.Entity)
	assert.Contains(t, resErr.Reason, "chart")
}

func TestAssembleMissingNamespace(t *testing.T) {
	profile := &manifest.Profile{
		Name: "ci",
		Projects: manifest.ProjectList{
			{
				Name: "api",
				Deployments: manifest.DeploymentList{
					{Name: "primary", Chart: "./chart"},
				},
			},
		},
	}

	_, err := Assemble(profile, testContext(), nil)
	var resErr *resolve.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, resErr.Reason, "namespace")
}

func TestAssemblePreservesDeclarationOrder(t *testing.T) {
	profile := &manifest.Profile{
		Name: "ci",
		Projects: manifest.ProjectList{
			{
				Name:  "zeta",
				Image: &manifest.Image{Name: "zeta", Context: "./z", FullName: "zeta:v1"},
				Deployments: manifest.DeploymentList{
					{Name: "z-one", Chart: "./c", Namespace: "ns"},
				},
			},
			{
				Name:  "alpha",
				Image: &manifest.Image{Name: "alpha", Context: "./a", FullName: "alpha:v1"},
				Deployments: manifest.DeploymentList{
					{Name: "a-one", Chart: "./c", Namespace: "ns"},
					{Name: "a-two", Chart: "./c", Namespace: "ns"},
				},
			},
		},
	}

	target := assembleProfile(t, profile, nil)

	images := make([]string, 0, len(target.Build.Artifacts))
	for _, a := range target.Build.Artifacts {
		images = append(images, a.Image)
	}
	assert.Equal(t, []string{"zeta:v1", "alpha:v1"}, images)

	names := make([]string, 0, len(target.Deploy.Releases))
	for _, r := range target.Deploy.Releases {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"z-one", "a-one", "a-two"}, names)
}

func TestDocumentYAML(t *testing.T) {
	doc := &Document{
		Build:  Build{Artifacts: []Artifact{{Image: "api:v1", Context: "./api"}}},
		Deploy: Deploy{Releases: []Release{{Name: "primary", Namespace: "ns", ChartPath: "./chart"}}},
	}

	out, err := doc.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "image: api:v1")
	assert.Contains(t, string(out), "chartPath: ./chart")
}
