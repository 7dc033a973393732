package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/resolve"
	"github.com/cameronsjo/stevedore/internal/runctx"
	"github.com/cameronsjo/stevedore/internal/target"
	"github.com/cameronsjo/stevedore/internal/ui"
)

// loadDocument loads env files, reads the descriptor and validates it.
func loadDocument() (*manifest.Document, error) {
	for _, envFile := range flagEnvFiles {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(flagFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", flagFile, err)
	}
	return manifest.Parse(data)
}

// resolveTarget runs the full resolution pipeline: load, context, resolve,
// apply overrides, assemble.
func resolveTarget() (*target.Document, *manifest.Profile, error) {
	doc, err := loadDocument()
	if err != nil {
		return nil, nil, err
	}

	overrides, err := parseOverrides()
	if err != nil {
		return nil, nil, err
	}

	ctx := runctx.Build(filepath.Dir(flagFile))

	profile, warnings, err := resolve.Resolve(doc, flagProfile, ctx, overrides)
	for _, w := range warnings {
		ui.Warning("%s", w)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := resolve.Apply(profile, overrides.Projects); err != nil {
		return nil, nil, err
	}

	tdoc, err := target.Assemble(profile, ctx, overrides.Params)
	if err != nil {
		return nil, nil, err
	}
	return tdoc, profile, nil
}
