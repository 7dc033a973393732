package runctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/stevedore/internal/vcs"
)

func TestBuild(t *testing.T) {
	t.Setenv("STEVEDORE_TEST_MARKER", "set")

	ctx := Build(t.TempDir())

	assert.NotEmpty(t, ctx.User)
	assert.Equal(t, "set", ctx.Env["STEVEDORE_TEST_MARKER"])
	assert.Equal(t, vcs.State{}, ctx.Git, "non-repository directory yields empty git state")

	ts, err := time.Parse(time.RFC3339, ctx.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
}

func TestData(t *testing.T) {
	ctx := &Context{
		User:      "dev",
		Timestamp: "2026-08-26T12:00:00Z",
		Env:       map[string]string{"HOME": "/home/dev"},
		Git: vcs.State{
			Tag:    "v1.0.0",
			Commit: "0123456789abcdef",
			Branch: "main",
			Dirty:  true,
		},
	}

	data := ctx.Data()
	assert.Equal(t, "dev", data["user"])
	assert.Equal(t, "2026-08-26T12:00:00Z", data["timestamp"])
	assert.Equal(t, map[string]string{"HOME": "/home/dev"}, data["env"])

	git := data["git"].(map[string]any)
	assert.Equal(t, "v1.0.0", git["tag"])
	assert.Equal(t, "0123456789abcdef", git["commit"])
	assert.Equal(t, "main", git["branch"])
	assert.Equal(t, true, git["dirty"])
}

func TestDataReturnsFreshMap(t *testing.T) {
	ctx := &Context{User: "dev"}

	first := ctx.Data()
	first["profile"] = "clobbered"

	second := ctx.Data()
	_, ok := second["profile"]
	assert.False(t, ok)
}
