// Package runctx builds the read-only template context for one invocation.
package runctx

import (
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/cameronsjo/stevedore/internal/vcs"
)

// Context is the data visible to templates during one resolution. It is
// built exactly once per invocation so every template sees the same snapshot,
// including the timestamp.
type Context struct {
	// User is the OS username running the invocation.
	User string

	// Timestamp is the invocation wall-clock time, UTC, RFC 3339.
	Timestamp string

	// Env is the process environment.
	Env map[string]string

	// Git is the repository state of the working directory.
	Git vcs.State
}

// Build captures the context for the given working directory.
func Build(dir string) *Context {
	return &Context{
		User:      currentUser(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Env:       environMap(os.Environ()),
		Git:       vcs.Query(dir),
	}
}

// Data returns a fresh template data map for this context. Callers extend it
// with the profile/project/deployment scopes before rendering.
func (c *Context) Data() map[string]any {
	return map[string]any{
		"user":      c.User,
		"timestamp": c.Timestamp,
		"env":       c.Env,
		"git": map[string]any{
			"tag":    c.Git.Tag,
			"commit": c.Git.Commit,
			"branch": c.Git.Branch,
			"dirty":  c.Git.Dirty,
		},
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func environMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if idx := strings.Index(kv, "="); idx > 0 {
			out[kv[:idx]] = kv[idx+1:]
		}
	}
	return out
}
