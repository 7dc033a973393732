// Package cmd provides the CLI commands for stevedore.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stevedore/internal/logging"
)

const version = "0.1.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stevedore",
	Short: "Profile-based deployment configuration resolver",
	Long: `stevedore - load the cargo, hand it to the deck crew

Resolves a profile-based deployment descriptor (stevedore.yaml) into a
fully-qualified target document and hands it to your deploy tool.

COMMANDS
  render                Print the resolved target document
  deploy                Resolve and pipe the document to the deploy tool
    --tool <cmd>        External deploy command (reads stdin)
    --dry-run           Print instead of invoking the tool
  validate              Check the document against the schema
  profiles              List profiles in the document

OVERRIDES
  -p, --profile <name>            Select a profile (default: the default profile)
      --option key=value          Override a profile option
      --metadata key=value        Override profile metadata (dotted paths)
      --project pattern.path=val  Override matching projects (glob pattern)
      --param key=value           Supply values for the param template function

CONTEXT
  Templates see user, timestamp, env, git (tag/commit/branch/dirty), and the
  profile/project/deployment in scope.`,
	Version: version,
}

var (
	flagFile     string
	flagProfile  string
	flagOptions  []string
	flagMetadata []string
	flagProjects []string
	flagParams   []string
	flagEnvFiles []string
	flagLogLevel string
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagFile, "file", "f", "stevedore.yaml", "deployment descriptor to resolve")
	pf.StringVarP(&flagProfile, "profile", "p", "", "profile to resolve (default: the profile marked default)")
	pf.StringArrayVar(&flagOptions, "option", nil, "option override, key=value (repeatable)")
	pf.StringArrayVar(&flagMetadata, "metadata", nil, "metadata override, dotted.path=value (repeatable)")
	pf.StringArrayVar(&flagProjects, "project", nil, "project override, pattern.dotted.path=value (repeatable)")
	pf.StringArrayVar(&flagParams, "param", nil, "template parameter, key=value (repeatable)")
	pf.StringArrayVar(&flagEnvFiles, "env-file", nil, "env file loaded before building the context (repeatable)")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// logger builds the CLI logger from --log-level.
func logger() *slog.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(flagLogLevel))
}
