package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stevedore/internal/invoke"
	"github.com/cameronsjo/stevedore/internal/ui"
)

var (
	deployTool   string
	deployDryRun bool
)

// deployCmd resolves the document and pipes it to the deploy tool.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Resolve and hand the target document to the deploy tool",
	Long: `Resolve the deployment descriptor and pipe the target document to the
external deploy tool's stdin.

Examples:
  # Deploy the default profile
  stevedore deploy --tool "shipctl apply"

  # Preview what would be sent
  stevedore deploy --dry-run`,
	Run: runDeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployTool, "tool", "", "deploy command reading the document on stdin")
	deployCmd.Flags().BoolVarP(&deployDryRun, "dry-run", "n", false, "print the document instead of invoking the tool")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) {
	doc, profile, err := resolveTarget()
	if err != nil {
		ui.Fatal("%v", err)
	}

	out, err := doc.YAML()
	if err != nil {
		ui.Fatal("%v", err)
	}

	if deployDryRun || deployTool == "" {
		if deployTool == "" && !deployDryRun {
			ui.Warning("no --tool configured, printing the document instead")
		}
		fmt.Print(string(out))
		return
	}

	invoker := invoke.New(strings.Fields(deployTool), logger())
	stdout, err := invoker.Run(context.Background(), out)
	if err != nil {
		ui.Fatal("%v", err)
	}
	if len(stdout) > 0 {
		fmt.Print(string(stdout))
	}
	ui.Success("profile %s: %d artifact(s), %d release(s) deployed",
		profile.Name, len(doc.Build.Artifacts), len(doc.Deploy.Releases))
}
