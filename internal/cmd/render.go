package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stevedore/internal/ui"
)

// renderCmd prints the resolved target document.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the resolved target document",
	Long: `Resolve the deployment descriptor into its final target document and
print it as YAML.

Examples:
  # Resolve the default profile
  stevedore render

  # Resolve a named profile with an option override
  stevedore render -p ci --option push=false

  # Override one project's replica count
  stevedore render --project 'api*.deployments.primary.values.replicas=3'`,
	Run: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
	doc, _, err := resolveTarget()
	if err != nil {
		ui.Fatal("%v", err)
	}

	out, err := doc.YAML()
	if err != nil {
		ui.Fatal("%v", err)
	}
	fmt.Print(string(out))
}
