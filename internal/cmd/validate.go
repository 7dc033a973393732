package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/stevedore/internal/manifest"
	"github.com/cameronsjo/stevedore/internal/ui"
)

// validateCmd checks the document against the schema without resolving it.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the deployment descriptor against the schema",
	Long: `Validate the deployment descriptor against the document schema and
report every violation, so the document can be fixed in one pass.`,
	Run: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	_, err := loadDocument()
	if err == nil {
		ui.Success("%s is valid", flagFile)
		return
	}

	var schemaErr *manifest.SchemaError
	if errors.As(err, &schemaErr) {
		ui.Error("%s has %d problem(s):", flagFile, len(schemaErr.Fields))
		for _, field := range schemaErr.Fields {
			ui.Info("  %s", field.String())
		}
	} else {
		ui.Error("%v", err)
	}
	os.Exit(1)
}
