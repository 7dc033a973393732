package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cameronsjo/stevedore/internal/ui"
)

// profilesCmd lists the profiles in the document.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List profiles in the deployment descriptor",
	Run:   runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) {
	doc, err := loadDocument()
	if err != nil {
		ui.Fatal("%v", err)
	}

	ui.Header("Profiles in %s:", flagFile)
	for _, profile := range doc.Profiles {
		marker := " "
		switch {
		case profile.IsBase():
			marker = "~" // merged under every profile, not selectable
		case profile.Default:
			marker = "*"
		}
		ui.Info("  %s %s (%d project(s))", marker, profile.Name, len(profile.Projects))
	}
}
