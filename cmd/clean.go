package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated galleries and charts",
	Long: `Clear the cache directory.

The cache only holds files imgc generates for viewing (list --gallery,
stats --chart). Stored images and metadata are never touched.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	fmt.Print(ui.StyleWarning.Render("Cleaning cache... "))

	removed, err := appVault.CleanCache()
	if err != nil {
		fmt.Println(ui.FormatError("Failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Done"))
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d file%s removed from %s", removed, pluralize(removed), appVault.CachePath)))
	return nil
}
