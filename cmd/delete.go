package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	deleteYes bool
)

var deleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a record and its stored file",
	Long: `Delete a record from the catalog together with its stored file.

The file is only removed once the metadata has been rewritten, so a failed
write leaves both in place.

Examples:
  imgc delete 20240301_100000_photo.jpg
  imgc delete beach --yes`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	rec, err := selectRecord(args)
	if err != nil {
		return err
	}

	// Confirmation
	if !deleteYes {
		if !isInteractive() {
			return fmt.Errorf("refusing to delete without confirmation; pass --yes")
		}
		fmt.Println(ui.FormatWarning("You are about to delete:"))
		fmt.Printf("  %s %s\n", ui.FormatStoredName(rec.StoredName), ui.FormatOriginalName(rec.OriginalName))
		fmt.Println()
		if !confirm("Delete this record and its file?") {
			fmt.Println(ui.FormatInfo("Deletion cancelled."))
			return nil
		}
	}

	if err := catalog.Remove(getContext(), rec.StoredName); err != nil {
		return err
	}

	appLog.Info().Str("stored", rec.StoredName).Msg("deleted")
	fmt.Println(ui.FormatSuccess("Deleted " + rec.StoredName))
	return nil
}
