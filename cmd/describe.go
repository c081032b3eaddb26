package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/ui"
)

var describeCmd = &cobra.Command{
	Use:   "describe [name] <description>",
	Short: "Replace the description of a record",
	Long: `Replace the description stored with a record.

With a single argument the record is picked interactively and the argument
is the new description. An empty description clears it.

Examples:
  imgc describe 20240301_100000_photo.jpg "Beach at sunset"
  imgc describe "Family dinner"`,
	Args:        cobra.RangeArgs(1, 2),
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	var selector []string
	description := args[len(args)-1]
	if len(args) == 2 {
		selector = args[:1]
	}

	rec, err := selectRecord(selector)
	if err != nil {
		return err
	}

	updated, err := catalog.Describe(getContext(), rec.StoredName, strings.TrimSpace(description))
	if err != nil {
		return err
	}

	appLog.Info().Str("stored", updated.StoredName).Msg("description updated")

	fmt.Println(ui.FormatSuccess("Updated " + ui.FormatStoredName(updated.StoredName)))
	if updated.Description == "" {
		fmt.Println(ui.FormatMuted("  (description cleared)"))
	} else {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("  %s", updated.Description)))
	}
	return nil
}
