package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/ui"
)

var (
	purgeForce bool
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the catalog and everything imgc stored",
	Long: `Delete the catalog's storage and cache directories.

This is a destructive operation that will permanently delete:
  - All stored images
  - The metadata file
  - Generated galleries and charts

Other files under the catalog root are left alone; the root directory is
removed only if nothing else remains in it. The configuration file is kept.
This action cannot be undone.

Examples:
  # Purge with confirmation prompts
  imgc purge

  # Force purge without confirmation (dangerous!)
  imgc purge --force`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runPurge,
}

func init() {
	purgeCmd.Flags().BoolVarP(&purgeForce, "force", "f", false, "Skip confirmation prompt (dangerous)")
}

func runPurge(cmd *cobra.Command, args []string) error {
	if !vaultExisted {
		fmt.Println(ui.FormatWarning("Catalog does not exist."))
		fmt.Println(ui.FormatInfo("Catalog location: " + appVault.RootPath))
		return nil
	}

	fmt.Println(ui.StyleError.Render("WARNING: DESTRUCTIVE OPERATION"))
	fmt.Println()
	fmt.Println(ui.FormatWarning("You are about to permanently delete the catalog:"))
	fmt.Printf("  %s %s\n", ui.StyleBold.Render("Storage:"), appVault.StoragePath)
	fmt.Printf("  %s %s\n", ui.StyleBold.Render("Cache:"), appVault.CachePath)
	fmt.Println()

	if !purgeForce {
		if !isInteractive() {
			return fmt.Errorf("refusing to purge without confirmation; pass --force")
		}
		if !confirmPurge(bufio.NewReader(os.Stdin), appVault.RootPath) {
			fmt.Println(ui.FormatInfo("Purge cancelled."))
			return nil
		}
	}

	fmt.Println()
	fmt.Println(ui.FormatInfo("Purging catalog..."))

	rootRemoved, err := appVault.Purge()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to delete catalog: " + err.Error()))
		return err
	}
	appLog.Warn().Str("root", appVault.RootPath).Bool("root_removed", rootRemoved).Msg("catalog purged")

	fmt.Println()
	fmt.Println(ui.FormatSuccess("Catalog purged"))
	if !rootRemoved {
		fmt.Println(ui.FormatMuted("Kept " + appVault.RootPath + ": it holds files imgc did not create"))
	}
	fmt.Println(ui.FormatInfo("To start over, run: imgc init"))
	return nil
}

// confirmPurge asks for "yes" and then for the root path typed back
func confirmPurge(reader *bufio.Reader, root string) bool {
	for {
		fmt.Print(ui.StyleError.Render("Are you absolutely sure you want to delete the catalog? (yes/no): "))
		response, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response == "yes" {
			break
		}
		if response == "no" {
			return false
		}
		fmt.Println(ui.FormatWarning("Please type 'yes' or 'no' (full words required)."))
	}

	fmt.Println()
	for {
		fmt.Printf("%s %s\n", ui.StyleError.Render("To confirm, type the catalog path:"), ui.StyleBold.Render(root))
		fmt.Print(ui.StyleError.Render("> "))
		response, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		response = strings.TrimSpace(response)
		if response == root {
			return true
		}
		if response == "" {
			return false
		}
		fmt.Println(ui.FormatWarning("Path does not match. Please try again or press Enter to cancel."))
	}
}
