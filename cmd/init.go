package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/ui"
	"github.com/kamal-hamza/imgc/pkg/vault"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the imgc storage directory",
	Long: `Initialize the imgc storage directory structure.

This creates the catalog root (default ~/.local/share/imgc/) with:
  - images/                : Imported files and the metadata file
  - images/image_data.csv  : Metadata catalog (image_data.db for sqlite)
  - cache/                 : Generated charts and gallery pages

and writes a commented default config.yaml if none exists.`,
	Annotations: map[string]string{annotationWrites: "true"},
	RunE:        runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// Opening the catalog already created the directories and the store
	if vaultExisted {
		fmt.Println(ui.FormatWarning("Storage already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + appVault.RootPath))
		fmt.Println(ui.FormatMuted(fmt.Sprintf("Records:  %d", catalog.Len())))
		return nil
	}

	fmt.Println(ui.FormatRocket("Initializing imgc storage..."))
	fmt.Println()

	if err := createDefaultConfig(appVault); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		// Don't fail - config is optional
	}

	fmt.Println(ui.FormatSuccess("Storage initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", appVault.RootPath))
	fmt.Println(ui.RenderKeyValue("Backend", catalog.Store().Kind()))
	fmt.Println(ui.RenderKeyValue("Metadata", catalog.Store().Path()))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Import an image: imgc import ~/Pictures/photo.jpg -d \"Beach\""))
	fmt.Println(ui.FormatMuted("  2. List the catalog: imgc list"))
	fmt.Println(ui.FormatMuted("  3. Check consistency: imgc verify"))

	return nil
}

func createDefaultConfig(v *vault.Vault) error {
	if _, err := os.Stat(v.ConfigPath); err == nil {
		return nil
	}

	defaultConfig := `# imgc configuration
# This file is optional - all settings have sensible defaults

# Catalog root (default: $XDG_DATA_HOME/imgc)
# root: ""

# Metadata backend: table, delimited or sqlite
# backend: table

# File types accepted by 'imgc import' (use --any to bypass)
# allowed_extensions: [jpg, jpeg, png, gif, bmp, tiff, tif, webp]

# Program used by 'imgc show --open' (default: OS handler)
# viewer: ""

# Listing defaults: added or name
# default_sort: added
# reverse_sort: false

# log_level: warn
# watch_debounce_ms: 500
`

	configDir := filepath.Dir(v.ConfigPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(v.ConfigPath, []byte(defaultConfig), 0644)
}
