package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/imgc/pkg/config"
	"github.com/kamal-hamza/imgc/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the imgc configuration file",
	Long: `Open the configuration file in $EDITOR (default: vi).

The file is created with commented defaults when it does not exist yet,
and re-validated after the editor exits.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := appVault.ConfigPath

	if err := createDefaultConfig(appVault); err != nil {
		return err
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return err
	}

	if _, err := config.Load(path); err != nil {
		fmt.Println(ui.FormatWarning("The saved configuration is invalid; imgc will refuse to start until it is fixed"))
		return err
	}
	fmt.Println(ui.FormatSuccess("Configuration is valid"))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatMuted("# " + appVault.ConfigPath))
	data, err := yaml.Marshal(appConfig)
	if err != nil {
		return err
	}
	if isInteractive() {
		fmt.Print(highlightYAML(string(data)))
		return nil
	}
	fmt.Print(string(data))
	return nil
}

// highlightYAML applies terminal syntax highlighting to YAML content
func highlightYAML(content string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf strings.Builder
	if err := formatters.TTY16m.Format(&buf, style, iterator); err != nil {
		return content
	}
	return buf.String()
}
