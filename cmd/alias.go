package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/imgc/pkg/config"
	"github.com/kamal-hamza/imgc/pkg/ui"
	"github.com/kamal-hamza/imgc/pkg/vault"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage command aliases",
	Long: `Manage user-defined command aliases.

Aliases are stored in the configuration file and expand to an imgc
command line. $1, $2 and $@ are replaced by the alias arguments;
without placeholders the arguments are appended.

Examples:
  imgc alias list
  imgc alias add recent "list --sort added --reverse"
  imgc alias add shot "import -d screenshot"
  imgc alias remove recent`,
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all defined aliases",
	Args:  cobra.NoArgs,
	RunE:  runAliasList,
}

var aliasAddCmd = &cobra.Command{
	Use:   "add <name> <command>",
	Short: "Add a new alias",
	Long: `Add a new command alias to your configuration.

The alias name should be a single word (no spaces) and must not shadow an
existing command.`,
	Args: cobra.ExactArgs(2),
	RunE: runAliasAdd,
}

var aliasRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "delete", "del"},
	Short:   "Remove an alias",
	Args:    cobra.ExactArgs(1),
	RunE:    runAliasRemove,
}

func init() {
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasAddCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
}

func runAliasList(cmd *cobra.Command, args []string) error {
	cfg := appConfig

	if len(cfg.Aliases) == 0 {
		fmt.Println(ui.FormatInfo("No aliases defined"))
		fmt.Println(ui.FormatMuted("\nTo add an alias, use:"))
		fmt.Println(ui.FormatMuted("  imgc alias add <name> <command>"))
		return nil
	}

	names := make([]string, 0, len(cfg.Aliases))
	for name := range cfg.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(ui.StyleTitle.Render("Command Aliases"))
	fmt.Println()

	maxNameLen := 0
	for _, name := range names {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	for _, name := range names {
		padding := strings.Repeat(" ", maxNameLen-len(name))
		fmt.Printf("  %s%s  →  %s\n",
			ui.StyleSuccess.Render(name),
			padding,
			ui.FormatMuted(cfg.Aliases[name]))
	}

	fmt.Println()
	fmt.Println(ui.FormatInfo(fmt.Sprintf("Total: %d alias(es)", len(cfg.Aliases))))
	return nil
}

func runAliasAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	command := strings.TrimSpace(args[1])

	if err := validateAliasName(name); err != nil {
		return err
	}
	if isReservedCommand(name) {
		return fmt.Errorf("cannot create alias '%s': conflicts with existing command", name)
	}
	if command == "" {
		return fmt.Errorf("alias command cannot be empty")
	}

	// Re-read the file so flag overrides are not written back
	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return err
	}

	if existing, ok := cfg.Aliases[name]; ok {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("Alias '%s' already exists: %s", name, existing)))
		if !isInteractive() || !confirm("Overwrite?") {
			fmt.Println(ui.FormatInfo("Cancelled"))
			return nil
		}
	}

	cfg.Aliases[name] = command
	if err := cfg.Save(appVault.ConfigPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Created alias: %s → %s", name, command)))
	return nil
}

func runAliasRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := config.Load(appVault.ConfigPath)
	if err != nil {
		return err
	}

	command, ok := cfg.Aliases[name]
	if !ok {
		return fmt.Errorf("alias '%s' not found", name)
	}
	delete(cfg.Aliases, name)

	if err := cfg.Save(appVault.ConfigPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Removed alias: %s → %s", name, command)))
	return nil
}

// validateAliasName checks if an alias name is valid
func validateAliasName(name string) error {
	if name == "" {
		return fmt.Errorf("alias name cannot be empty")
	}
	if strings.Contains(name, " ") {
		return fmt.Errorf("alias name cannot contain spaces")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("alias name cannot start with '-'")
	}
	for _, ch := range name {
		if !isValidAliasChar(ch) {
			return fmt.Errorf("alias name contains invalid character: %c", ch)
		}
	}
	return nil
}

func isValidAliasChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '_'
}

// isReservedCommand reports whether name is a command or command alias
func isReservedCommand(name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// expandAlias expands an alias command string, supporting $1..$n and $@
func expandAlias(aliasCmd string, args []string) []string {
	parts := strings.Fields(aliasCmd)

	for i := range parts {
		// Higher numbers first so $1 does not eat the prefix of $10
		for j := len(args) - 1; j >= 0; j-- {
			parts[i] = strings.ReplaceAll(parts[i], fmt.Sprintf("$%d", j+1), args[j])
		}
		parts[i] = strings.ReplaceAll(parts[i], "$@", strings.Join(args, " "))
	}

	if !strings.Contains(aliasCmd, "$") {
		parts = append(parts, args...)
	}

	return parts
}

// TryResolveAlias attempts to resolve a command as an alias.
// Returns the expanded arguments and true if it was an alias.
func TryResolveAlias(cfg *config.Config, cmdName string, args []string) ([]string, bool) {
	if cfg == nil || cfg.Aliases == nil || isReservedCommand(cmdName) {
		return nil, false
	}

	aliasCmd, ok := cfg.Aliases[cmdName]
	if !ok {
		return nil, false
	}

	return expandAlias(aliasCmd, args), true
}

// resolveArgs rewrites the command line when its first command word is an alias.
// Global flags before the alias name are kept.
func resolveArgs(argv []string) []string {
	idx := -1
	for i := 0; i < len(argv); i++ {
		a := argv[i]
		if a == "--root" || a == "--backend" {
			i++ // value follows
			continue
		}
		if !strings.HasPrefix(a, "-") {
			idx = i
			break
		}
	}
	if idx < 0 {
		return argv
	}

	path, err := vault.ConfigFilePath()
	if err != nil {
		return argv
	}
	cfg, err := config.Load(path)
	if err != nil {
		return argv
	}

	expanded, ok := TryResolveAlias(cfg, argv[idx], argv[idx+1:])
	if !ok {
		return argv
	}

	out := append([]string(nil), argv[:idx]...)
	return append(out, expanded...)
}
