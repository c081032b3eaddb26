package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/imgc/internal/core/domain"
)

const (
	// StorageDirName is the directory holding assets and the metadata file
	StorageDirName = "images"

	// MetadataBaseName is the metadata file name without extension
	MetadataBaseName = "image_data"

	lockFileName = ".imgc.lock"
)

// Vault represents the managed catalog root for imgc
type Vault struct {
	RootPath    string
	StoragePath string
	CachePath   string
	ConfigPath  string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	v := NewAt(rootPath)
	v.ConfigPath = configPath
	return v, nil
}

// NewAt creates a Vault rooted at an explicit directory.
// ConfigPath is left to the standard location.
func NewAt(rootPath string) *Vault {
	if abs, err := filepath.Abs(rootPath); err == nil {
		rootPath = abs
	}
	configPath, _ := getConfigPath()
	return &Vault{
		RootPath:    rootPath,
		StoragePath: filepath.Join(rootPath, StorageDirName),
		CachePath:   filepath.Join(rootPath, "cache"),
		ConfigPath:  configPath,
	}
}

// getVaultRoot returns the vault root directory path
// Uses XDG_DATA_HOME on Unix and AppData on Windows
func getVaultRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "imgc"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "imgc"), nil
	}

	return filepath.Join(homeDir, ".local", "share", "imgc"), nil
}

// ConfigFilePath returns the standard config file location
func ConfigFilePath() (string, error) {
	return getConfigPath()
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "imgc", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "imgc-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "imgc", "config.yaml"), nil
}

// Ensure creates the storage and cache directories if they don't exist.
// Fails with domain.ErrStorageUnavailable when a path cannot be a directory.
func (v *Vault) Ensure() error {
	for _, dir := range []string{v.RootPath, v.StoragePath, v.CachePath} {
		if err := ensureDir(dir); err != nil {
			return domain.NewError(domain.ErrStorageUnavailable, "ensure storage", dir, err)
		}
	}
	return nil
}

func ensureDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Exists checks if the storage directory has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.StoragePath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// AssetPath returns the full path for a stored asset. It does not check existence.
func (v *Vault) AssetPath(storedName string) string {
	return filepath.Join(v.StoragePath, storedName)
}

// MetadataPath returns the metadata file for a store backend
func (v *Vault) MetadataPath(backend string) string {
	ext := ".csv"
	if backend == "sqlite" {
		ext = ".db"
	}
	return filepath.Join(v.StoragePath, MetadataBaseName+ext)
}

// LockPath returns the advisory lock file used by long-running commands
func (v *Vault) LockPath() string {
	return filepath.Join(v.StoragePath, lockFileName)
}

// GetCachePath returns the full path for a cached file
func (v *Vault) GetCachePath(filename string) string {
	return filepath.Join(v.CachePath, filename)
}

// CleanCache removes everything in the cache directory and reports how many
// entries were removed. A missing cache directory is not an error.
func (v *Vault) CleanCache() (int, error) {
	entries, err := os.ReadDir(v.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for i, entry := range entries {
		path := filepath.Join(v.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return len(entries), nil
}

// Purge deletes the storage and cache directories. The root itself is
// removed only when nothing else is left in it, so a root pointed at an
// existing directory keeps the files imgc did not create there.
// It reports whether the root was removed.
func (v *Vault) Purge() (bool, error) {
	for _, dir := range []string{v.StoragePath, v.CachePath} {
		if err := os.RemoveAll(dir); err != nil {
			return false, fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}

	entries, err := os.ReadDir(v.RootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", v.RootPath, err)
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(v.RootPath); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", v.RootPath, err)
	}
	return true, nil
}

// IsReserved reports whether a storage entry belongs to imgc itself
// (metadata files, locks, temp and hidden files) rather than to an asset.
func (v *Vault) IsReserved(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return strings.HasPrefix(name, MetadataBaseName+".")
}
