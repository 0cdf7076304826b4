// Package prefs is the process-wide preferences file: small key-value state
// that lives outside the relational store (session indicator, theme, category
// documents, installation id).
package prefs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Preference keys.
const (
	KeyCurrentUser    = "current_user_id"
	KeyTheme          = "theme_preference"
	KeyCategories     = "custom_categories"
	KeyCategoryIcons  = "category_icons"
	KeyCategoryColors = "category_colors"
	KeyInstallationID = "installation_id"
)

// Store reads and writes the YAML preferences file. Every Set writes the file
// through immediately.
type Store struct {
	v    *viper.Viper
	path string
}

// DefaultDir returns the default data directory, ~/.config/todopro.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todopro")
}

// Open loads the preferences at path. A missing file is not an error; it is
// created on the first Set.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		_, pathErr := err.(*os.PathError)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !pathErr && !notFound {
			return nil, fmt.Errorf("reading preferences %s: %w", path, err)
		}
	}

	return &Store{v: v, path: path}, nil
}

// GetString returns the stored value for key, or def when unset.
func (s *Store) GetString(key, def string) string {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetString(key)
}

// GetInt64 returns the stored value for key, or def when unset.
func (s *Store) GetInt64(key string, def int64) int64 {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetInt64(key)
}

// Set stores value under key and writes the preferences file through,
// creating the parent directory if needed.
func (s *Store) Set(key string, value any) error {
	s.v.Set(key, value)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preferences directory %s: %w", dir, err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing preferences %s: %w", s.path, err)
	}
	return nil
}

// Theme returns the stored theme preference; "system" when unset.
func (s *Store) Theme() string {
	return s.GetString(KeyTheme, "system")
}

// SetTheme persists the theme preference.
func (s *Store) SetTheme(theme string) error {
	return s.Set(KeyTheme, theme)
}

// InstallationID returns the stable per-installation identifier, minting and
// persisting one on first use.
func (s *Store) InstallationID() (string, error) {
	if id := s.GetString(KeyInstallationID, ""); id != "" {
		return id, nil
	}
	id := uuid.NewString()
	if err := s.Set(KeyInstallationID, id); err != nil {
		return "", err
	}
	return id, nil
}
