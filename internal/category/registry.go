// Package category persists the user-defined category list and per-category
// icon/color assignments as JSON documents inside the preferences file.
package category

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mlefevre/todopro/internal/prefs"
)

// Defaults is the built-in category list used when nothing is stored.
var Defaults = []string{"General", "Work", "Personal", "Shopping", "Health"}

var defaultIcons = map[string]string{
	"General":  "category_general.svg",
	"Work":     "category_work.svg",
	"Personal": "category_personal.svg",
	"Shopping": "category_shopping.svg",
	"Health":   "category_health.svg",
}

var defaultColors = map[string]string{
	"General":  "#5C6BC0",
	"Work":     "#3949AB",
	"Personal": "#8E24AA",
	"Shopping": "#00897B",
	"Health":   "#43A047",
}

// Generic fallbacks for category names with no assignment of their own.
const (
	GenericIcon  = "category_general.svg"
	GenericColor = "#5C6BC0"
)

// Registry manages the category list and its icon/color maps. Every read
// fails soft: missing or malformed documents resolve to the built-in
// defaults, never an error.
type Registry struct {
	prefs *prefs.Store
}

// NewRegistry returns a registry over the given preferences store.
func NewRegistry(p *prefs.Store) *Registry {
	return &Registry{prefs: p}
}

// Categories returns the stored category list, case-insensitively
// de-duplicated with first-occurrence order preserved. An empty, blank-only,
// or unparseable document resolves to the defaults.
func (r *Registry) Categories() []string {
	stored := r.prefs.GetString(prefs.KeyCategories, "")
	if strings.TrimSpace(stored) == "" {
		return defaultList()
	}

	var parsed []string
	if err := json.Unmarshal([]byte(stored), &parsed); err != nil {
		return defaultList()
	}

	var categories []string
	seen := make(map[string]bool, len(parsed))
	for _, name := range parsed {
		if strings.TrimSpace(name) == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, name)
	}
	if len(categories) == 0 {
		return defaultList()
	}
	return categories
}

// Add appends name when not already present (case-insensitive) and persists
// the full list. It returns the updated list; a blank name is a no-op.
func (r *Registry) Add(name string) ([]string, error) {
	name = strings.TrimSpace(name)
	categories := r.Categories()
	if name == "" {
		return categories, nil
	}
	for _, existing := range categories {
		if strings.EqualFold(existing, name) {
			return categories, nil
		}
	}
	categories = append(categories, name)
	return categories, r.Save(categories)
}

// Save persists the full category list.
func (r *Registry) Save(categories []string) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	return r.prefs.Set(prefs.KeyCategories, string(payload))
}

// Icon returns the icon key assigned to the category, its built-in default,
// or the generic icon for unrecognized names. Lookups are case-insensitive.
func (r *Registry) Icon(category string) string {
	return r.styleFor(prefs.KeyCategoryIcons, defaultIcons, GenericIcon, category)
}

// Color returns the color assigned to the category, following the same
// fallback chain as Icon.
func (r *Registry) Color(category string) string {
	return r.styleFor(prefs.KeyCategoryColors, defaultColors, GenericColor, category)
}

// SetIcon assigns an icon key to the category and persists the map.
func (r *Registry) SetIcon(category, iconKey string) error {
	return r.setStyle(prefs.KeyCategoryIcons, defaultIcons, category, iconKey)
}

// SetColor assigns a color to the category and persists the map.
func (r *Registry) SetColor(category, color string) error {
	return r.setStyle(prefs.KeyCategoryColors, defaultColors, category, color)
}

func (r *Registry) styleFor(key string, defaults map[string]string, generic, category string) string {
	m := r.styleMap(key, defaults)
	for name, value := range m {
		if strings.EqualFold(name, category) {
			return value
		}
	}
	for name, value := range defaults {
		if strings.EqualFold(name, category) {
			return value
		}
	}
	return generic
}

func (r *Registry) setStyle(key string, defaults map[string]string, category, value string) error {
	m := r.styleMap(key, defaults)
	for name := range m {
		if strings.EqualFold(name, category) {
			delete(m, name)
		}
	}
	m[category] = value

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding category styles: %w", err)
	}
	return r.prefs.Set(key, string(payload))
}

// styleMap loads a stored icon/color document, resolving missing, empty, or
// malformed documents to a copy of the defaults.
func (r *Registry) styleMap(key string, defaults map[string]string) map[string]string {
	stored := r.prefs.GetString(key, "")
	if strings.TrimSpace(stored) == "" {
		return copyMap(defaults)
	}
	var parsed map[string]string
	if err := json.Unmarshal([]byte(stored), &parsed); err != nil || len(parsed) == 0 {
		return copyMap(defaults)
	}
	return parsed
}

func defaultList() []string {
	return append([]string(nil), Defaults...)
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
