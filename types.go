package relay

import (
	"fmt"
	"strings"
)

// Category is the closed set of content categories. Each maps to one bucket.
type Category string

const (
	CategoryMods              Category = "mods"
	CategoryScreenshots       Category = "screenshots"
	CategoryRichPresenceIcons Category = "richPresenceIcons"
)

// Categories lists every valid category in a stable order.
func Categories() []Category {
	return []Category{CategoryMods, CategoryScreenshots, CategoryRichPresenceIcons}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryMods, CategoryScreenshots, CategoryRichPresenceIcons:
		return true
	default:
		return false
	}
}

// ConfigKey returns the snake_case key used for the category in configuration files.
func (c Category) ConfigKey() string {
	switch c {
	case CategoryRichPresenceIcons:
		return "rich_presence_icons"
	default:
		return string(c)
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid file category: %s (valid categories: mods, screenshots, richPresenceIcons): %w", s, ErrInvalidInput)
	}
	return c, nil
}

// Environment selects production or development behaviour. Development disables the
// IP allow-list and enables signature diagnostics; it is only ever set from configuration.
type Environment string

const (
	EnvProduction  Environment = "production"
	EnvDevelopment Environment = "development"
)

func (e Environment) IsValid() bool {
	switch e {
	case EnvProduction, EnvDevelopment:
		return true
	default:
		return false
	}
}

// ParseEnvironment accepts the canonical names and the short forms "prod" and "dev".
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return EnvProduction, nil
	case "development", "dev":
		return EnvDevelopment, nil
	default:
		return "", fmt.Errorf("invalid environment: %s (valid environments: production, development)", s)
	}
}
