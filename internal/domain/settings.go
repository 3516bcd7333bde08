package domain

import (
	"regexp"
	"strings"
)

// Theme is the display palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultModel is the text model used when none has been selected.
const DefaultModel = "gemini-2.5-flash"

// SelectableModels lists the text models a user may pick.
var SelectableModels = []string{
	"gemini-2.5-flash",
}

// ParseTheme validates a theme string.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", ErrInvalidTheme
}

// AppSettings holds presentation preferences.
type AppSettings struct {
	Theme            Theme  `json:"theme"`
	CustomSmileImage string `json:"customSmileImage,omitempty"`
}

// DefaultAppSettings returns the dark theme without a custom image.
func DefaultAppSettings() AppSettings {
	return AppSettings{Theme: ThemeDark}
}

var apiKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateAPIKey performs the offline format check on a Gemini API key.
func ValidateAPIKey(key string) error {
	if len(key) < 30 || !apiKeyPattern.MatchString(key) {
		return ErrInvalidAPIKey
	}
	return nil
}

// ValidateModel checks that model is one of SelectableModels.
func ValidateModel(model string) error {
	for _, m := range SelectableModels {
		if m == model {
			return nil
		}
	}
	return ErrUnknownModel
}
