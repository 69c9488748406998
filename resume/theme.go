package resume

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/goliatone/go-history/layering"
)

type FontSize string

const (
	FontSizeSmall  FontSize = "sm"
	FontSizeMedium FontSize = "md"
	FontSizeLarge  FontSize = "lg"
)

type FontWeight string

const (
	FontWeightRegular  FontWeight = "regular"
	FontWeightSemibold FontWeight = "semibold"
)

var ErrInvalidTheme = errors.New("resume: invalid theme")

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Theme customises the rendered resume.
type Theme struct {
	FontFamily   string     `json:"fontFamily"`
	PrimaryColor string     `json:"primaryColor"`
	FontSize     FontSize   `json:"fontSize"`
	FontWeight   FontWeight `json:"fontWeight"`
}

// ThemePatch is a partial theme; empty fields keep the current value.
type ThemePatch struct {
	FontFamily   string     `json:"fontFamily,omitempty"`
	PrimaryColor string     `json:"primaryColor,omitempty"`
	FontSize     FontSize   `json:"fontSize,omitempty"`
	FontWeight   FontWeight `json:"fontWeight,omitempty"`
}

func DefaultTheme() Theme {
	return Theme{
		FontFamily:   "Inter",
		PrimaryColor: "#0ea5e9",
		FontSize:     FontSizeMedium,
		FontWeight:   FontWeightRegular,
	}
}

// Apply overlays patch on t.
func (t Theme) Apply(patch ThemePatch) Theme {
	return layering.Overlay(t, Theme(patch))
}

func (t Theme) Validate() error {
	if t.FontFamily == "" {
		return fmt.Errorf("%w: font family is required", ErrInvalidTheme)
	}
	if !colorPattern.MatchString(t.PrimaryColor) {
		return fmt.Errorf("%w: primary color %q is not a hex color", ErrInvalidTheme, t.PrimaryColor)
	}
	switch t.FontSize {
	case FontSizeSmall, FontSizeMedium, FontSizeLarge:
	default:
		return fmt.Errorf("%w: font size %q", ErrInvalidTheme, t.FontSize)
	}
	switch t.FontWeight {
	case FontWeightRegular, FontWeightSemibold:
	default:
		return fmt.Errorf("%w: font weight %q", ErrInvalidTheme, t.FontWeight)
	}
	return nil
}

// Fonts lists the font families offered by the theme customiser.
func Fonts() []string {
	return []string{"Inter", "Poppins", "Lato", "Merriweather"}
}

// Colors lists the preset accent colours.
func Colors() []string {
	return []string{"#0ea5e9", "#818cf8", "#10b981", "#f97316", "#64748b", "#1e293b"}
}

// ThemePresets returns the named one-click theme styles.
func ThemePresets() map[string]ThemePatch {
	return map[string]ThemePatch{
		"Clean":   {FontFamily: "Inter", PrimaryColor: "#3b82f6", FontSize: FontSizeSmall, FontWeight: FontWeightRegular},
		"Modern":  {FontFamily: "Poppins", PrimaryColor: "#1e293b", FontSize: FontSizeMedium, FontWeight: FontWeightSemibold},
		"Elegant": {FontFamily: "Merriweather", PrimaryColor: "#6d28d9", FontSize: FontSizeMedium, FontWeight: FontWeightRegular},
	}
}
