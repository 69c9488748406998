package resume

import (
	"errors"
	"testing"
)

func TestThemeApply(t *testing.T) {
	got := DefaultTheme().Apply(ThemePatch{PrimaryColor: "#10b981", FontWeight: FontWeightSemibold})
	want := Theme{FontFamily: "Inter", PrimaryColor: "#10b981", FontSize: FontSizeMedium, FontWeight: FontWeightSemibold}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if DefaultTheme().Apply(ThemePatch{}) != DefaultTheme() {
		t.Fatalf("empty patch must keep the theme")
	}
}

func TestThemeValidate(t *testing.T) {
	cases := []struct {
		theme Theme
		ok    bool
	}{
		{theme: DefaultTheme(), ok: true},
		{theme: Theme{FontFamily: "Lato", PrimaryColor: "#abc", FontSize: FontSizeSmall, FontWeight: FontWeightRegular}, ok: true},
		{theme: Theme{PrimaryColor: "#abc", FontSize: FontSizeSmall, FontWeight: FontWeightRegular}},
		{theme: Theme{FontFamily: "Lato", PrimaryColor: "#abcd", FontSize: FontSizeSmall, FontWeight: FontWeightRegular}},
		{theme: Theme{FontFamily: "Lato", PrimaryColor: "#abc", FontSize: "xl", FontWeight: FontWeightRegular}},
		{theme: Theme{FontFamily: "Lato", PrimaryColor: "#abc", FontSize: FontSizeSmall, FontWeight: "bold"}},
	}
	for _, tc := range cases {
		err := tc.theme.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%+v: unexpected error %v", tc.theme, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidTheme) {
			t.Fatalf("%+v: expected ErrInvalidTheme, got %v", tc.theme, err)
		}
	}
}

func TestThemePresetsAreValid(t *testing.T) {
	for name, preset := range ThemePresets() {
		if err := DefaultTheme().Apply(preset).Validate(); err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
	}
	for _, color := range Colors() {
		theme := DefaultTheme()
		theme.PrimaryColor = color
		if err := theme.Validate(); err != nil {
			t.Fatalf("color %s: %v", color, err)
		}
	}
}
