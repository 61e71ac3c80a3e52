package mdriver

import "testing"

func TestThemeByNameBuiltins(t *testing.T) {
	expected := []string{
		"default",
		"dracula",
		"nord",
		"gruvbox",
		"tokyo-night",
		"catppuccin-mocha",
		"solarized-dark",
		"github-light",
		"one-dark",
		"boring",
	}
	for _, name := range expected {
		if _, ok := ThemeByName(name); !ok {
			t.Fatalf("expected theme %q to be available", name)
		}
	}

	available := AvailableThemes()
	present := make(map[string]struct{}, len(available))
	for _, name := range available {
		present[name] = struct{}{}
	}
	for _, name := range expected {
		if _, ok := present[name]; !ok {
			t.Fatalf("expected theme %q in available list", name)
		}
	}
}

func TestThemeByNameNormalizes(t *testing.T) {
	theme, ok := ThemeByName("  Nord ")
	if !ok || theme.Name() != "nord" {
		t.Fatalf("expected nord, got %v %v", theme, ok)
	}
	if theme, ok := ThemeByName(""); !ok || theme.Name() != "default" {
		t.Fatalf("expected default theme for empty name")
	}
	if _, ok := ThemeByName("missing"); ok {
		t.Fatalf("expected missing theme lookup to fail")
	}
}

func TestBoringThemeHasNoPrefixes(t *testing.T) {
	styles := BoringTheme().Styles()
	if styles.Strong.Prefix != "" || styles.CodeInline.Prefix != "" || styles.Heading[0].Prefix != "" {
		t.Fatalf("boring theme should be unstyled: %+v", styles)
	}
}

func TestCalloutKindString(t *testing.T) {
	if CalloutWarning.String() != "Warning" {
		t.Fatalf("unexpected label %q", CalloutWarning.String())
	}
}
