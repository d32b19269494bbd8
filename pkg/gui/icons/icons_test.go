package icons

import "testing"

func TestSetEnabled(t *testing.T) {
	originalEnabled := enabled
	origTarget, origSelected, origError := TARGET_ICON, SELECTED, ERROR
	defer func() {
		enabled = originalEnabled
		TARGET_ICON, SELECTED, ERROR = origTarget, origSelected, origError
	}()

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("IsEnabled() should be true after SetEnabled(true)")
	}

	SetEnabled(false)
	if IsEnabled() {
		t.Error("IsEnabled() should be false after SetEnabled(false)")
	}

	if TARGET_ICON != "" {
		t.Error("TARGET_ICON should be empty when disabled")
	}
	if CONFIGURATION_ICON != "" {
		t.Error("CONFIGURATION_ICON should be empty when disabled")
	}
	if SELECTED != "✓" {
		t.Errorf("SELECTED should be '✓' when disabled, got %q", SELECTED)
	}
	if ERROR != "✗" {
		t.Errorf("ERROR should be '✗' when disabled, got %q", ERROR)
	}
}

func TestPatchForNerdFontsV2(t *testing.T) {
	origTarget, origApp := TARGET_ICON, APP
	defer func() { TARGET_ICON, APP = origTarget, origApp }()

	PatchForNerdFontsV2()

	if TARGET_ICON != "\uf05b" {
		t.Errorf("TARGET_ICON should be patched for v2, got %q", TARGET_ICON)
	}
	if APP != "\uf10b" {
		t.Errorf("APP should be patched for v2, got %q", APP)
	}
}

func TestWithSpace(t *testing.T) {
	tests := []struct {
		icon string
		want string
	}{
		{"", ""},
		{"x", "x "},
	}
	for _, tt := range tests {
		if got := WithSpace(tt.icon); got != tt.want {
			t.Errorf("WithSpace(%q) = %q, want %q", tt.icon, got, tt.want)
		}
	}
}
