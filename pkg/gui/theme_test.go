package gui

import (
	"testing"

	"github.com/jesseduffield/gocui"
	"github.com/marjoballabani/lazybuild/pkg/config"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name string
		spec []string
		want gocui.Attribute
	}{
		{"empty", nil, gocui.ColorDefault},
		{"named", []string{"cyan"}, gocui.ColorCyan},
		{"case and spaces", []string{" Yellow "}, gocui.ColorYellow},
		{"attribute", []string{"green", "bold"}, gocui.ColorGreen | gocui.AttrBold},
		{"256 colour", []string{"208"}, gocui.Attribute(208) | gocui.AttrIsValidColor},
		{"out of range", []string{"300"}, gocui.ColorDefault},
		{"bad hex", []string{"#12"}, gocui.ColorDefault},
		{"hex", []string{"#ed8796"}, gocui.NewRGBColor(0xed, 0x87, 0x96)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseColor(tt.spec); got != tt.want {
				t.Errorf("parseColor(%v) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestFrameColor(t *testing.T) {
	theme := NewTheme(config.ThemeConfig{
		ActiveBorderColor:   []string{"cyan"},
		InactiveBorderColor: []string{"default"},
		FilterBorderColor:   []string{"yellow"},
	})

	if got := theme.frameColor(true, true); got != gocui.ColorYellow {
		t.Errorf("focused filtered panel = %v, want yellow", got)
	}
	if got := theme.frameColor(true, false); got != gocui.ColorCyan {
		t.Errorf("focused panel = %v, want cyan", got)
	}
	if got := theme.frameColor(false, true); got != gocui.ColorDefault {
		t.Errorf("unfocused panel = %v, want default", got)
	}
}

func TestActiveAnsi(t *testing.T) {
	tests := []struct {
		color []string
		want  string
	}{
		{[]string{"default"}, "\033[36m"},
		{[]string{"red"}, "\033[31m"},
		{[]string{"208"}, "\033[38;5;208m"},
		{[]string{"#ff8000"}, "\033[38;2;255;128;0m"},
	}

	for _, tt := range tests {
		theme := NewTheme(config.ThemeConfig{ActiveBorderColor: tt.color})
		if got := theme.ActiveAnsi(); got != tt.want {
			t.Errorf("ActiveAnsi(%v) = %q, want %q", tt.color, got, tt.want)
		}
	}
}
