package gui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jesseduffield/gocui"
	"github.com/marjoballabani/lazybuild/pkg/config"
)

// Theme holds the parsed colours of config.ThemeConfig.
type Theme struct {
	ActiveBorderColor   gocui.Attribute
	InactiveBorderColor gocui.Attribute
	FilterBorderColor   gocui.Attribute
	OptionsTextColor    gocui.Attribute
	SelectedLineBgColor gocui.Attribute
}

func NewTheme(cfg config.ThemeConfig) *Theme {
	return &Theme{
		ActiveBorderColor:   parseColor(cfg.ActiveBorderColor),
		InactiveBorderColor: parseColor(cfg.InactiveBorderColor),
		FilterBorderColor:   parseColor(cfg.FilterBorderColor),
		OptionsTextColor:    parseColor(cfg.OptionsTextColor),
		SelectedLineBgColor: parseColor(cfg.SelectedLineBgColor),
	}
}

// frameColor picks the border colour of a panel.
func (t *Theme) frameColor(focused, filtered bool) gocui.Attribute {
	switch {
	case focused && filtered:
		return t.FilterBorderColor
	case focused:
		return t.ActiveBorderColor
	}
	return t.InactiveBorderColor
}

func parseColor(colorSpec []string) gocui.Attribute {
	if len(colorSpec) == 0 {
		return gocui.ColorDefault
	}

	var attr gocui.Attribute

	for _, spec := range colorSpec {
		spec = strings.ToLower(strings.TrimSpace(spec))

		switch spec {
		case "bold":
			attr |= gocui.AttrBold
		case "underline":
			attr |= gocui.AttrUnderline
		case "reverse":
			attr |= gocui.AttrReverse
		default:
			attr |= parseColorValue(spec)
		}
	}

	return attr
}

func parseColorValue(color string) gocui.Attribute {
	// Handle hex colors
	if strings.HasPrefix(color, "#") {
		return parseHexColor(color)
	}

	// Named colors
	switch color {
	case "default":
		return gocui.ColorDefault
	case "black":
		return gocui.ColorBlack
	case "red":
		return gocui.ColorRed
	case "green":
		return gocui.ColorGreen
	case "yellow":
		return gocui.ColorYellow
	case "blue":
		return gocui.ColorBlue
	case "magenta":
		return gocui.ColorMagenta
	case "cyan":
		return gocui.ColorCyan
	case "white":
		return gocui.ColorWhite
	default:
		// Try parsing as a number (256 color)
		if n, err := strconv.Atoi(color); err == nil && n >= 0 && n < 256 {
			return gocui.Attribute(n) | gocui.AttrIsValidColor
		}
		return gocui.ColorDefault
	}
}

func parseHexColor(hex string) gocui.Attribute {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return gocui.ColorDefault
	}

	r, err := strconv.ParseInt(hex[0:2], 16, 64)
	if err != nil {
		return gocui.ColorDefault
	}
	g, err := strconv.ParseInt(hex[2:4], 16, 64)
	if err != nil {
		return gocui.ColorDefault
	}
	b, err := strconv.ParseInt(hex[4:6], 16, 64)
	if err != nil {
		return gocui.ColorDefault
	}

	return gocui.NewRGBColor(int32(r), int32(g), int32(b))
}

// ActiveAnsi returns the ANSI escape code of the active border colour, used
// for the selection marker.
func (t *Theme) ActiveAnsi() string {
	return attributeToAnsi(t.ActiveBorderColor)
}

func attributeToAnsi(attr gocui.Attribute) string {
	if attr&gocui.AttrIsRGBColor != 0 {
		rgb := uint32(attr & 0xFFFFFF)
		r := (rgb >> 16) & 0xFF
		g := (rgb >> 8) & 0xFF
		b := rgb & 0xFF
		return fmt.Sprintf("\033[38;2;%d;%d;%dm", r, g, b)
	}

	if attr&gocui.AttrIsValidColor == 0 {
		return "\033[36m"
	}
	n := int(attr & 0xFF)
	if n < 8 {
		return fmt.Sprintf("\033[%dm", 30+n)
	}
	return fmt.Sprintf("\033[38;5;%dm", n)
}
