package gui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/marjoballabani/lazybuild/pkg/export"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
)

const (
	ansiReset  = "\033[0m"
	ansiHeader = "\033[36m"
	ansiName   = "\033[33m"
	ansiDim    = "\033[90m"
	ansiError  = "\033[31m"
)

// settingLines renders settings as "NAME = value" rows with the names padded
// to a common width.
func settingLines(settings []xcode.Setting) []string {
	width := 0
	for _, s := range settings {
		if len(s.Name) > width {
			width = len(s.Name)
		}
	}
	lines := make([]string, len(settings))
	for i, s := range settings {
		lines[i] = fmt.Sprintf("%s%-*s%s = %s", ansiName, width, s.Name, ansiReset, s.Value)
	}
	return lines
}

// jqContent runs expr over settings and renders the highlighted results,
// or the error in red.
func jqContent(settings []xcode.Setting, expr, style string) string {
	out, err := export.QueryJSON(settings, expr)
	if err != nil {
		return fmt.Sprintf("%s%v%s\n", ansiError, err, ansiReset)
	}
	return export.HighlightString(out, style)
}

// sectionHeader renders the "─── title ───" line used at the top of panels
// and popups.
func sectionHeader(title string) string {
	return fmt.Sprintf("%s─── %s ───%s", ansiHeader, title, ansiReset)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// saveFileName names the file settings of target/config are saved to.
func saveFileName(target, config string, jq bool) string {
	name := unsafeFileChars.ReplaceAllString(target, "_") + "-" + unsafeFileChars.ReplaceAllString(config, "_")
	if jq {
		name += "-jq"
	}
	return name + ".json"
}

// countFooter renders a panel footer such as "2 of 5" or "3/5 matched".
func countFooter(selected, visible, total int, filtered bool) string {
	switch {
	case filtered:
		return fmt.Sprintf("%d/%d matched", visible, total)
	case total == 0:
		return "0 of 0"
	}
	return fmt.Sprintf("%d of %d", selected+1, total)
}

// indexOf returns the index of the first item for which match is true, or -1.
func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

// clamp keeps i within [0, n).
func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// leftPanelHeights splits the left column between targets and
// configurations, giving the focused panel more room.
func leftPanelHeights(column string, total int) (targets, configurations int) {
	switch column {
	case panelTargets:
		targets = total * 2 / 3
	case panelConfigurations:
		targets = total / 3
	default:
		targets = total / 2
	}
	if targets < 3 {
		targets = 3
	}
	return targets, total - targets
}

// trimLines drops trailing empty lines.
func trimLines(s string) string {
	return strings.TrimRight(s, "\n")
}
