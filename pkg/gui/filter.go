package gui

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/marjoballabani/lazybuild/pkg/selection"
)

// Panel names double as gocui view names.
const (
	panelTargets        = "targets"
	panelConfigurations = "configurations"
	panelSettings       = "settings"
)

// MatchesFilter reports whether the characters of filter appear in text in
// order, ignoring case. An empty filter matches everything.
func MatchesFilter(text, filter string) bool {
	if filter == "" {
		return true
	}
	return fuzzy.MatchFold(filter, text)
}

func filterTargets(items []selection.TargetItem, filter string) []selection.TargetItem {
	if filter == "" {
		return items
	}
	var filtered []selection.TargetItem
	for _, it := range items {
		if MatchesFilter(it.Path, filter) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

func filterConfigurations(items []selection.ConfigurationItem, filter string) []selection.ConfigurationItem {
	if filter == "" {
		return items
	}
	var filtered []selection.ConfigurationItem
	for _, it := range items {
		if MatchesFilter(it.Configuration.Name, filter) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// isJqFilter reports whether a settings filter is a jq expression rather
// than a plain search.
func isJqFilter(filter string) bool {
	return strings.HasPrefix(filter, ".")
}

func (g *Gui) startFilter() error {
	if g.isModalOpen() || g.filterInputActive {
		return nil
	}
	g.setFilterForPanel(g.currentColumn, "")
	g.filterInputActive = true
	g.filterInputPanel = g.currentColumn
	g.filterInputText = ""
	g.filterCursorPos = 0
	g.filterChanged()
	return g.Layout(g.g)
}

func (g *Gui) commitFilter() error {
	g.setFilterForPanel(g.filterInputPanel, g.filterInputText)

	g.filterInputActive = false
	g.filterInputText = ""
	g.filterInputPanel = ""
	g.filterCursorPos = 0
	g.filterChanged()
	return g.Layout(g.g)
}

func (g *Gui) cancelFilterInput() error {
	g.filterInputActive = false
	g.filterInputText = ""
	g.filterInputPanel = ""
	g.filterCursorPos = 0
	g.filterChanged()
	return g.Layout(g.g)
}

func (g *Gui) clearCurrentFilter() error {
	g.setFilterForPanel(g.currentColumn, "")
	g.filterChanged()
	return g.Layout(g.g)
}

func (g *Gui) setFilterForPanel(panel, filter string) {
	switch panel {
	case panelTargets:
		g.targetsFilter = filter
	case panelConfigurations:
		g.configurationsFilter = filter
	case panelSettings:
		g.settingsFilter = filter
		g.settingsCursor = 0
		g.settingsScrollPos = 0
	}
}

func (g *Gui) isFilteringPanel(panel string) bool {
	return g.filterInputActive && g.filterInputPanel == panel
}

// getFilterForPanel returns the text being typed for panel, or its
// committed filter.
func (g *Gui) getFilterForPanel(panel string) string {
	if g.isFilteringPanel(panel) {
		return g.filterInputText
	}
	switch panel {
	case panelTargets:
		return g.targetsFilter
	case panelConfigurations:
		return g.configurationsFilter
	case panelSettings:
		return g.settingsFilter
	}
	return ""
}

func (g *Gui) hasActiveFilter(panel string) bool {
	switch panel {
	case panelTargets:
		return g.targetsFilter != ""
	case panelConfigurations:
		return g.configurationsFilter != ""
	case panelSettings:
		return g.settingsFilter != ""
	}
	return false
}

// filterChanged pushes the settings filter to the coordinator. A jq filter
// leaves the search empty and is applied when rendering.
func (g *Gui) filterChanged() {
	filter := g.getFilterForPanel(panelSettings)
	if isJqFilter(filter) {
		filter = ""
	}
	g.coord.SetSearchString(filter)
}

func (g *Gui) insertFilterChar(ch rune) error {
	g.filterInputText = g.filterInputText[:g.filterCursorPos] + string(ch) + g.filterInputText[g.filterCursorPos:]
	g.filterCursorPos++
	g.filterChanged()
	return g.Layout(g.g)
}

func (g *Gui) deleteFilterChar() error {
	if g.filterCursorPos > 0 && len(g.filterInputText) > 0 {
		g.filterInputText = g.filterInputText[:g.filterCursorPos-1] + g.filterInputText[g.filterCursorPos:]
		g.filterCursorPos--
		g.filterChanged()
	}
	return g.Layout(g.g)
}

func (g *Gui) visibleTargets() []selection.TargetItem {
	return filterTargets(g.coord.Targets().Items(), g.getFilterForPanel(panelTargets))
}

func (g *Gui) visibleConfigurations() []selection.ConfigurationItem {
	return filterConfigurations(g.coord.Configurations().Items(), g.getFilterForPanel(panelConfigurations))
}
