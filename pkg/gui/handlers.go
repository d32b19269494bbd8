package gui

import (
	"fmt"

	"github.com/jesseduffield/gocui"
	"github.com/marjoballabani/lazybuild/pkg/selection"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
)

// State checking helpers

func (g *Gui) isModalOpen() bool {
	return g.modalOpen || g.helpOpen || g.errorOpen
}

// setFocus sets the current column and updates gocui's current view
func (g *Gui) setFocus(gui *gocui.Gui, column string) error {
	g.currentColumn = column
	if _, err := gui.SetCurrentView(column); err != nil {
		return err
	}
	return nil
}

// Selection handlers - called by actions

// selectVisibleTarget moves the target selection by delta within the
// filtered list.
func (g *Gui) selectVisibleTarget(delta int) {
	items := g.visibleTargets()
	if len(items) == 0 {
		return
	}
	current := g.coord.SelectedTarget()
	idx := indexOf(items, func(it selection.TargetItem) bool { return it.Target == current })
	idx = clamp(idx+delta, len(items))
	g.coord.SetTarget(g.ctx, items[idx].Target)
}

// selectVisibleConfiguration moves the configuration selection by delta
// within the filtered list.
func (g *Gui) selectVisibleConfiguration(delta int) {
	items := g.visibleConfigurations()
	if len(items) == 0 {
		return
	}
	current := g.coord.SelectedConfiguration()
	idx := indexOf(items, func(it selection.ConfigurationItem) bool { return it.Configuration == current })
	idx = clamp(idx+delta, len(items))
	g.coord.SetConfiguration(g.ctx, items[idx].Configuration)
}

// moveSettingsCursor moves the highlighted setting, or scrolls jq output.
func (g *Gui) moveSettingsCursor(delta int) {
	if isJqFilter(g.getFilterForPanel(panelSettings)) {
		g.settingsScrollPos += delta
		if g.settingsScrollPos < 0 {
			g.settingsScrollPos = 0
		}
		return
	}
	g.settingsCursor = clamp(g.settingsCursor+delta, g.coord.Settings().Len())
}

// selectedSetting returns the highlighted setting.
func (g *Gui) selectedSetting() (xcode.Setting, bool) {
	settings := g.coord.Settings().Items()
	if g.settingsCursor < 0 || g.settingsCursor >= len(settings) {
		return xcode.Setting{}, false
	}
	return settings[g.settingsCursor], true
}

// showError logs err and opens the error popup with a hint on how to fix it.
func (g *Gui) showError(err error) {
	if err == nil {
		return
	}
	g.logCommand("error", err.Error(), "error")

	items := []PopupItem{
		{Key: "r", Label: "Reload", Action: g.doReload},
		{Key: "Esc", Label: "Close", Action: g.closeErrorPopup},
	}
	g.errorPopup = NewPopup("Error", items, g.theme, g.views.errorModal)
	g.errorPopup.Message = []string{ansiError + err.Error() + ansiReset}
	if hint := xcode.HintFor(err); hint != "" {
		g.errorPopup.Message = append(g.errorPopup.Message, "", hint)
	}
	g.errorOpen = true
}

func (g *Gui) closeErrorPopup() error {
	g.errorOpen = false
	g.errorPopup = nil
	return g.Layout(g.g)
}

// Help popup builder

func (g *Gui) buildHelpPopup() {
	items := []PopupItem{
		{Key: "", Label: "Global", IsHeader: true},
		{Key: "←/→ h/l", Label: "Switch panels"},
		{Key: "↑/↓ j/k", Label: "Move up/down"},
		{Key: "Tab", Label: "Next panel", Action: g.doNextColumn},
		{Key: "/", Label: "Filter / Search", Action: g.startFilter},
		{Key: "Esc", Label: "Clear filter / Close"},
		{Key: "r", Label: "Reload projects", Action: g.doReload},
		{Key: "@", Label: "Command log", Action: g.doToggleModal},
		{Key: "?", Label: "This help"},
		{Key: "q", Label: "Quit", Action: g.doQuit},
		{Key: "", Label: g.getPanelName(), IsHeader: true},
	}

	switch g.currentColumn {
	case panelTargets:
		items = append(items,
			PopupItem{Key: "j/k", Label: "Select target"},
			PopupItem{Key: "Enter", Label: "Show configurations", Action: g.doNextColumn},
		)
	case panelConfigurations:
		items = append(items,
			PopupItem{Key: "j/k", Label: "Select configuration"},
			PopupItem{Key: "Enter", Label: "Show build settings", Action: g.doNextColumn},
		)
	case panelSettings:
		items = append(items,
			PopupItem{Key: "/", Label: "Search settings, or jq when it starts with ."},
			PopupItem{Key: "c", Label: "Copy setting", Action: g.doCopySetting},
			PopupItem{Key: "C", Label: "Copy visible settings", Action: g.doCopyAll},
			PopupItem{Key: "s", Label: "Save JSON to Downloads", Action: g.doSaveJSON},
		)
	}

	g.helpPopup = NewPopup("Keyboard Shortcuts", items, g.theme, g.views.helpModal)
}

func (g *Gui) renderHelpContent(v *gocui.View) {
	if g.helpPopup == nil {
		return
	}
	g.helpPopup.Render(v)
}

func (g *Gui) getPanelName() string {
	return g.getPanelNameFor(g.currentColumn)
}

func (g *Gui) getPanelNameFor(panel string) string {
	switch panel {
	case panelTargets:
		return "Targets"
	case panelConfigurations:
		return "Configurations"
	case panelSettings:
		return "Build Settings"
	default:
		return "Panel"
	}
}

// selectedPathTitle is the breadcrumb of the current selection.
func (g *Gui) selectedPathTitle() string {
	if c := g.coord.SelectedConfiguration(); c != nil {
		return g.coord.CurrentPath(c, g.coord.IncludeProjects())
	}
	if t := g.coord.SelectedTarget(); t != nil {
		return fmt.Sprintf("%s > …", g.coord.CurrentPath(t, g.coord.IncludeProjects()))
	}
	return ""
}
