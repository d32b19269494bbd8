package gui

import (
	"github.com/jesseduffield/gocui"
)

// Actions - clean handler functions without state checks.
// State checks are handled by the binding system's GetDisabledReason.

// doQuit exits the application
func (g *Gui) doQuit() error {
	return gocui.ErrQuit
}

// doEscape handles escape key - closes popups, cancels filter, or clears filter
func (g *Gui) doEscape() error {
	// Priority: error popup > help popup > command modal > filter input > committed filter
	if g.errorOpen {
		return g.closeErrorPopup()
	}
	if g.helpOpen {
		g.helpOpen = false
		g.helpPopup = nil
		return g.Layout(g.g)
	}
	if g.modalOpen {
		g.modalOpen = false
		return g.Layout(g.g)
	}
	if g.filterInputActive {
		return g.cancelFilterInput()
	}
	if g.hasActiveFilter(g.currentColumn) {
		return g.clearCurrentFilter()
	}
	return nil
}

// doToggleHelp toggles the help popup
func (g *Gui) doToggleHelp() error {
	if g.helpOpen {
		g.helpOpen = false
		g.helpPopup = nil
	} else {
		g.buildHelpPopup()
		g.helpOpen = true
	}
	return g.Layout(g.g)
}

// doToggleModal toggles the command log modal
func (g *Gui) doToggleModal() error {
	g.modalOpen = !g.modalOpen
	return g.Layout(g.g)
}

// activePopup is the popup keys are routed to: the error popup wins over help.
func (g *Gui) activePopup() *Popup {
	if g.errorOpen {
		return g.errorPopup
	}
	if g.helpOpen {
		return g.helpPopup
	}
	return nil
}

// Context-specific handlers for popups
func (g *Gui) popupMoveUp() error {
	if p := g.activePopup(); p != nil {
		p.MoveUp()
	}
	return g.Layout(g.g)
}

func (g *Gui) popupMoveDown() error {
	if p := g.activePopup(); p != nil {
		p.MoveDown()
	}
	return g.Layout(g.g)
}

func (g *Gui) helpExecute() error {
	// Get selected item before closing
	var action func() error
	if g.helpPopup != nil {
		if item := g.helpPopup.GetSelectedItem(); item != nil {
			action = item.Action
		}
	}

	g.helpOpen = false
	g.helpPopup = nil

	if action != nil {
		return action()
	}
	return g.Layout(g.g)
}

func (g *Gui) errorExecute() error {
	var action func() error
	if g.errorPopup != nil {
		if item := g.errorPopup.GetSelectedItem(); item != nil {
			action = item.Action
		}
	}

	g.errorOpen = false
	g.errorPopup = nil

	if action != nil {
		return action()
	}
	return g.Layout(g.g)
}

// Context-specific handlers for filter mode
func (g *Gui) filterCursorLeft() error {
	if g.filterCursorPos > 0 {
		g.filterCursorPos--
	}
	return g.Layout(g.g)
}

func (g *Gui) filterCursorRight() error {
	if g.filterCursorPos < len(g.filterInputText) {
		g.filterCursorPos++
	}
	return g.Layout(g.g)
}

// Block handler - does nothing (for modal context)
func (g *Gui) blockAction() error {
	return nil
}

// filterInsert types ch into the filter for keys that have their own binding.
func (g *Gui) filterInsert(ch rune) func() error {
	return func() error { return g.insertFilterChar(ch) }
}

// doColumnLeft switches to the panel on the left
func (g *Gui) doColumnLeft() error {
	var newColumn string
	switch g.currentColumn {
	case panelTargets:
		newColumn = panelSettings
	case panelConfigurations:
		newColumn = panelTargets
	case panelSettings:
		newColumn = panelConfigurations
	}
	return g.setFocus(g.g, newColumn)
}

// doColumnRight switches to the panel on the right
func (g *Gui) doColumnRight() error {
	var newColumn string
	switch g.currentColumn {
	case panelTargets:
		newColumn = panelConfigurations
	case panelConfigurations:
		newColumn = panelSettings
	case panelSettings:
		newColumn = panelTargets
	}
	return g.setFocus(g.g, newColumn)
}

// doNextColumn moves focus towards the settings
func (g *Gui) doNextColumn() error {
	return g.doColumnRight()
}

// doCursorUp moves selection up in current panel
func (g *Gui) doCursorUp() error {
	return g.moveCursor(-1)
}

// doCursorDown moves selection down in current panel
func (g *Gui) doCursorDown() error {
	return g.moveCursor(1)
}

func (g *Gui) doPageUp() error {
	return g.moveCursor(-g.pageSize())
}

func (g *Gui) doPageDown() error {
	return g.moveCursor(g.pageSize())
}

func (g *Gui) moveCursor(delta int) error {
	switch g.currentColumn {
	case panelTargets:
		g.selectVisibleTarget(delta)
	case panelConfigurations:
		g.selectVisibleConfiguration(delta)
	case panelSettings:
		g.moveSettingsCursor(delta)
	}
	return g.Layout(g.g)
}

// pageSize is the height of the focused panel's content.
func (g *Gui) pageSize() int {
	v, err := g.g.View(g.currentColumn)
	if err != nil {
		return 1
	}
	_, h := v.Size()
	if h < 1 {
		return 1
	}
	return h
}

// doFilterBackspace handles backspace in filter mode
func (g *Gui) doFilterBackspace() error {
	if !g.filterInputActive {
		return nil
	}
	return g.deleteFilterChar()
}

// makeFilterCharAction creates a handler for a specific character
func (g *Gui) makeFilterCharAction(ch rune) func() error {
	return func() error {
		if !g.filterInputActive {
			return nil
		}
		return g.insertFilterChar(ch)
	}
}

func (g *Gui) doCopySetting() error {
	return g.copySettingAction()
}

func (g *Gui) doCopyAll() error {
	return g.copyAllAction()
}

// doSaveJSON saves the visible settings to a file
func (g *Gui) doSaveJSON() error {
	return g.saveJSONAction()
}

// doReload drops every cached fetch and lists projects again
func (g *Gui) doReload() error {
	g.errorOpen = false
	g.errorPopup = nil
	g.reload("r")
	return g.Layout(g.g)
}

// Mouse click handlers

// clickedLine returns the view line under the mouse.
func (g *Gui) clickedLine(name string) (int, bool) {
	v, _ := g.g.View(name)
	if v == nil {
		return 0, false
	}
	_, cy := v.Cursor()
	_, oy := v.Origin()
	return cy + oy, true
}

func (g *Gui) popupClick(p *Popup, name string) error {
	if p == nil {
		return nil
	}
	line, ok := g.clickedLine(name)
	if !ok {
		return nil
	}
	if idx := p.ItemAtLine(line); idx >= 0 {
		p.SelectedIdx = idx
	}
	return g.Layout(g.g)
}

func (g *Gui) doHelpClick() error {
	return g.popupClick(g.helpPopup, g.views.helpModal)
}

func (g *Gui) doErrorClick() error {
	return g.popupClick(g.errorPopup, g.views.errorModal)
}

// closePopupsOnClick closes the help popup, reporting whether it was open.
func (g *Gui) closePopupsOnClick() bool {
	if g.helpOpen {
		g.helpOpen = false
		g.helpPopup = nil
		return true
	}
	return false
}

func (g *Gui) doTargetsClick() error {
	if g.closePopupsOnClick() {
		return g.Layout(g.g)
	}
	g.currentColumn = panelTargets
	line, ok := g.clickedLine(panelTargets)
	items := g.visibleTargets()
	if ok && line >= 0 && line < len(items) {
		g.coord.SetTarget(g.ctx, items[line].Target)
	}
	return g.Layout(g.g)
}

func (g *Gui) doConfigurationsClick() error {
	if g.closePopupsOnClick() {
		return g.Layout(g.g)
	}
	g.currentColumn = panelConfigurations
	line, ok := g.clickedLine(panelConfigurations)
	items := g.visibleConfigurations()
	if ok && line >= 0 && line < len(items) {
		g.coord.SetConfiguration(g.ctx, items[line].Configuration)
	}
	return g.Layout(g.g)
}

func (g *Gui) doSettingsClick() error {
	if g.closePopupsOnClick() {
		return g.Layout(g.g)
	}
	g.currentColumn = panelSettings
	// Line 0 is the section header.
	line, ok := g.clickedLine(panelSettings)
	if ok && !isJqFilter(g.getFilterForPanel(panelSettings)) && line >= 1 && line-1 < g.coord.Settings().Len() {
		g.settingsCursor = line - 1
	}
	return g.Layout(g.g)
}

func (g *Gui) doSettingsWheelUp() error {
	if g.settingsScrollPos > 0 {
		g.settingsScrollPos--
	}
	return g.Layout(g.g)
}

func (g *Gui) doSettingsWheelDown() error {
	g.settingsScrollPos++
	return g.Layout(g.g)
}

func (g *Gui) doOutsideClick() error {
	if g.closePopupsOnClick() {
		return g.Layout(g.g)
	}
	return nil
}
