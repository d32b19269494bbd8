package gui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jesseduffield/gocui"
	"github.com/marjoballabani/lazybuild/pkg/export"
	"github.com/marjoballabani/lazybuild/pkg/gui/icons"
	"github.com/marjoballabani/lazybuild/pkg/selection"
)

func (g *Gui) Layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()

	// Background view (covers entire screen, behind everything)
	if v, err := gui.SetView(g.views.background, -1, -1, maxX, maxY, 0); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorDefault
		v.FgColor = gocui.ColorDefault
	}

	// Left column (1/3 of screen): targets above configurations
	leftWidth := maxX / 3
	leftHeight := maxY - 2 // Leave room for help bar
	targetsHeight, _ := leftPanelHeights(g.currentColumn, leftHeight)
	commandsHeight := 3

	if err := g.layoutPanel(gui, panelTargets, icons.TARGET_ICON, 0, 0, leftWidth-1, targetsHeight-1, g.updateTargetsView); err != nil {
		return err
	}
	if err := g.layoutPanel(gui, panelConfigurations, icons.CONFIGURATION_ICON, 0, targetsHeight, leftWidth-1, leftHeight-1, g.updateConfigurationsView); err != nil {
		return err
	}
	if err := g.layoutPanel(gui, panelSettings, icons.SETTINGS_ICON, leftWidth, 0, maxX-1, maxY-commandsHeight-3, g.updateSettingsView); err != nil {
		return err
	}

	// Commands panel (bottom-right, single row)
	if v, err := gui.SetView(g.views.commands, leftWidth, maxY-commandsHeight-2, maxX-1, maxY-3, 0); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = " " + icons.WithSpace(icons.COMMAND_ICON) + "Commands "
		v.TitleColor = g.theme.InactiveBorderColor
		v.BgColor = gocui.ColorDefault
		v.FgColor = gocui.ColorDefault
		v.SelBgColor = gocui.ColorDefault
		v.SelFgColor = gocui.ColorDefault
		v.FrameRunes = g.roundedFrameRunes
	}

	if v, err := gui.View(g.views.commands); err == nil {
		g.updateCommandsView(v)
	}

	// Help bar (bottom, full width)
	if v, err := gui.SetView(g.views.help, 0, maxY-2, maxX-1, maxY, 0); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorDefault
		v.FgColor = gocui.ColorDefault
		v.SelBgColor = gocui.ColorDefault
		v.SelFgColor = gocui.ColorDefault
	}

	if v, err := gui.View(g.views.help); err == nil {
		g.updateHelpView(v)
	}

	// Error popup sits above everything else
	if g.errorOpen && g.errorPopup != nil {
		return g.layoutPopup(gui, g.errorPopup, " "+icons.WithSpace(icons.ERROR)+"Error ", 70, maxX, maxY)
	}
	gui.DeleteView(g.views.errorModal)

	// Help modal (keyboard shortcuts)
	if g.helpOpen && g.helpPopup != nil {
		return g.layoutPopup(gui, g.helpPopup, " "+icons.WithSpace(icons.KEYBOARD_ICON)+"Keyboard Shortcuts ", 56, maxX, maxY)
	}
	gui.DeleteView(g.views.helpModal)

	// Modal (centered popup for command logs)
	if g.modalOpen {
		modalWidth := maxX - 10
		modalHeight := 15
		if modalHeight > maxY-6 {
			modalHeight = maxY - 6
		}
		modalX := (maxX - modalWidth) / 2
		modalY := (maxY - modalHeight) / 2

		if v, err := gui.SetView(g.views.modal, modalX, modalY, modalX+modalWidth, modalY+modalHeight, 0); err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) {
				return err
			}
			v.Title = " Command Log "
			v.BgColor = gocui.ColorDefault
			v.FgColor = gocui.ColorDefault
			v.SelBgColor = gocui.ColorDefault
			v.SelFgColor = gocui.ColorDefault
			v.Wrap = true
			v.FrameRunes = g.roundedFrameRunes
		}

		if v, err := gui.View(g.views.modal); err == nil {
			g.renderCommandLog(v)
			if _, err := gui.SetCurrentView(g.views.modal); err != nil {
				return fmt.Errorf("failed to set modal view: %w", err)
			}
		}
		return nil
	}
	gui.DeleteView(g.views.modal)

	if _, err := gui.SetCurrentView(g.currentColumn); err != nil {
		return fmt.Errorf("failed to set current view '%s': %w", g.currentColumn, err)
	}

	return nil
}

// layoutPanel creates or moves one of the three main panels and renders it.
func (g *Gui) layoutPanel(gui *gocui.Gui, name, icon string, x0, y0, x1, y1 int, update func(*gocui.View)) error {
	v, err := gui.SetView(name, x0, y0, x1, y1, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.BgColor = gocui.ColorDefault
		v.FgColor = gocui.ColorDefault
		v.SelBgColor = g.theme.SelectedLineBgColor
		v.SelFgColor = gocui.ColorDefault
		v.FrameRunes = g.roundedFrameRunes
	}

	isFocused := g.currentColumn == name
	hasCommittedFilter := g.hasActiveFilter(name)

	// Filter colour only once the filter is committed, not while typing
	color := g.theme.frameColor(isFocused, hasCommittedFilter)
	if isFocused {
		// Must set global SelFrameColor because gocui uses it for focused views
		gui.SelFrameColor = color
		gui.SelFgColor = color
	}
	v.TitleColor = color
	v.FrameColor = color

	title := g.getPanelNameFor(name)
	if hasCommittedFilter {
		title += " (filtered)"
	}
	v.Title = " " + icons.WithSpace(icon) + title + " "

	update(v)
	return nil
}

// layoutPopup renders p centred on screen and focuses it.
func (g *Gui) layoutPopup(gui *gocui.Gui, p *Popup, title string, width, maxX, maxY int) error {
	if width > maxX-4 {
		width = maxX - 4
	}
	height := p.Height() + 1
	if height > maxY-4 {
		height = maxY - 4
	}
	x := (maxX - width) / 2
	y := (maxY - height) / 2

	v, err := gui.SetView(p.viewName, x, y, x+width, y+height, 0)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.TitleColor = g.theme.ActiveBorderColor
		v.FrameColor = g.theme.ActiveBorderColor
		v.FrameRunes = g.roundedFrameRunes
		v.Wrap = true
	}
	v.Title = title

	p.Render(v)
	if _, err := gui.SetCurrentView(p.viewName); err != nil {
		return fmt.Errorf("failed to set popup view: %w", err)
	}
	return nil
}

func (g *Gui) updateTargetsView(v *gocui.View) {
	v.Clear()

	all := g.coord.Targets().Items()
	filtered := g.visibleTargets()
	isFocused := g.currentColumn == panelTargets
	hasFilter := g.hasActiveFilter(panelTargets) || g.isFilteringPanel(panelTargets)

	if len(all) == 0 {
		v.Highlight = false
		v.Footer = ""
		switch {
		case g.coord.Reloading():
			fmt.Fprint(v, g.getLoadingText("Loading projects..."))
		case g.coord.LastError() != nil:
			fmt.Fprintf(v, "%sNo projects loaded%s\n%sr to retry%s", ansiError, ansiReset, ansiDim, ansiReset)
		default:
			fmt.Fprintf(v, "%sNo targets found%s", ansiDim, ansiReset)
		}
		return
	}

	current := g.coord.SelectedTarget()
	selected := indexOf(filtered, func(it selection.TargetItem) bool { return it.Target == current })

	v.Highlight = isFocused && len(filtered) > 0
	v.Footer = countFooter(indexOf(all, func(it selection.TargetItem) bool { return it.Target == current }), len(filtered), len(all), hasFilter)

	icon := icons.WithSpace(icons.APP)
	for _, it := range filtered {
		if it.Target == current {
			fmt.Fprintf(v, "%s*%s %s%s\n", g.theme.ActiveAnsi(), ansiReset, icon, it.Path)
		} else {
			fmt.Fprintf(v, "  %s%s\n", icon, it.Path)
		}
	}

	if selected >= 0 {
		v.FocusPoint(0, selected)
	}
}

func (g *Gui) updateConfigurationsView(v *gocui.View) {
	v.Clear()
	v.Footer = ""

	target := g.coord.SelectedTarget()
	if target == nil {
		v.Highlight = false
		return
	}
	if !target.Configurations.Loaded() {
		v.Highlight = false
		if !g.coord.Idle() {
			fmt.Fprint(v, g.getLoadingText("Loading configurations..."))
		} else {
			fmt.Fprintf(v, "%sNot loaded (r to reload)%s", ansiDim, ansiReset)
		}
		return
	}

	all := g.coord.Configurations().Items()
	if len(all) == 0 {
		v.Highlight = false
		fmt.Fprintf(v, "%sNo build configurations%s", ansiDim, ansiReset)
		return
	}

	filtered := g.visibleConfigurations()
	current := g.coord.SelectedConfiguration()
	selected := indexOf(filtered, func(it selection.ConfigurationItem) bool { return it.Configuration == current })
	hasFilter := g.hasActiveFilter(panelConfigurations) || g.isFilteringPanel(panelConfigurations)

	v.Highlight = g.currentColumn == panelConfigurations && len(filtered) > 0
	v.Footer = countFooter(indexOf(all, func(it selection.ConfigurationItem) bool { return it.Configuration == current }), len(filtered), len(all), hasFilter)

	icon := icons.WithSpace(icons.BUILD_CFG)
	for _, it := range filtered {
		if it.Configuration == current {
			fmt.Fprintf(v, "%s*%s %s%s\n", g.theme.ActiveAnsi(), ansiReset, icon, it.Configuration.Name)
		} else {
			fmt.Fprintf(v, "  %s%s\n", icon, it.Configuration.Name)
		}
	}

	if selected >= 0 {
		v.FocusPoint(0, selected)
	}
}

func (g *Gui) updateSettingsView(v *gocui.View) {
	v.Clear()
	v.Footer = ""
	v.Highlight = false

	config := g.coord.SelectedConfiguration()
	if config == nil {
		if t := g.coord.SelectedTarget(); t != nil && t.Configurations.Loaded() {
			fmt.Fprintf(v, "%s%s has no build configurations%s", ansiDim, t.Name, ansiReset)
			return
		}
		g.showWelcome(v)
		return
	}

	if !config.BuildSettings.Loaded() {
		fmt.Fprintln(v, sectionHeader(g.selectedPathTitle()))
		if !g.coord.Idle() {
			fmt.Fprint(v, g.getLoadingText("Loading build settings..."))
		} else {
			fmt.Fprintf(v, "%sNot loaded (r to reload)%s", ansiDim, ansiReset)
		}
		return
	}

	settings := g.coord.Settings().Items()
	filter := g.getFilterForPanel(panelSettings)

	if isJqFilter(filter) {
		content := sectionHeader(g.selectedPathTitle()) + "\n" + trimLines(jqContent(settings, filter, export.DefaultStyle))
		v.SetContent(content)
		lines := strings.Count(content, "\n") + 1
		g.settingsScrollPos = clamp(g.settingsScrollPos, lines)
		v.SetOrigin(0, g.settingsScrollPos)
		return
	}

	total := len(config.Settings())
	if filter != "" {
		v.Footer = countFooter(g.settingsCursor, len(settings), total, true)
	} else {
		v.Footer = countFooter(g.settingsCursor, len(settings), total, false)
	}

	fmt.Fprintln(v, sectionHeader(g.selectedPathTitle()))
	if len(settings) == 0 {
		fmt.Fprintf(v, "%sNo settings match '%s'%s", ansiDim, filter, ansiReset)
		return
	}
	for _, line := range settingLines(settings) {
		fmt.Fprintln(v, line)
	}

	g.settingsCursor = clamp(g.settingsCursor, len(settings))
	v.Highlight = g.currentColumn == panelSettings
	// Line 0 is the section header.
	v.FocusPoint(0, g.settingsCursor+1)
}

func (g *Gui) showWelcome(v *gocui.View) {
	fmt.Fprintln(v, "")
	fmt.Fprintf(v, "\033[36m  %sL A Z Y B U I L D\033[0m\n", icons.WithSpace(icons.XCODE_ICON))
	fmt.Fprintln(v, "")
	fmt.Fprintln(v, "\033[90m  Select a target and a configuration to see its build settings\033[0m")
}

func (g *Gui) renderCommandLog(v *gocui.View) {
	v.Clear()
	if len(g.commandHistory) == 0 {
		fmt.Fprintln(v, "  No commands yet")
	} else {
		for _, cmd := range g.commandHistory {
			_, statusColor := statusStyle(cmd.Status)
			fmt.Fprintf(v, "  [%s] %s%s\033[0m: %s\n", cmd.Timestamp, statusColor, cmd.Command, cmd.Description)
		}
	}
	fmt.Fprintln(v, "")
	fmt.Fprintln(v, "  \033[36mPress Esc or @ to close\033[0m")
}

// statusStyle maps a command status to its icon and colour.
func statusStyle(status string) (icon, color string) {
	switch status {
	case "running":
		return icons.LOADING, "\033[33m" // Yellow
	case "error":
		return icons.ERROR, "\033[31m" // Red
	case "success":
		return icons.SUCCESS, "\033[32m" // Green
	case "skipped":
		return icons.SKIPPED, ansiDim
	}
	return "•", ansiReset
}

func (g *Gui) updateCommandsView(v *gocui.View) {
	v.Clear()

	if len(g.commandHistory) == 0 {
		return
	}

	// Show last command
	cmd := g.commandHistory[len(g.commandHistory)-1]
	statusIcon, statusColor := statusStyle(cmd.Status)

	fmt.Fprintf(v, "%s%s %s\033[0m %s",
		statusColor,
		statusIcon,
		cmd.Command,
		cmd.Description)
}

func (g *Gui) updateHelpView(v *gocui.View) {
	v.Clear()

	// Show filter input when typing
	if g.filterInputActive {
		panelName := g.getPanelNameFor(g.filterInputPanel)
		beforeCursor := g.filterInputText[:g.filterCursorPos]
		afterCursor := g.filterInputText[g.filterCursorPos:]
		// Cursor shown as reverse video - highlight char at cursor or space if at end
		cursorChar, rest := " ", ""
		if len(afterCursor) > 0 {
			cursorChar = string(afterCursor[0])
			rest = afterCursor[1:]
		}
		label := "Filter"
		if g.filterInputPanel == panelSettings && isJqFilter(g.filterInputText) {
			label = "jq"
		}
		filterPrompt := fmt.Sprintf(" \033[33m%s %s:\033[0m %s\033[7m%s\033[0m%s", label, panelName, beforeCursor, cursorChar, rest)
		hints := "  \033[90m(Enter to apply, Esc to cancel)\033[0m"
		fmt.Fprintf(v, "%s%s", filterPrompt, hints)
		return
	}

	// Show filter status when panel has committed filter
	if filter := g.getFilterForPanel(g.currentColumn); filter != "" {
		panelName := g.getPanelNameFor(g.currentColumn)
		fmt.Fprintf(v, " \033[33m%s filtered:\033[0m '%s'  \033[90m(Esc to clear filter)\033[0m", panelName, filter)
		return
	}

	helpText := " \033[36m←/→\033[0m panels  \033[36mj/k\033[0m select  \033[32mc\033[0m copy  \033[32ms\033[0m save  \033[33mr\033[0m reload  \033[35m/\033[0m filter  \033[35m?\033[0m help  \033[31mq\033[0m quit"
	versionText := fmt.Sprintf("\033[90mv%s\033[0m ", g.version)

	// Calculate padding to right-align version
	width, _ := v.Size()
	helpLen := 82 // Approximate visible length without ANSI codes
	versionLen := len(g.version) + 2
	padding := width - helpLen - versionLen
	if padding < 1 {
		padding = 1
	}

	fmt.Fprintf(v, "%s%*s%s", helpText, padding, "", versionText)
}
