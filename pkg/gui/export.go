package gui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/marjoballabani/lazybuild/pkg/export"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/pkg/errors"
)

// copySettingAction copies the highlighted "NAME = value" row
func (g *Gui) copySettingAction() error {
	s, ok := g.selectedSetting()
	if !ok {
		g.logCommand("copy", "No setting selected", "error")
		return nil
	}

	if err := clipboard.WriteAll(export.Text([]xcode.Setting{s})); err != nil {
		g.logCommand("copy", fmt.Sprintf("Failed to copy: %v", err), "error")
		return nil
	}

	g.logCommand("copy", fmt.Sprintf("Copied %s to clipboard", s.Name), "success")
	return nil
}

// copyAllAction copies the visible settings, or the jq output when a jq
// filter is active.
func (g *Gui) copyAllAction() error {
	data, what, err := g.exportContent()
	if err != nil {
		g.logCommand("copy", err.Error(), "error")
		return nil
	}

	if err := clipboard.WriteAll(string(data)); err != nil {
		g.logCommand("copy", fmt.Sprintf("Failed to copy: %v", err), "error")
		return nil
	}

	g.logCommand("copy", fmt.Sprintf("Copied %s to clipboard", what), "success")
	return nil
}

// saveJSONAction saves the visible settings as JSON to ~/Downloads
func (g *Gui) saveJSONAction() error {
	data, _, err := g.exportJSON()
	if err != nil {
		g.logCommand("save", err.Error(), "error")
		return nil
	}

	c := g.coord.SelectedConfiguration()
	filename := saveFileName(c.Target.Name, c.Name, isJqFilter(g.getFilterForPanel(panelSettings)))

	home, err := os.UserHomeDir()
	if err != nil {
		g.logCommand("save", fmt.Sprintf("Failed to save: %v", err), "error")
		return nil
	}
	fullPath := filepath.Join(home, "Downloads", filename)

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		g.logCommand("save", fmt.Sprintf("Failed to save: %v", err), "error")
		return nil
	}

	g.logCommand("save", fmt.Sprintf("Saved to %s", fullPath), "success")
	return nil
}

// exportContent renders what C copies: the jq output, or plain text rows.
func (g *Gui) exportContent() ([]byte, string, error) {
	filter := g.getFilterForPanel(panelSettings)
	if isJqFilter(filter) {
		return g.exportJSON()
	}
	settings := g.coord.Settings().Items()
	return []byte(export.Text(settings)), fmt.Sprintf("%d settings", len(settings)), nil
}

// exportJSON renders the visible settings as a JSON object, or the results
// of the active jq filter.
func (g *Gui) exportJSON() ([]byte, string, error) {
	if g.coord.SelectedConfiguration() == nil {
		return nil, "", errors.New("No configuration selected")
	}
	settings := g.coord.Settings().Items()
	filter := g.getFilterForPanel(panelSettings)
	if isJqFilter(filter) {
		data, err := export.QueryJSON(settings, filter)
		return data, fmt.Sprintf("jq %s output", filter), err
	}
	data, err := export.JSON(settings)
	return data, fmt.Sprintf("%d settings", len(settings)), err
}
