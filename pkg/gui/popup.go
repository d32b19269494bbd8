package gui

import (
	"fmt"

	"github.com/jesseduffield/gocui"
)

// PopupItem is one row of a popup list.
type PopupItem struct {
	Key      string       // Shortcut key to display
	Label    string       // Item label/description
	IsHeader bool         // Headers are non-selectable section titles
	Action   func() error // Run on Enter (optional)
}

// Popup is a modal list of actions, optionally preceded by message lines.
type Popup struct {
	Title       string
	Message     []string
	Items       []PopupItem
	SelectedIdx int
	Theme       *Theme
	viewName    string
}

func NewPopup(title string, items []PopupItem, theme *Theme, viewName string) *Popup {
	p := &Popup{
		Title:    title,
		Items:    items,
		Theme:    theme,
		viewName: viewName,
	}
	p.SelectedIdx = p.findNextSelectable(-1, 1)
	return p
}

// findNextSelectable finds the next selectable item in the given direction
func (p *Popup) findNextSelectable(from int, direction int) int {
	for i := from + direction; i >= 0 && i < len(p.Items); i += direction {
		if !p.Items[i].IsHeader {
			return i
		}
	}
	return from
}

func (p *Popup) MoveUp() {
	if idx := p.findNextSelectable(p.SelectedIdx, -1); idx >= 0 {
		p.SelectedIdx = idx
	}
}

func (p *Popup) MoveDown() {
	if idx := p.findNextSelectable(p.SelectedIdx, 1); idx < len(p.Items) {
		p.SelectedIdx = idx
	}
}

// GetSelectedItem returns the currently selected item
func (p *Popup) GetSelectedItem() *PopupItem {
	if p.SelectedIdx >= 0 && p.SelectedIdx < len(p.Items) {
		return &p.Items[p.SelectedIdx]
	}
	return nil
}

// ItemAtLine maps a view line to an item index, or -1 for message lines,
// headers and the footer.
func (p *Popup) ItemAtLine(line int) int {
	idx := line - p.messageLines()
	if idx < 0 || idx >= len(p.Items) || p.Items[idx].IsHeader {
		return -1
	}
	return idx
}

// Height is the number of lines Render writes.
func (p *Popup) Height() int {
	return p.messageLines() + len(p.Items) + 2
}

func (p *Popup) messageLines() int {
	if len(p.Message) == 0 {
		return 0
	}
	return len(p.Message) + 1
}

// Render draws the popup content to the view using gocui's native highlighting
func (p *Popup) Render(v *gocui.View) {
	v.Clear()
	v.Highlight = true
	v.SelBgColor = p.Theme.SelectedLineBgColor
	v.SelFgColor = gocui.ColorDefault

	for _, line := range p.Message {
		fmt.Fprintf(v, "  %s\n", line)
	}
	if len(p.Message) > 0 {
		fmt.Fprintln(v)
	}

	for _, item := range p.Items {
		if item.IsHeader {
			fmt.Fprintf(v, "\033[36m ─── %s ───\033[0m\n", item.Label)
		} else {
			fmt.Fprintf(v, "  \033[33m%-12s\033[0m %s\n", item.Key, item.Label)
		}
	}

	fmt.Fprintf(v, "\n\033[90m  Enter to execute · Esc to close\033[0m")

	v.FocusPoint(0, p.messageLines()+p.SelectedIdx)
}
