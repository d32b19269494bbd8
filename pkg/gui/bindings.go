package gui

import "github.com/jesseduffield/gocui"

// Context is the UI mode that decides which handler a key runs.
type Context string

const (
	ContextNormal Context = "normal"
	ContextFilter Context = "filter"
	ContextHelp   Context = "help"
	ContextModal  Context = "modal"
	ContextError  Context = "error"
)

// Binding represents a keybinding with context-aware handling
type Binding struct {
	Key         interface{} // gocui.Key or rune
	Modifier    gocui.Modifier
	ViewName    string // Empty for global, specific view name otherwise
	Handler     func() error
	Description string
	// GetDisabledReason returns "" if enabled, or why the binding is disabled
	GetDisabledReason func() string
	// Contexts maps specific contexts to different handlers (optional)
	// If current context has a handler here, it's used instead of Handler
	Contexts map[Context]func() error
}

// DisabledReasons provides common disable-reason check functions
type DisabledReasons struct {
	PopupOpen       func() string
	NoConfiguration func() string
	NoSettings      func() string
}

func (g *Gui) newDisabledReasons() DisabledReasons {
	return DisabledReasons{
		PopupOpen: func() string {
			if g.isModalOpen() {
				return "Close popup first"
			}
			return ""
		},
		NoConfiguration: func() string {
			if g.coord.SelectedConfiguration() == nil {
				return "No configuration selected"
			}
			return ""
		},
		NoSettings: func() string {
			if g.coord.Settings().Len() == 0 {
				return "No settings to export"
			}
			return ""
		},
	}
}

// require combines multiple disable-reason checks into one
// Returns first non-empty reason, or empty string if all pass
func require(checks ...func() string) func() string {
	return func() string {
		for _, check := range checks {
			if reason := check(); reason != "" {
				return reason
			}
		}
		return ""
	}
}

// getContext returns the current UI context
func (g *Gui) getContext() Context {
	if g.errorOpen {
		return ContextError
	}
	if g.helpOpen {
		return ContextHelp
	}
	if g.modalOpen {
		return ContextModal
	}
	if g.filterInputActive {
		return ContextFilter
	}
	return ContextNormal
}

// KeybindingManager handles registration and execution of keybindings
type KeybindingManager struct {
	gui      *Gui
	bindings []*Binding
	disabled DisabledReasons
}

func (g *Gui) newKeybindingManager() *KeybindingManager {
	return &KeybindingManager{
		gui:      g,
		disabled: g.newDisabledReasons(),
	}
}

// RegisterAll adds multiple bindings
func (km *KeybindingManager) RegisterAll(bindings []*Binding) {
	km.bindings = append(km.bindings, bindings...)
}

// Apply registers all bindings with gocui
func (km *KeybindingManager) Apply() error {
	for _, b := range km.bindings {
		handler := km.wrapHandler(b)

		var err error
		switch key := b.Key.(type) {
		case gocui.Key:
			err = km.gui.g.SetKeybinding(b.ViewName, key, b.Modifier, handler)
		case rune:
			err = km.gui.g.SetKeybinding(b.ViewName, key, b.Modifier, handler)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// wrapHandler creates a gocui-compatible handler that checks context and disabled state
func (km *KeybindingManager) wrapHandler(b *Binding) func(*gocui.Gui, *gocui.View) error {
	return func(gui *gocui.Gui, v *gocui.View) error {
		ctx := km.gui.getContext()
		if b.Contexts != nil {
			if contextHandler, ok := b.Contexts[ctx]; ok {
				return contextHandler()
			}
		}

		if b.GetDisabledReason != nil {
			if reason := b.GetDisabledReason(); reason != "" {
				km.gui.logCommand(b.Description, reason, "skipped")
				return nil
			}
		}
		return b.Handler()
	}
}
