package gui

import "github.com/jesseduffield/gocui"

func (g *Gui) setKeybindings() error {
	km := g.newKeybindingManager()

	km.RegisterAll(g.globalBindings())
	km.RegisterAll(g.navigationBindings())
	km.RegisterAll(g.filterBindings())
	km.RegisterAll(g.actionBindings(km))
	km.RegisterAll(g.mouseBindings())

	return km.Apply()
}

// globalBindings - always available (quit, escape, help)
func (g *Gui) globalBindings() []*Binding {
	return []*Binding{
		{
			Key:         gocui.KeyCtrlC,
			Handler:     g.doQuit,
			Description: "Force quit",
		},
		{
			Key:         'q',
			Handler:     g.doQuit,
			Description: "Quit",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('q'),
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         gocui.KeyEsc,
			Handler:     g.doEscape,
			Description: "Close/Cancel",
		},
		{
			Key:         '?',
			Handler:     g.doToggleHelp,
			Description: "Show help",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('?'),
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         '@',
			Handler:     g.doToggleModal,
			Description: "Command log",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('@'),
				ContextError:  g.blockAction,
			},
		},
	}
}

// navigationBindings - panel and list navigation
func (g *Gui) navigationBindings() []*Binding {
	return []*Binding{
		{
			Key:         gocui.KeyArrowUp,
			Handler:     g.doCursorUp,
			Description: "Move up",
			Contexts: map[Context]func() error{
				ContextHelp:  g.popupMoveUp,
				ContextError: g.popupMoveUp,
				ContextModal: g.blockAction,
			},
		},
		{
			Key:         gocui.KeyArrowDown,
			Handler:     g.doCursorDown,
			Description: "Move down",
			Contexts: map[Context]func() error{
				ContextHelp:  g.popupMoveDown,
				ContextError: g.popupMoveDown,
				ContextModal: g.blockAction,
			},
		},
		{
			Key:         gocui.KeyArrowLeft,
			Handler:     g.doColumnLeft,
			Description: "Move left",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterCursorLeft,
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         gocui.KeyArrowRight,
			Handler:     g.doColumnRight,
			Description: "Move right",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterCursorRight,
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         gocui.KeyPgup,
			Handler:     g.doPageUp,
			Description: "Page up",
		},
		{
			Key:         gocui.KeyPgdn,
			Handler:     g.doPageDown,
			Description: "Page down",
		},
		// Vim keys - context aware
		{
			Key:         'j',
			Handler:     g.doCursorDown,
			Description: "Move down",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('j'),
				ContextHelp:   g.popupMoveDown,
				ContextError:  g.popupMoveDown,
				ContextModal:  g.blockAction,
			},
		},
		{
			Key:         'k',
			Handler:     g.doCursorUp,
			Description: "Move up",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('k'),
				ContextHelp:   g.popupMoveUp,
				ContextError:  g.popupMoveUp,
				ContextModal:  g.blockAction,
			},
		},
		{
			Key:         'h',
			Handler:     g.doColumnLeft,
			Description: "Move left",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('h'),
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         'l',
			Handler:     g.doColumnRight,
			Description: "Move right",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('l'),
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         gocui.KeyTab,
			Handler:     g.doNextColumn,
			Description: "Next panel",
			Contexts: map[Context]func() error{
				ContextFilter: g.blockAction,
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         gocui.KeySpace,
			Handler:     g.doNextColumn,
			Description: "Open",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert(' '),
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:         gocui.KeyEnter,
			Handler:     g.doNextColumn,
			Description: "Open",
			Contexts: map[Context]func() error{
				ContextFilter: g.commitFilter,
				ContextHelp:   g.helpExecute,
				ContextError:  g.errorExecute,
				ContextModal:  g.blockAction,
			},
		},
	}
}

// filterBindings - filter mode specific
func (g *Gui) filterBindings() []*Binding {
	bindings := []*Binding{
		{
			Key:         '/',
			Handler:     g.startFilter,
			Description: "Start filter",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('/'),
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.blockAction,
			},
		},
		{
			Key:     gocui.KeyBackspace,
			Handler: g.doFilterBackspace,
		},
		{
			Key:     gocui.KeyBackspace2,
			Handler: g.doFilterBackspace,
		},
	}

	// Character handlers for filter input, including jq syntax.
	// Chars with their own bindings are typed through those bindings' filter context.
	filterChars := "abdefgimnoptuvwxyzABDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	filterChars += "-_."
	filterChars += "[]|(){}:\"'`,<>=!+*^$#~;&%\\"
	for _, ch := range filterChars {
		bindings = append(bindings, &Binding{
			Key:     ch,
			Handler: g.makeFilterCharAction(ch),
		})
	}

	return bindings
}

// actionBindings - settings actions
func (g *Gui) actionBindings(km *KeybindingManager) []*Binding {
	return []*Binding{
		{
			Key:               'c',
			Handler:           g.doCopySetting,
			Description:       "Copy setting",
			GetDisabledReason: require(km.disabled.PopupOpen, km.disabled.NoSettings),
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('c'),
			},
		},
		{
			Key:               'C',
			Handler:           g.doCopyAll,
			Description:       "Copy visible settings",
			GetDisabledReason: require(km.disabled.PopupOpen, km.disabled.NoSettings),
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('C'),
			},
		},
		{
			Key:               's',
			Handler:           g.doSaveJSON,
			Description:       "Save JSON",
			GetDisabledReason: require(km.disabled.PopupOpen, km.disabled.NoConfiguration),
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('s'),
			},
		},
		{
			Key:         'r',
			Handler:     g.doReload,
			Description: "Reload",
			Contexts: map[Context]func() error{
				ContextFilter: g.filterInsert('r'),
				ContextHelp:   g.blockAction,
				ContextModal:  g.blockAction,
				ContextError:  g.doReload,
			},
		},
	}
}

// mouseBindings - click handlers
func (g *Gui) mouseBindings() []*Binding {
	return []*Binding{
		{Key: gocui.MouseLeft, ViewName: "helpModal", Handler: g.doHelpClick},
		{Key: gocui.MouseLeft, ViewName: "errorModal", Handler: g.doErrorClick},
		{Key: gocui.MouseLeft, ViewName: panelTargets, Handler: g.doTargetsClick},
		{Key: gocui.MouseLeft, ViewName: panelConfigurations, Handler: g.doConfigurationsClick},
		{Key: gocui.MouseLeft, ViewName: panelSettings, Handler: g.doSettingsClick},
		{Key: gocui.MouseLeft, ViewName: "commands", Handler: g.doOutsideClick},
		{Key: gocui.MouseLeft, ViewName: "help", Handler: g.doOutsideClick},
		{Key: gocui.MouseLeft, ViewName: "background", Handler: g.doOutsideClick},
		{Key: gocui.MouseWheelUp, ViewName: panelSettings, Handler: g.doSettingsWheelUp},
		{Key: gocui.MouseWheelDown, ViewName: panelSettings, Handler: g.doSettingsWheelDown},
	}
}
