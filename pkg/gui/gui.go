// Package gui is the lazybuild terminal UI: targets and configurations on
// the left, build settings on the right.
package gui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jesseduffield/gocui"
	"github.com/marjoballabani/lazybuild/pkg/config"
	"github.com/marjoballabani/lazybuild/pkg/gui/icons"
	"github.com/marjoballabani/lazybuild/pkg/lazy"
	"github.com/marjoballabani/lazybuild/pkg/selection"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type CommandExecution struct {
	Timestamp   string
	Command     string
	Description string
	Status      string
}

type Gui struct {
	g       *gocui.Gui
	config  *config.Config
	coord   *selection.Coordinator
	bridge  xcode.Bridge
	log     logrus.FieldLogger
	version string
	theme   *Theme

	ctx    context.Context
	cancel context.CancelFunc

	// Settings panel state
	settingsCursor    int
	settingsScrollPos int

	// Command execution tracking
	commandHistory []CommandExecution

	// View names
	views struct {
		background     string
		targets        string
		configurations string
		settings       string
		commands       string
		help           string
		modal          string
		helpModal      string
		errorModal     string
	}

	// Current column: "targets", "configurations", "settings"
	currentColumn string

	// Modal state
	modalOpen  bool
	helpOpen   bool
	helpPopup  *Popup
	errorOpen  bool
	errorPopup *Popup

	busy         atomic.Bool
	spinnerFrame uint32 // Current spinner animation frame

	// Filter state
	filterInputActive bool   // true when typing in filter bar
	filterInputText   string // current input text
	filterInputPanel  string // which panel is being filtered
	filterCursorPos   int    // cursor position in filter text

	// Committed filters (persist after Enter, cleared by Esc)
	targetsFilter        string
	configurationsFilter string
	settingsFilter       string

	onReload []func(projects []*xcode.Project)

	// Frame styling
	roundedFrameRunes []rune
}

func NewGui(cfg *config.Config, bridge xcode.Bridge, log logrus.FieldLogger, version string) (*Gui, error) {
	g, err := gocui.NewGui(gocui.NewGuiOpts{
		OutputMode:      gocui.OutputTrue,
		SupportOverlaps: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gui")
	}

	if !cfg.UI.ShowIcons {
		icons.SetEnabled(false)
	} else {
		switch cfg.UI.NerdFontsVersion {
		case "2":
			icons.PatchForNerdFontsV2()
		case "3":
			// Default v3 icons, nothing to do
		default:
			icons.SetEnabled(false)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	gui := &Gui{
		g:             g,
		config:        cfg,
		bridge:        bridge,
		log:           log,
		version:       version,
		theme:         NewTheme(cfg.UI.Theme),
		ctx:           ctx,
		cancel:        cancel,
		currentColumn: panelTargets,
	}

	// Coordinator callbacks arrive through gocui's event queue, so they run
	// on the main loop like key handlers do.
	dispatch := lazy.DispatcherFunc(func(fn func()) {
		g.Update(func(*gocui.Gui) error {
			fn()
			gui.busy.Store(!gui.coord.Idle())
			return nil
		})
	})
	gui.coord = selection.New(bridge, dispatch, selection.WithLogger(log))
	gui.coord.OnEvent(gui.handleEvent)
	gui.coord.OnError(gui.showError)
	gui.coord.Settings().Subscribe(func([]xcode.Setting) {
		gui.settingsCursor = 0
		gui.settingsScrollPos = 0
	})

	gui.views.targets = panelTargets
	gui.views.configurations = panelConfigurations
	gui.views.settings = panelSettings
	gui.views.commands = "commands"
	gui.views.help = "help"
	gui.views.modal = "modal"
	gui.views.helpModal = "helpModal"
	gui.views.errorModal = "errorModal"
	gui.views.background = "background"

	g.Cursor = false
	g.Mouse = true
	g.InputEsc = true
	g.ShowListFooter = true

	g.BgColor = gocui.ColorDefault
	g.FgColor = gocui.ColorDefault
	g.FrameColor = gui.theme.InactiveBorderColor
	g.SelFrameColor = gui.theme.ActiveBorderColor
	g.SelFgColor = gui.theme.ActiveBorderColor
	g.Highlight = true

	// Rounded frame characters: ─ │ ╭ ╮ ╰ ╯
	gui.roundedFrameRunes = []rune{'─', '│', '╭', '╮', '╰', '╯'}

	g.SetManagerFunc(func(g *gocui.Gui) error {
		return gui.Layout(g)
	})

	if err := gui.setKeybindings(); err != nil {
		return nil, err
	}

	gui.logCommand("init", "lazybuild starting...", "running")

	return gui, nil
}

// OnReload registers fn to receive the projects of every successful reload.
// It runs on the main loop.
func (g *Gui) OnReload(fn func(projects []*xcode.Project)) {
	g.onReload = append(g.onReload, fn)
}

// RequestReload reloads from any goroutine, e.g. when a watched file changed.
func (g *Gui) RequestReload(reason string) {
	g.g.Update(func(*gocui.Gui) error {
		g.reload(reason)
		return nil
	})
}

// reload starts a reload on the main loop.
func (g *Gui) reload(reason string) {
	if r, ok := g.bridge.(xcode.Refresher); ok {
		if err := r.Refresh(); err != nil {
			g.showError(err)
			return
		}
	}
	g.log.WithField("reason", reason).Info("reload requested")
	g.coord.Reload(g.ctx)
	g.busy.Store(true)
}

func (g *Gui) handleEvent(e selection.Event) {
	call := e.Op
	if e.Subject != "" {
		call = fmt.Sprintf("%s(%s)", e.Op, e.Subject)
	}

	switch e.Kind {
	case selection.EventReloadStarted:
		g.logCommand("reload", "Loading projects...", "running")
	case selection.EventReloadDone:
		g.logCommand("reload", fmt.Sprintf("Loaded %d targets", e.Count), "success")
		g.errorOpen = false
		g.errorPopup = nil
		projects := g.coord.Snapshot().Projects
		for _, fn := range g.onReload {
			fn(projects)
		}
	case selection.EventFetchStarted:
		g.logCommand("api", call+" loading...", "running")
	case selection.EventFetchDone:
		g.logCommand("api", fmt.Sprintf("%s → %d", call, e.Count), "success")
	case selection.EventResultDiscarded:
		g.logCommand("api", call+" → discarded, selection moved on", "skipped")
	}
	// Failures are logged by showError.
}

func (g *Gui) logCommand(command, description, status string) {
	timestamp := time.Now().Format("15:04:05")

	cmdExec := CommandExecution{
		Timestamp:   timestamp,
		Command:     command,
		Description: description,
		Status:      status,
	}

	g.commandHistory = append(g.commandHistory, cmdExec)

	// Keep only last 10 commands
	if len(g.commandHistory) > 10 {
		g.commandHistory = g.commandHistory[1:]
	}
}

func (g *Gui) Run() error {
	defer g.g.Close()
	defer g.cancel()

	go func() {
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-g.ctx.Done():
				return
			case <-ticker.C:
				atomic.AddUint32(&g.spinnerFrame, 1)
				if g.busy.Load() {
					g.g.Update(func(*gocui.Gui) error { return nil })
				}
			}
		}
	}()

	g.RequestReload("startup")

	if err := g.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// getLoadingText returns formatted loading text with animated spinner
func (g *Gui) getLoadingText(text string) string {
	frame := atomic.LoadUint32(&g.spinnerFrame)
	spinner := spinnerFrames[frame%uint32(len(spinnerFrames))]
	return fmt.Sprintf("\033[33m%s %s\033[0m", spinner, text)
}
