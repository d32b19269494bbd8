// Package app wires configuration, the Xcode bridge, the file watcher and
// the GUI together.
package app

import (
	"context"
	"path/filepath"

	"github.com/marjoballabani/lazybuild/pkg/config"
	"github.com/marjoballabani/lazybuild/pkg/gui"
	"github.com/marjoballabani/lazybuild/pkg/watch"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BuildInfo contains version information set at compile time.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// App is the main application struct that holds all components.
type App struct {
	buildInfo *BuildInfo
	config    *config.Config
	log       *logrus.Logger
	bridge    xcode.Bridge
	gui       *gui.Gui
	ctx       context.Context
}

// NewApp builds the bridge named by cfg. The GUI is created by Run.
func NewApp(buildInfo *BuildInfo, cfg *config.Config, log *logrus.Logger) (*App, error) {
	bridge, err := xcode.NewBridge(cfg.Bridge, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bridge")
	}

	return &App{
		buildInfo: buildInfo,
		config:    cfg,
		log:       log,
		bridge:    bridge,
		ctx:       context.Background(),
	}, nil
}

// Run creates the GUI, starts watching project files and runs the main
// event loop. It blocks until the user quits.
func (app *App) Run() error {
	g, err := gui.NewGui(app.config, app.bridge, app.log, app.buildInfo.Version)
	if err != nil {
		return errors.Wrap(err, "failed to initialize GUI")
	}
	app.gui = g

	ctx, cancel := context.WithCancel(app.ctx)
	defer cancel()

	w, err := app.startWatcher(ctx)
	if err != nil {
		// The UI still works without reload-on-change.
		app.log.WithError(err).Warn("file watching disabled")
	} else {
		defer w.Close()
	}

	return app.gui.Run()
}

// startWatcher reloads the GUI when configured paths, the fixture file or
// a loaded project changes on disk.
func (app *App) startWatcher(ctx context.Context) (*watch.Watcher, error) {
	w, err := watch.New(app.config.Watch.Debounce, func() {
		app.gui.RequestReload("file changed")
	}, app.log)
	if err != nil {
		return nil, err
	}

	paths := append([]string{}, app.config.Watch.Paths...)
	if app.config.Bridge.Kind == config.BridgeFixture && app.config.Bridge.Fixture != "" {
		paths = append(paths, filepath.Dir(app.config.Bridge.Fixture))
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			app.log.WithError(err).WithField("path", p).Warn("cannot watch path")
		}
	}

	app.gui.OnReload(func(projects []*xcode.Project) {
		for _, p := range projects {
			if p.Path == "" {
				continue
			}
			if err := w.Add(p.Path); err != nil {
				app.log.WithError(err).WithField("project", p.Name).Debug("cannot watch project")
			}
		}
	})

	go w.Run(ctx)
	return w, nil
}
