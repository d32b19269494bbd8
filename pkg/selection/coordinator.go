// Package selection coordinates what the user is looking at: the selected
// target, configuration and search string, and the lists derived from them.
// Selections that need data not yet fetched start a lazy fetch; its result is
// applied only if the selection has not moved on in the meantime.
package selection

import (
	"context"

	"github.com/marjoballabani/lazybuild/pkg/lazy"
	"github.com/marjoballabani/lazybuild/pkg/logging"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrStaleResultDiscarded marks a fetch result that arrived after the
// selection moved on. It is only logged.
var ErrStaleResultDiscarded = errors.New("stale result discarded")

// TargetItem is one row of the targets list.
type TargetItem struct {
	Target *xcode.Target
	Path   string
}

// ConfigurationItem is one row of the configurations list.
type ConfigurationItem struct {
	Configuration *xcode.Configuration
	Path          string
}

// EventKind names what an Event reports.
type EventKind string

const (
	EventReloadStarted   EventKind = "reload.started"
	EventReloadDone      EventKind = "reload.done"
	EventFetchStarted    EventKind = "fetch.started"
	EventFetchDone       EventKind = "fetch.done"
	EventFetchFailed     EventKind = "fetch.failed"
	EventResultDiscarded EventKind = "result.discarded"
)

// Event describes a bridge round trip, for activity displays.
type Event struct {
	Kind    EventKind
	Op      string
	Subject string
	Count   int
	Err     error
}

// Coordinator owns the selection State. Every method, and every callback it
// makes, runs on the dispatcher's goroutine.
type Coordinator struct {
	bridge   xcode.Bridge
	dispatch lazy.Dispatcher
	log      logrus.FieldLogger

	configurations *lazy.Cache[*xcode.Target, []*xcode.Configuration]
	settings       *lazy.Cache[*xcode.Configuration, map[string]string]

	state         State
	reloadSeq     uint64
	reloadPending bool
	pending       int
	lastErr       error

	targets      List[TargetItem]
	configsList  List[ConfigurationItem]
	settingsList List[xcode.Setting]

	errorSubs []func(error)
	eventSubs []func(Event)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for reloads, fetches and discarded results.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) { c.log = log }
}

// New returns a coordinator with an empty snapshot. Callbacks and list
// updates are posted through dispatch.
func New(bridge xcode.Bridge, dispatch lazy.Dispatcher, opts ...Option) *Coordinator {
	c := &Coordinator{bridge: bridge, dispatch: dispatch}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}

	c.configurations = lazy.NewCache("configurations",
		func(ctx context.Context, t *xcode.Target) ([]*xcode.Configuration, error) {
			configs, err := bridge.FetchConfigurations(ctx, t)
			if err != nil {
				return nil, err
			}
			return t.Adopt(configs), nil
		},
		func(t *xcode.Target) *lazy.Memo[[]*xcode.Configuration] { return &t.Configurations },
		func(t *xcode.Target) string { return t.ID },
		lazy.WithLogger(c.log),
	)
	c.settings = lazy.NewCache("settings",
		bridge.FetchBuildSettings,
		func(cfg *xcode.Configuration) *lazy.Memo[map[string]string] { return &cfg.BuildSettings },
		func(cfg *xcode.Configuration) string { return cfg.ID },
		lazy.WithLogger(c.log),
	)
	return c
}

// Targets, Configurations and Settings are the observable lists shown by the UI.
func (c *Coordinator) Targets() *List[TargetItem]               { return &c.targets }
func (c *Coordinator) Configurations() *List[ConfigurationItem] { return &c.configsList }
func (c *Coordinator) Settings() *List[xcode.Setting]           { return &c.settingsList }

func (c *Coordinator) Snapshot() *Snapshot                        { return c.state.Snapshot }
func (c *Coordinator) SelectedTarget() *xcode.Target              { return c.state.Target }
func (c *Coordinator) SelectedConfiguration() *xcode.Configuration { return c.state.Configuration }
func (c *Coordinator) SearchString() string                       { return c.state.Search }
func (c *Coordinator) IncludeProjects() bool                      { return c.state.IncludeProjects() }

// VisibleSettings returns the selected configuration's settings matching
// the search string.
func (c *Coordinator) VisibleSettings() []xcode.Setting {
	return c.state.VisibleSettings()
}

// CurrentPath renders el as a breadcrumb path.
func (c *Coordinator) CurrentPath(el xcode.PathElement, includeProjects bool) string {
	return xcode.ComposePath(el, includeProjects)
}

// Idle reports whether no reload or fetch is in flight.
func (c *Coordinator) Idle() bool { return c.pending == 0 }

// Reloading reports whether a reload is in flight.
func (c *Coordinator) Reloading() bool { return c.reloadPending }

// LastError returns the most recent failure, cleared by a successful reload.
func (c *Coordinator) LastError() error { return c.lastErr }

// OnError registers fn to receive every reload or fetch failure.
func (c *Coordinator) OnError(fn func(error)) {
	c.errorSubs = append(c.errorSubs, fn)
}

// OnEvent registers fn to receive bridge activity.
func (c *Coordinator) OnEvent(fn func(Event)) {
	c.eventSubs = append(c.eventSubs, fn)
}

// Reload asks the bridge for a fresh project list. On success the snapshot
// is replaced and the selection resets to the first target; on failure the
// previous snapshot stays. Only the latest reload is applied.
func (c *Coordinator) Reload(ctx context.Context) {
	c.reloadSeq++
	seq := c.reloadSeq
	c.pending++
	c.reloadPending = true
	c.emit(Event{Kind: EventReloadStarted, Op: "ListProjects"})

	go func() {
		projects, err := c.bridge.ListProjects(ctx)
		c.dispatch.Post(func() {
			c.pending--
			if seq != c.reloadSeq {
				c.log.WithError(ErrStaleResultDiscarded).WithField("reload", seq).Debug("discarding reload")
				c.emit(Event{Kind: EventResultDiscarded, Op: "ListProjects"})
				return
			}
			c.reloadPending = false
			if err != nil {
				c.fail("ListProjects", "", errors.Wrap(err, "reload failed"))
				return
			}

			c.lastErr = nil
			snap := NewSnapshot(projects)
			c.log.WithFields(logrus.Fields{"projects": len(snap.Projects), "targets": len(snap.Targets)}).Info("reloaded")
			c.emit(Event{Kind: EventReloadDone, Op: "ListProjects", Count: len(snap.Targets)})
			c.apply(ctx, c.state.ReplaceSnapshot(snap))
		})
	}()
}

// SelectTarget selects the target with the given ID, name or path.
func (c *Coordinator) SelectTarget(ctx context.Context, key string) error {
	t, ok := c.state.Snapshot.Target(key)
	if !ok {
		return errors.Errorf("unknown target %q", key)
	}
	c.SetTarget(ctx, t)
	return nil
}

// SelectConfiguration selects a configuration of the selected target by ID
// or name. The configurations must already be fetched.
func (c *Coordinator) SelectConfiguration(ctx context.Context, key string) error {
	if c.state.Target == nil {
		return errors.New("no target selected")
	}
	cfg, ok := c.state.Target.Configuration(key)
	if !ok {
		return errors.Errorf("unknown configuration %q for target %s", key, c.state.Target.Name)
	}
	c.SetConfiguration(ctx, cfg)
	return nil
}

func (c *Coordinator) SetTarget(ctx context.Context, t *xcode.Target) {
	c.apply(ctx, c.state.SetTarget(t))
}

func (c *Coordinator) SetConfiguration(ctx context.Context, cfg *xcode.Configuration) {
	c.apply(ctx, c.state.SetConfiguration(cfg))
}

// SetSearchString filters the settings list.
func (c *Coordinator) SetSearchString(q string) {
	c.apply(context.Background(), c.state.SetSearch(q))
}

// EnsureConfigurations returns t's configurations, fetching them on the
// calling goroutine if needed. It does not touch the selection.
func (c *Coordinator) EnsureConfigurations(ctx context.Context, t *xcode.Target) ([]*xcode.Configuration, error) {
	configs, _, err := c.configurations.Ensure(ctx, t)
	return configs, err
}

// EnsureSettings returns cfg's build settings, fetching them on the calling
// goroutine if needed.
func (c *Coordinator) EnsureSettings(ctx context.Context, cfg *xcode.Configuration) (map[string]string, error) {
	settings, _, err := c.settings.Ensure(ctx, cfg)
	return settings, err
}

// Fetches returns how many configuration and settings fetches were issued.
func (c *Coordinator) Fetches() (configurations, settings int64) {
	return c.configurations.Fetches(), c.settings.Fetches()
}

func (c *Coordinator) apply(ctx context.Context, eff Effects) {
	if eff.Changed.Has(ListTargets) {
		c.publishTargets()
	}
	if eff.Changed.Has(ListConfigurations) {
		c.publishConfigurations()
	}
	if eff.Changed.Has(ListSettings) {
		c.settingsList.replace(c.state.VisibleSettings())
	}
	if t := eff.FetchConfigurations; t != nil {
		c.fetchConfigurations(ctx, t)
	}
	if cfg := eff.FetchSettings; cfg != nil {
		c.fetchSettings(ctx, cfg)
	}
}

func (c *Coordinator) publishTargets() {
	include := c.state.IncludeProjects()
	targets := c.state.Targets()
	items := make([]TargetItem, 0, len(targets))
	for _, t := range targets {
		items = append(items, TargetItem{Target: t, Path: xcode.ComposePath(t, include)})
	}
	c.targets.replace(items)
}

func (c *Coordinator) publishConfigurations() {
	include := c.state.IncludeProjects()
	configs := c.state.Configurations()
	items := make([]ConfigurationItem, 0, len(configs))
	for _, cfg := range configs {
		items = append(items, ConfigurationItem{Configuration: cfg, Path: xcode.ComposePath(cfg, include)})
	}
	c.configsList.replace(items)
}

func (c *Coordinator) fetchConfigurations(ctx context.Context, t *xcode.Target) {
	subject := xcode.ComposePath(t, c.state.IncludeProjects())
	c.pending++
	c.emit(Event{Kind: EventFetchStarted, Op: "FetchConfigurations", Subject: subject})

	c.configurations.EnsureAsync(ctx, t, c.dispatch, func(res lazy.Result[[]*xcode.Configuration]) {
		c.pending--
		if res.Err != nil {
			c.fail("FetchConfigurations", subject, res.Err)
			return
		}
		c.emit(Event{Kind: EventFetchDone, Op: "FetchConfigurations", Subject: subject, Count: len(res.Value)})

		eff, ok := c.state.ApplyConfigurations(t)
		if !ok {
			c.discard("FetchConfigurations", subject)
			return
		}
		c.apply(ctx, eff)
	})
}

func (c *Coordinator) fetchSettings(ctx context.Context, cfg *xcode.Configuration) {
	subject := xcode.ComposePath(cfg, c.state.IncludeProjects())
	c.pending++
	c.emit(Event{Kind: EventFetchStarted, Op: "FetchBuildSettings", Subject: subject})

	c.settings.EnsureAsync(ctx, cfg, c.dispatch, func(res lazy.Result[map[string]string]) {
		c.pending--
		if res.Err != nil {
			c.fail("FetchBuildSettings", subject, res.Err)
			return
		}
		c.emit(Event{Kind: EventFetchDone, Op: "FetchBuildSettings", Subject: subject, Count: len(res.Value)})

		eff, ok := c.state.ApplySettings(cfg)
		if !ok {
			c.discard("FetchBuildSettings", subject)
			return
		}
		c.apply(ctx, eff)
	})
}

func (c *Coordinator) discard(op, subject string) {
	c.log.WithError(ErrStaleResultDiscarded).WithFields(logrus.Fields{"op": op, "subject": subject}).Debug("selection moved on")
	c.emit(Event{Kind: EventResultDiscarded, Op: op, Subject: subject})
}

func (c *Coordinator) fail(op, subject string, err error) {
	c.lastErr = err
	c.log.WithError(err).WithFields(logrus.Fields{"op": op, "subject": subject}).Warn("bridge call failed")
	c.emit(Event{Kind: EventFetchFailed, Op: op, Subject: subject, Err: err})
	for _, fn := range c.errorSubs {
		fn(err)
	}
}

func (c *Coordinator) emit(e Event) {
	for _, fn := range c.eventSubs {
		fn(e)
	}
}
