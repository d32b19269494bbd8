// Package xcode talks to Xcode. It defines the project/target/configuration
// tree, the Bridge contract used to fill it, and two bridges: one driving a
// running Xcode through osascript, one reading a YAML fixture.
package xcode

import (
	"context"
	"time"

	"github.com/marjoballabani/lazybuild/pkg/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Bridge fetches one level of the tree. Calls may be slow and may fail with
// a *BridgeError. Implementations must be safe for concurrent use.
type Bridge interface {
	// ListProjects returns every open project with its targets. Target
	// configurations may be left unfetched.
	ListProjects(ctx context.Context) ([]*Project, error)
	FetchConfigurations(ctx context.Context, t *Target) ([]*Configuration, error)
	FetchBuildSettings(ctx context.Context, c *Configuration) (map[string]string, error)
}

// NewBridge builds the bridge selected by cfg.
func NewBridge(cfg config.BridgeConfig, log logrus.FieldLogger) (Bridge, error) {
	var b Bridge
	switch cfg.Kind {
	case "", config.BridgeXcode:
		b = NewScriptBridge(cfg.Osascript, log)
	case config.BridgeFixture:
		if cfg.Fixture == "" {
			return nil, errors.New("bridge.fixture must be set when bridge.kind is fixture")
		}
		fb, err := LoadFixture(cfg.Fixture)
		if err != nil {
			return nil, err
		}
		fb.Latency = cfg.Latency
		b = fb
	default:
		return nil, errors.Errorf("unknown bridge kind %q", cfg.Kind)
	}
	if cfg.Timeout > 0 {
		b = WithTimeout(b, cfg.Timeout)
	}
	return b, nil
}

// Refresher is implemented by bridges whose source can change on disk and
// must be re-read before the next reload.
type Refresher interface {
	Refresh() error
}

type timeoutBridge struct {
	next    Bridge
	timeout time.Duration
}

// WithTimeout bounds every call of next by d.
func WithTimeout(next Bridge, d time.Duration) Bridge {
	return &timeoutBridge{next: next, timeout: d}
}

func (b *timeoutBridge) ListProjects(ctx context.Context) ([]*Project, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	projects, err := b.next.ListProjects(ctx)
	return projects, b.check(ctx, "list projects", err)
}

func (b *timeoutBridge) FetchConfigurations(ctx context.Context, t *Target) ([]*Configuration, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	configs, err := b.next.FetchConfigurations(ctx, t)
	return configs, b.check(ctx, "fetch configurations", err)
}

func (b *timeoutBridge) FetchBuildSettings(ctx context.Context, c *Configuration) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	settings, err := b.next.FetchBuildSettings(ctx, c)
	return settings, b.check(ctx, "fetch build settings", err)
}

// Refresh forwards to the wrapped bridge.
func (b *timeoutBridge) Refresh() error {
	if r, ok := b.next.(Refresher); ok {
		return r.Refresh()
	}
	return nil
}

func (b *timeoutBridge) check(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return otherError(op, "timed out after %s", b.timeout)
	}
	return err
}

func projectID(path, name string) string {
	return path + "#" + name
}

func childID(parentID, name string) string {
	return parentID + "/" + name
}
