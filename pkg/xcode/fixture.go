package xcode

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Fixture describes a canned set of projects, loaded from YAML:
//
//	projects:
//	  - name: Demo
//	    path: /src/Demo/Demo.xcodeproj
//	    targets:
//	      - name: App
//	        configurations:
//	          - name: Debug
//	            settings:
//	              PRODUCT_NAME: App
//
// Error fields inject failures: "notRunning", "notAuthorized", or any other
// text for a generic failure.
type Fixture struct {
	Error    string           `yaml:"error,omitempty"`
	Projects []FixtureProject `yaml:"projects"`
}

type FixtureProject struct {
	Name    string          `yaml:"name"`
	Path    string          `yaml:"path"`
	Targets []FixtureTarget `yaml:"targets"`
}

type FixtureTarget struct {
	Name           string                 `yaml:"name"`
	Error          string                 `yaml:"error,omitempty"`
	Configurations []FixtureConfiguration `yaml:"configurations"`
}

type FixtureConfiguration struct {
	Name     string            `yaml:"name"`
	Error    string            `yaml:"error,omitempty"`
	Settings map[string]string `yaml:"settings"`
}

// FixtureBridge serves a Fixture through the Bridge contract. Configurations
// and settings are only handed out by the fetch calls, like a live Xcode.
type FixtureBridge struct {
	// Latency delays every call to imitate a slow bridge.
	Latency time.Duration

	path    string
	mu      sync.RWMutex
	fixture *Fixture
}

func NewFixtureBridge(f *Fixture) *FixtureBridge {
	return &FixtureBridge{fixture: f}
}

// LoadFixture reads a fixture file. Refresh reads it again.
func LoadFixture(path string) (*FixtureBridge, error) {
	f, err := readFixture(path)
	if err != nil {
		return nil, err
	}
	b := NewFixtureBridge(f)
	b.path = path
	return b, nil
}

// Refresh re-reads the fixture file after it changed on disk. Bridges built
// with NewFixtureBridge have no file and keep their fixture.
func (b *FixtureBridge) Refresh() error {
	if b.path == "" {
		return nil
	}
	f, err := readFixture(b.path)
	if err != nil {
		return err
	}
	b.Replace(f)
	return nil
}

func readFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read fixture")
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse fixture %s", path)
	}
	return f, nil
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Replace swaps the served fixture, e.g. after the file changed on disk.
func (b *FixtureBridge) Replace(f *Fixture) {
	b.mu.Lock()
	b.fixture = f
	b.mu.Unlock()
}

// SetError sets or clears the failure injected into ListProjects.
func (b *FixtureBridge) SetError(code string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f := *b.fixture
	f.Error = code
	b.fixture = &f
}

func (b *FixtureBridge) current() *Fixture {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fixture
}

func (b *FixtureBridge) ListProjects(ctx context.Context) ([]*Project, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	f := b.current()
	if f.Error != "" {
		return nil, fixtureError("list projects", f.Error)
	}

	projects := make([]*Project, 0, len(f.Projects))
	for _, fp := range f.Projects {
		p := &Project{ID: projectID(fp.Path, fp.Name), Name: fp.Name, Path: fp.Path}
		for _, ft := range fp.Targets {
			p.AddTargets(&Target{ID: childID(p.ID, ft.Name), Name: ft.Name})
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (b *FixtureBridge) FetchConfigurations(ctx context.Context, t *Target) ([]*Configuration, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	ft, ok := b.findTarget(t)
	if !ok {
		return nil, otherError("fetch configurations", "unknown target %s", t.Name)
	}
	if ft.Error != "" {
		return nil, fixtureError("fetch configurations", ft.Error)
	}

	configs := make([]*Configuration, 0, len(ft.Configurations))
	for _, fc := range ft.Configurations {
		configs = append(configs, &Configuration{ID: childID(t.ID, fc.Name), Name: fc.Name})
	}
	return t.Adopt(configs), nil
}

func (b *FixtureBridge) FetchBuildSettings(ctx context.Context, c *Configuration) (map[string]string, error) {
	if err := b.wait(ctx); err != nil {
		return nil, err
	}
	if c.Target == nil {
		return nil, otherError("fetch build settings", "configuration %s is detached", c.Name)
	}
	ft, ok := b.findTarget(c.Target)
	if !ok {
		return nil, otherError("fetch build settings", "unknown target %s", c.Target.Name)
	}
	for _, fc := range ft.Configurations {
		if fc.Name != c.Name {
			continue
		}
		if fc.Error != "" {
			return nil, fixtureError("fetch build settings", fc.Error)
		}
		settings := make(map[string]string, len(fc.Settings))
		for k, v := range fc.Settings {
			settings[k] = v
		}
		return settings, nil
	}
	return nil, otherError("fetch build settings", "unknown configuration %s", c.Name)
}

func (b *FixtureBridge) findTarget(t *Target) (FixtureTarget, bool) {
	if t.Project == nil {
		return FixtureTarget{}, false
	}
	for _, fp := range b.current().Projects {
		if fp.Name != t.Project.Name || fp.Path != t.Project.Path {
			continue
		}
		for _, ft := range fp.Targets {
			if ft.Name == t.Name {
				return ft, true
			}
		}
	}
	return FixtureTarget{}, false
}

func (b *FixtureBridge) wait(ctx context.Context) error {
	if b.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(b.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fixtureError(op, code string) *BridgeError {
	switch code {
	case "notRunning":
		return &BridgeError{Kind: KindToolNotRunning, Op: op}
	case "notAuthorized":
		return &BridgeError{Kind: KindAutomationAuthorizationRequired, Op: op}
	}
	return &BridgeError{Kind: KindOther, Op: op, Detail: code}
}
