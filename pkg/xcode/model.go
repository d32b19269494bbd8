package xcode

import (
	"sort"

	"github.com/marjoballabani/lazybuild/pkg/lazy"
)

// Project is one Xcode project inside an open workspace document.
type Project struct {
	ID   string
	Name string
	// Path is the workspace or project document that contains the project.
	Path    string
	Targets []*Target
}

// Target is a build target of a project. Its configurations are fetched on
// demand and stored once.
type Target struct {
	ID      string
	Name    string
	Project *Project

	Configurations lazy.Memo[[]*Configuration]
}

// Configuration is a build configuration (Debug, Release, ...) of a target.
type Configuration struct {
	ID     string
	Name   string
	Target *Target

	BuildSettings lazy.Memo[map[string]string]
}

// Setting is one name/value pair shown in the settings list.
type Setting struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// AddTargets appends targets to p and points them back at it.
func (p *Project) AddTargets(targets ...*Target) {
	for _, t := range targets {
		t.Project = p
	}
	p.Targets = append(p.Targets, targets...)
}

// Adopt points every configuration back at t. Bridges call it before the
// configurations are stored.
func (t *Target) Adopt(configs []*Configuration) []*Configuration {
	for _, c := range configs {
		c.Target = t
	}
	return configs
}

// Configuration finds a fetched configuration by ID or name.
func (t *Target) Configuration(idOrName string) (*Configuration, bool) {
	configs, _ := t.Configurations.Load()
	for _, c := range configs {
		if c.ID == idOrName || c.Name == idOrName {
			return c, true
		}
	}
	return nil, false
}

// Settings returns the fetched build settings sorted by name, or nil while
// they are unfetched.
func (c *Configuration) Settings() []Setting {
	m, ok := c.BuildSettings.Load()
	if !ok {
		return nil
	}
	return SortedSettings(m)
}

// SortedSettings turns a settings map into a list ordered by name.
func SortedSettings(m map[string]string) []Setting {
	settings := make([]Setting, 0, len(m))
	for name, value := range m {
		settings = append(settings, Setting{Name: name, Value: value})
	}
	sort.Slice(settings, func(i, j int) bool {
		return settings[i].Name < settings[j].Name
	})
	return settings
}
