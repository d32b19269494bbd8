package selection

import "github.com/marjoballabani/lazybuild/pkg/xcode"

// Lists is a set of lists whose contents changed.
type Lists uint8

const (
	ListTargets Lists = 1 << iota
	ListConfigurations
	ListSettings

	AllLists = ListTargets | ListConfigurations | ListSettings
)

func (l Lists) Has(o Lists) bool { return l&o != 0 }

// Effects is what a state transition asks of its owner: lists to republish
// and fetches to start.
type Effects struct {
	Changed             Lists
	FetchConfigurations *xcode.Target
	FetchSettings       *xcode.Configuration
}

func (e Effects) IsZero() bool {
	return e.Changed == 0 && e.FetchConfigurations == nil && e.FetchSettings == nil
}

// merge folds a later transition into e; later fetch requests win.
func (e Effects) merge(later Effects) Effects {
	e.Changed |= later.Changed
	if later.FetchConfigurations != nil {
		e.FetchConfigurations = later.FetchConfigurations
	}
	if later.FetchSettings != nil {
		e.FetchSettings = later.FetchSettings
	}
	return e
}

// Snapshot is the result of one reload: the projects and their targets
// flattened in display order.
type Snapshot struct {
	Projects []*xcode.Project
	Targets  []*xcode.Target
	// IncludeProjects is set when more than one project is loaded, so paths
	// need the project segment to stay unambiguous.
	IncludeProjects bool
}

func NewSnapshot(projects []*xcode.Project) *Snapshot {
	s := &Snapshot{Projects: projects, IncludeProjects: len(projects) > 1}
	for _, p := range projects {
		s.Targets = append(s.Targets, p.Targets...)
	}
	return s
}

// Target finds a target by ID, name or display path.
func (s *Snapshot) Target(key string) (*xcode.Target, bool) {
	if s == nil {
		return nil, false
	}
	for _, t := range s.Targets {
		if t.ID == key || t.Name == key || xcode.ComposePath(t, s.IncludeProjects) == key {
			return t, true
		}
	}
	return nil, false
}

// State is the selection state machine. Its methods only change fields and
// report Effects; they never fetch.
type State struct {
	Snapshot      *Snapshot
	Target        *xcode.Target
	Configuration *xcode.Configuration
	Search        string
}

// ReplaceSnapshot installs a fresh snapshot and selects its first target.
func (s *State) ReplaceSnapshot(snap *Snapshot) Effects {
	s.Snapshot = snap
	s.Target = nil
	s.Configuration = nil
	eff := Effects{Changed: AllLists}

	var first *xcode.Target
	if snap != nil && len(snap.Targets) > 0 {
		first = snap.Targets[0]
	}
	return eff.merge(s.SetTarget(first))
}

// SetTarget selects t and its first configuration, or asks for the
// configurations when they are unfetched.
func (s *State) SetTarget(t *xcode.Target) Effects {
	if t == s.Target {
		return Effects{}
	}
	s.Target = t
	eff := Effects{Changed: ListConfigurations}

	var first *xcode.Configuration
	if t != nil {
		if configs, ok := t.Configurations.Load(); ok {
			first = firstOf(configs)
		} else {
			eff.FetchConfigurations = t
		}
	}
	return eff.merge(s.SetConfiguration(first))
}

// SetConfiguration selects c, asking for its settings when unfetched.
func (s *State) SetConfiguration(c *xcode.Configuration) Effects {
	if c == s.Configuration {
		return Effects{}
	}
	s.Configuration = c
	eff := Effects{Changed: ListSettings}
	if c != nil && !c.BuildSettings.Loaded() {
		eff.FetchSettings = c
	}
	return eff
}

// SetSearch changes the settings search string.
func (s *State) SetSearch(q string) Effects {
	if q == s.Search {
		return Effects{}
	}
	s.Search = q
	return Effects{Changed: ListSettings}
}

// ApplyConfigurations handles fetched configurations of t. It reports false,
// changing nothing, when t is no longer selected.
func (s *State) ApplyConfigurations(t *xcode.Target) (Effects, bool) {
	if t == nil || t != s.Target {
		return Effects{}, false
	}
	configs, _ := t.Configurations.Load()
	eff := Effects{Changed: ListConfigurations}
	return eff.merge(s.SetConfiguration(firstOf(configs))), true
}

// ApplySettings handles fetched settings of c, reporting false when c is no
// longer selected.
func (s *State) ApplySettings(c *xcode.Configuration) (Effects, bool) {
	if c == nil || c != s.Configuration {
		return Effects{}, false
	}
	return Effects{Changed: ListSettings}, true
}

// Targets returns the targets of the current snapshot.
func (s *State) Targets() []*xcode.Target {
	if s.Snapshot == nil {
		return nil
	}
	return s.Snapshot.Targets
}

// Configurations returns the selected target's configurations, or nil while
// they are unfetched.
func (s *State) Configurations() []*xcode.Configuration {
	if s.Target == nil {
		return nil
	}
	configs, _ := s.Target.Configurations.Load()
	return configs
}

// VisibleSettings returns the selected configuration's settings that match
// the search string, sorted by name.
func (s *State) VisibleSettings() []xcode.Setting {
	if s.Configuration == nil {
		return nil
	}
	return Filter(s.Configuration.Settings(), s.Search)
}

func (s *State) IncludeProjects() bool {
	return s.Snapshot != nil && s.Snapshot.IncludeProjects
}

func firstOf(configs []*xcode.Configuration) *xcode.Configuration {
	if len(configs) == 0 {
		return nil
	}
	return configs[0]
}
