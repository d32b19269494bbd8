package xcode

import "testing"

func demoTree() (*Project, *Target, *Configuration) {
	p := &Project{ID: "demo", Name: "Demo"}
	tgt := &Target{ID: "demo/App", Name: "App"}
	p.AddTargets(tgt)
	cfg := tgt.Adopt([]*Configuration{{ID: "demo/App/Debug", Name: "Debug"}})[0]
	return p, tgt, cfg
}

func TestComposePath(t *testing.T) {
	p, tgt, cfg := demoTree()
	orphan := &Target{Name: "Loose"}

	tests := []struct {
		name            string
		el              PathElement
		includeProjects bool
		expected        string
	}{
		{"configuration with projects", cfg, true, "Demo > App > Debug"},
		{"configuration without projects", cfg, false, "App > Debug"},
		{"target with projects", tgt, true, "Demo > App"},
		{"target without projects", tgt, false, "App"},
		{"project keeps its own name", p, false, "Demo"},
		{"project with projects", p, true, "Demo"},
		{"no ancestors", orphan, true, "Loose"},
		{"nil element", nil, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComposePath(tt.el, tt.includeProjects)
			if result != tt.expected {
				t.Errorf("ComposePath() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestParentElementOfDetachedNodes(t *testing.T) {
	if (&Target{}).ParentElement() != nil {
		t.Error("detached target should have a nil parent interface")
	}
	if (&Configuration{}).ParentElement() != nil {
		t.Error("detached configuration should have a nil parent interface")
	}
}

func TestSortedSettings(t *testing.T) {
	settings := SortedSettings(map[string]string{
		"SDKROOT":      "iphoneos",
		"ARCHS":        "arm64",
		"PRODUCT_NAME": "App",
	})

	expected := []string{"ARCHS", "PRODUCT_NAME", "SDKROOT"}
	if len(settings) != len(expected) {
		t.Fatalf("got %d settings, expected %d", len(settings), len(expected))
	}
	for i, name := range expected {
		if settings[i].Name != name {
			t.Errorf("settings[%d].Name = %q, expected %q", i, settings[i].Name, name)
		}
	}
}

func TestConfigurationLookup(t *testing.T) {
	_, tgt, _ := demoTree()

	if _, ok := tgt.Configuration("Debug"); ok {
		t.Error("lookup should fail while configurations are unfetched")
	}

	tgt.Configurations.Store(tgt.Adopt([]*Configuration{
		{ID: "demo/App/Debug", Name: "Debug"},
		{ID: "demo/App/Release", Name: "Release"},
	}))

	c, ok := tgt.Configuration("Release")
	if !ok || c.Name != "Release" {
		t.Errorf("Configuration(Release) = %v, %v", c, ok)
	}
	c, ok = tgt.Configuration("demo/App/Debug")
	if !ok || c.Name != "Debug" {
		t.Errorf("Configuration(by id) = %v, %v", c, ok)
	}
	if c.Target != tgt {
		t.Error("configuration should point back at its target")
	}
}
