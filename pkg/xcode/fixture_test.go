package xcode

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoFixture = `
projects:
  - name: Demo
    path: /src/Demo/Demo.xcodeproj
    targets:
      - name: App
        configurations:
          - name: Debug
            settings:
              PRODUCT_NAME: App
              SWIFT_OPTIMIZATION_LEVEL: -Onone
          - name: Release
            error: notAuthorized
      - name: Broken
        error: project file is corrupt
`

func loadDemo(t *testing.T) *FixtureBridge {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoFixture), 0644))
	b, err := LoadFixture(path)
	require.NoError(t, err)
	return b
}

func TestFixtureBridgeServesLevelsLazily(t *testing.T) {
	b := loadDemo(t)
	ctx := context.Background()

	projects, err := b.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	app := projects[0].Targets[0]
	assert.Equal(t, "App", app.Name)
	assert.False(t, app.Configurations.Loaded(), "configurations come from FetchConfigurations")

	configs, err := b.FetchConfigurations(ctx, app)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Same(t, app, configs[0].Target)

	settings, err := b.FetchBuildSettings(ctx, configs[0])
	require.NoError(t, err)
	assert.Equal(t, "-Onone", settings["SWIFT_OPTIMIZATION_LEVEL"])

	_, err = b.FetchBuildSettings(ctx, configs[1])
	assert.ErrorIs(t, err, ErrAutomationAuthorizationRequired)

	_, err = b.FetchConfigurations(ctx, projects[0].Targets[1])
	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
	assert.Contains(t, err.Error(), "project file is corrupt")
}

func TestFixtureBridgeInjectedReloadError(t *testing.T) {
	b := loadDemo(t)
	b.SetError("notRunning")

	_, err := b.ListProjects(context.Background())
	assert.ErrorIs(t, err, ErrToolNotRunning)

	b.SetError("")
	projects, err := b.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestFixtureBridgeLatencyHonoursContext(t *testing.T) {
	b := loadDemo(t)
	b.Latency = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := b.ListProjects(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFixtureBridgeRefresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoFixture), 0644))
	b, err := LoadFixture(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - name: Other\n    path: /src/Other.xcodeproj\n"), 0644))
	var r Refresher = WithTimeout(b, time.Minute).(Refresher)
	require.NoError(t, r.Refresh())

	projects, err := b.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Other", projects[0].Name)

	require.NoError(t, os.WriteFile(path, []byte("projects: [\n"), 0644))
	assert.Error(t, b.Refresh())

	assert.NoError(t, NewFixtureBridge(&Fixture{}).Refresh())
}

func TestLoadFixtureErrors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects: [\n"), 0644))
	_, err = LoadFixture(path)
	assert.Error(t, err)
}
