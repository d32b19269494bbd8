package xcode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/marjoballabani/lazybuild/pkg/config"
	"github.com/marjoballabani/lazybuild/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptCall struct {
	name string
	args []string
}

func fakeRunner(t *testing.T, stdout, stderr string, err error) *[]scriptCall {
	t.Helper()
	var calls []scriptCall
	orig := runScript
	runScript = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		calls = append(calls, scriptCall{name: name, args: args})
		return []byte(stdout), []byte(stderr), err
	}
	t.Cleanup(func() { runScript = orig })
	return &calls
}

func TestScriptBridgeListProjects(t *testing.T) {
	calls := fakeRunner(t, `{"result":[{"name":"Demo","path":"/src/Demo.xcworkspace","targets":[{"name":"App"},{"name":"AppTests"}]}]}`+"\n", "", nil)
	b := NewScriptBridge("", logging.Discard())

	projects, err := b.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, "/src/Demo.xcworkspace", p.Path)
	require.Len(t, p.Targets, 2)
	assert.Equal(t, "AppTests", p.Targets[1].Name)
	assert.Same(t, p, p.Targets[0].Project)
	assert.False(t, p.Targets[0].Configurations.Loaded())
	assert.NotEqual(t, p.Targets[0].ID, p.Targets[1].ID)

	require.Len(t, *calls, 1)
	assert.Equal(t, "osascript", (*calls)[0].name)
	assert.Equal(t, []string{"-l", "JavaScript", "-e"}, (*calls)[0].args[:3])
}

func TestScriptBridgeFetchConfigurationsPassesTargetAddress(t *testing.T) {
	calls := fakeRunner(t, `{"result":[{"name":"Debug"},{"name":"Release"}]}`, "", nil)
	b := NewScriptBridge("/usr/bin/osascript", logging.Discard())
	p := &Project{ID: "p", Name: "Demo", Path: "/src/Demo.xcodeproj"}
	tgt := &Target{ID: "p/App", Name: "App"}
	p.AddTargets(tgt)

	configs, err := b.FetchConfigurations(context.Background(), tgt)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "Release", configs[1].Name)
	assert.Same(t, tgt, configs[0].Target)

	args := (*calls)[0].args
	assert.Equal(t, "/usr/bin/osascript", (*calls)[0].name)
	assert.Equal(t, []string{"/src/Demo.xcodeproj", "Demo", "App"}, args[len(args)-3:])
}

func TestScriptBridgeFetchBuildSettings(t *testing.T) {
	fakeRunner(t, `{"result":{"PRODUCT_NAME":"App","SDKROOT":"iphoneos"}}`, "", nil)
	b := NewScriptBridge("", logging.Discard())
	p := &Project{ID: "p", Name: "Demo", Path: "/src/Demo.xcodeproj"}
	tgt := &Target{ID: "p/App", Name: "App"}
	p.AddTargets(tgt)
	cfg := tgt.Adopt([]*Configuration{{ID: "p/App/Debug", Name: "Debug"}})[0]

	settings, err := b.FetchBuildSettings(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PRODUCT_NAME": "App", "SDKROOT": "iphoneos"}, settings)
}

func TestScriptBridgeErrors(t *testing.T) {
	tests := []struct {
		name   string
		stdout string
		stderr string
		err    error
		kind   ErrorKind
		detail string
	}{
		{
			name:   "script reports not running",
			stdout: `{"error":"notRunning"}`,
			kind:   KindToolNotRunning,
		},
		{
			name:   "apple event -600",
			stderr: "execution error: Error: Error: Application isn't running. (-600)",
			err:    errors.New("exit status 1"),
			kind:   KindToolNotRunning,
		},
		{
			name:   "apple event -1743",
			stderr: "execution error: Error: Error: Not authorized to send Apple events to Xcode. (-1743)",
			err:    errors.New("exit status 1"),
			kind:   KindAutomationAuthorizationRequired,
		},
		{
			name:   "unknown failure keeps detail",
			stderr: "syntax error: Expected end of line (-2741)",
			err:    errors.New("exit status 1"),
			kind:   KindOther,
			detail: "syntax error",
		},
		{
			name:   "missing runner",
			err:    errors.New(`exec: "osascript": executable file not found in $PATH`),
			kind:   KindOther,
			detail: "executable file not found",
		},
		{
			name:   "target gone",
			stdout: `{"error":"notFound","detail":"target App is no longer open"}`,
			kind:   KindOther,
			detail: "no longer open",
		},
		{
			name:   "garbage output",
			stdout: "not json",
			kind:   KindOther,
			detail: "unreadable reply",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRunner(t, tt.stdout, tt.stderr, tt.err)
			b := NewScriptBridge("", logging.Discard())

			_, err := b.ListProjects(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			if tt.detail != "" {
				assert.True(t, strings.Contains(err.Error(), tt.detail), "error %q should mention %q", err, tt.detail)
			}
		})
	}
}

func TestBridgeErrorIs(t *testing.T) {
	err := &BridgeError{Kind: KindToolNotRunning, Op: "list projects"}

	assert.ErrorIs(t, err, ErrToolNotRunning)
	assert.NotErrorIs(t, err, ErrAutomationAuthorizationRequired)
	assert.Equal(t, "list projects: Xcode is not running", err.Error())
	assert.NotEmpty(t, HintFor(err))
	assert.Empty(t, HintFor(errors.New("plain")))
}

type slowBridge struct{ Bridge }

func (slowBridge) ListProjects(ctx context.Context) ([]*Project, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	b := WithTimeout(slowBridge{}, 10*time.Millisecond)

	_, err := b.ListProjects(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindOther, KindOf(err))
	assert.Contains(t, err.Error(), "timed out")
}

func TestNewBridge(t *testing.T) {
	b, err := NewBridge(config.BridgeConfig{Kind: config.BridgeXcode}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &ScriptBridge{}, b)

	b, err = NewBridge(config.BridgeConfig{Timeout: time.Second}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &timeoutBridge{}, b)

	_, err = NewBridge(config.BridgeConfig{Kind: config.BridgeFixture}, logging.Discard())
	assert.Error(t, err)

	_, err = NewBridge(config.BridgeConfig{Kind: "carrier-pigeon"}, logging.Discard())
	assert.Error(t, err)
}
