package xcode

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// runScript executes the script runner. Tests replace it.
var runScript = func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

// ScriptBridge drives a running Xcode with JavaScript for Automation
// scripts run through osascript. Every call is a separate process, so calls
// are slow but independent.
type ScriptBridge struct {
	osascript string
	log       logrus.FieldLogger
}

func NewScriptBridge(osascript string, log logrus.FieldLogger) *ScriptBridge {
	if osascript == "" {
		osascript = "osascript"
	}
	return &ScriptBridge{osascript: osascript, log: log.WithField("bridge", "xcode")}
}

// scriptReply is the envelope every script prints.
type scriptReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Detail string          `json:"detail"`
}

type scriptProject struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Targets []struct {
		Name string `json:"name"`
	} `json:"targets"`
}

type scriptConfiguration struct {
	Name string `json:"name"`
}

// ListProjects lists the projects of every open workspace document.
func (b *ScriptBridge) ListProjects(ctx context.Context) ([]*Project, error) {
	var raw []scriptProject
	if err := b.run(ctx, "list projects", listProjectsScript, &raw); err != nil {
		return nil, err
	}

	projects := make([]*Project, 0, len(raw))
	for _, rp := range raw {
		p := &Project{ID: projectID(rp.Path, rp.Name), Name: rp.Name, Path: rp.Path}
		for _, rt := range rp.Targets {
			p.AddTargets(&Target{ID: childID(p.ID, rt.Name), Name: rt.Name})
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (b *ScriptBridge) FetchConfigurations(ctx context.Context, t *Target) ([]*Configuration, error) {
	if t.Project == nil {
		return nil, otherError("fetch configurations", "target %s has no project", t.Name)
	}
	var raw []scriptConfiguration
	err := b.run(ctx, "fetch configurations", configurationsScript, &raw,
		t.Project.Path, t.Project.Name, t.Name)
	if err != nil {
		return nil, err
	}

	configs := make([]*Configuration, 0, len(raw))
	for _, rc := range raw {
		configs = append(configs, &Configuration{ID: childID(t.ID, rc.Name), Name: rc.Name})
	}
	return t.Adopt(configs), nil
}

func (b *ScriptBridge) FetchBuildSettings(ctx context.Context, c *Configuration) (map[string]string, error) {
	if c.Target == nil || c.Target.Project == nil {
		return nil, otherError("fetch build settings", "configuration %s is detached", c.Name)
	}
	t := c.Target
	settings := map[string]string{}
	err := b.run(ctx, "fetch build settings", buildSettingsScript, &settings,
		t.Project.Path, t.Project.Name, t.Name, c.Name)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (b *ScriptBridge) run(ctx context.Context, op, script string, out any, argv ...string) error {
	args := append([]string{"-l", "JavaScript", "-e", script}, argv...)
	b.log.WithFields(logrus.Fields{"op": op, "args": argv}).Debug("running osascript")

	stdout, stderr, err := runScript(ctx, b.osascript, args...)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), op)
		}
		return classifyScriptError(op, string(stderr), err)
	}

	var reply scriptReply
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &reply); err != nil {
		return otherError(op, "unreadable reply: %v", err)
	}
	switch reply.Error {
	case "":
	case "notRunning":
		return &BridgeError{Kind: KindToolNotRunning, Op: op}
	case "notFound":
		return otherError(op, "%s", reply.Detail)
	default:
		return otherError(op, "%s %s", reply.Error, reply.Detail)
	}
	if len(reply.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return otherError(op, "unreadable result: %v", err)
	}
	return nil
}

const scriptPrelude = `
function reply(result) { return JSON.stringify({result: result}); }
function fail(code, detail) { return JSON.stringify({error: code, detail: detail || ""}); }
function findTarget(xcode, path, projectName, targetName) {
	var docs = xcode.workspaceDocuments().filter(function (d) { return d.path() === path; });
	if (docs.length === 0) { return null; }
	var projects = docs[0].projects().filter(function (p) { return p.name() === projectName; });
	if (projects.length === 0) { return null; }
	var targets = projects[0].targets().filter(function (t) { return t.name() === targetName; });
	return targets.length === 0 ? null : targets[0];
}
`

const listProjectsScript = scriptPrelude + `
function run(argv) {
	var xcode = Application("Xcode");
	if (!xcode.running()) { return fail("notRunning"); }
	var projects = [];
	xcode.workspaceDocuments().forEach(function (doc) {
		doc.projects().forEach(function (p) {
			projects.push({
				name: p.name(),
				path: doc.path(),
				targets: p.targets().map(function (t) { return {name: t.name()}; })
			});
		});
	});
	return reply(projects);
}
`

const configurationsScript = scriptPrelude + `
function run(argv) {
	var xcode = Application("Xcode");
	if (!xcode.running()) { return fail("notRunning"); }
	var target = findTarget(xcode, argv[0], argv[1], argv[2]);
	if (target === null) { return fail("notFound", "target " + argv[2] + " is no longer open"); }
	return reply(target.buildConfigurations().map(function (c) { return {name: c.name()}; }));
}
`

const buildSettingsScript = scriptPrelude + `
function run(argv) {
	var xcode = Application("Xcode");
	if (!xcode.running()) { return fail("notRunning"); }
	var target = findTarget(xcode, argv[0], argv[1], argv[2]);
	if (target === null) { return fail("notFound", "target " + argv[2] + " is no longer open"); }
	var configs = target.buildConfigurations().filter(function (c) { return c.name() === argv[3]; });
	if (configs.length === 0) { return fail("notFound", "configuration " + argv[3] + " is no longer available"); }
	var settings = {};
	configs[0].buildSettings().forEach(function (s) { settings[s.name()] = s.value(); });
	return reply(settings);
}
`
