package xcode

import "strings"

// PathSeparator joins the segments of a display path.
const PathSeparator = " > "

// PathElement is a node that can be shown as a breadcrumb path.
type PathElement interface {
	ElementName() string
	// ParentElement returns nil at the root.
	ParentElement() PathElement
	IsProject() bool
}

// ComposePath renders el and its ancestors root first, e.g. "Demo > App > Debug".
// Project ancestors are skipped unless includeProjects is set, which callers
// do when more than one project is loaded.
func ComposePath(el PathElement, includeProjects bool) string {
	if el == nil {
		return ""
	}
	segments := []string{el.ElementName()}
	for p := el.ParentElement(); p != nil; p = p.ParentElement() {
		if p.IsProject() && !includeProjects {
			continue
		}
		segments = append(segments, p.ElementName())
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, PathSeparator)
}

func (p *Project) ElementName() string        { return p.Name }
func (p *Project) ParentElement() PathElement { return nil }
func (p *Project) IsProject() bool            { return true }

func (t *Target) ElementName() string { return t.Name }
func (t *Target) IsProject() bool     { return false }

func (t *Target) ParentElement() PathElement {
	if t.Project == nil {
		return nil
	}
	return t.Project
}

func (c *Configuration) ElementName() string { return c.Name }
func (c *Configuration) IsProject() bool     { return false }

func (c *Configuration) ParentElement() PathElement {
	if c.Target == nil {
		return nil
	}
	return c.Target
}
