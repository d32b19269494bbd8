package xcode

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies bridge failures.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindToolNotRunning
	KindAutomationAuthorizationRequired
)

func (k ErrorKind) String() string {
	switch k {
	case KindToolNotRunning:
		return "not running"
	case KindAutomationAuthorizationRequired:
		return "not authorized"
	default:
		return "other"
	}
}

// BridgeError is returned by every Bridge operation.
type BridgeError struct {
	Kind   ErrorKind
	Op     string
	Detail string
}

var (
	ErrToolNotRunning                  = &BridgeError{Kind: KindToolNotRunning}
	ErrAutomationAuthorizationRequired = &BridgeError{Kind: KindAutomationAuthorizationRequired}
)

func (e *BridgeError) Error() string {
	var msg string
	switch e.Kind {
	case KindToolNotRunning:
		msg = "Xcode is not running"
	case KindAutomationAuthorizationRequired:
		msg = "not authorized to control Xcode"
	default:
		msg = "Xcode bridge failed"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

// Is matches any BridgeError of the same kind, so callers can write
// errors.Is(err, xcode.ErrToolNotRunning).
func (e *BridgeError) Is(target error) bool {
	t, ok := target.(*BridgeError)
	return ok && t.Kind == e.Kind
}

// Hint returns a short suggestion for the user, or "".
func (e *BridgeError) Hint() string {
	switch e.Kind {
	case KindToolNotRunning:
		return "Open your project in Xcode, then press r to reload."
	case KindAutomationAuthorizationRequired:
		return "Allow your terminal to control Xcode in System Settings > Privacy & Security > Automation."
	}
	return ""
}

func otherError(op, format string, args ...any) *BridgeError {
	return &BridgeError{Kind: KindOther, Op: op, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first BridgeError in err's chain.
func KindOf(err error) ErrorKind {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindOther
}

// HintFor returns the hint of the first BridgeError in err's chain.
func HintFor(err error) string {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Hint()
	}
	return ""
}

// classifyScriptError maps osascript failures onto the bridge taxonomy.
// Apple event errors: -600 application not running, -1743 not authorized.
func classifyScriptError(op string, stderr string, runErr error) *BridgeError {
	detail := strings.TrimSpace(stderr)
	if detail == "" && runErr != nil {
		detail = runErr.Error()
	}
	lower := strings.ToLower(detail)
	switch {
	case strings.Contains(lower, "(-600)"),
		strings.Contains(lower, "isn't running"),
		strings.Contains(lower, "application isn’t running"):
		return &BridgeError{Kind: KindToolNotRunning, Op: op}
	case strings.Contains(lower, "(-1743)"),
		strings.Contains(lower, "not authorized to send apple events"),
		strings.Contains(lower, "not allowed to send apple events"):
		return &BridgeError{Kind: KindAutomationAuthorizationRequired, Op: op}
	}
	return &BridgeError{Kind: KindOther, Op: op, Detail: detail}
}
