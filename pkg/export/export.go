// Package export turns build settings into text, JSON, jq results and
// highlighted terminal output.
package export

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/pkg/errors"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Text renders settings one per line as "NAME = value".
func Text(settings []xcode.Setting) string {
	var b strings.Builder
	for _, s := range settings {
		b.WriteString(s.Name)
		b.WriteString(" = ")
		b.WriteString(s.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// Object returns settings as a JSON-shaped object, the input jq queries run
// against.
func Object(settings []xcode.Setting) map[string]any {
	obj := make(map[string]any, len(settings))
	for _, s := range settings {
		obj[s.Name] = s.Value
	}
	return obj
}

// JSON renders settings as an indented object with sorted keys.
func JSON(settings []xcode.Setting) ([]byte, error) {
	return marshal(Object(settings))
}

// Query runs the jq expression expr over the settings object and returns
// every result it yields.
func Query(settings []xcode.Setting, expr string) ([]any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "parse jq %q", expr)
	}

	var results []any
	iter := q.Run(Object(settings))
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return results, errors.Wrapf(err, "run jq %q", expr)
		}
		results = append(results, v)
	}
	return results, nil
}

// QueryJSON is Query with each result rendered as indented JSON, one after
// another.
func QueryJSON(settings []xcode.Setting, expr string) ([]byte, error) {
	results, err := Query(settings, expr)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, r := range results {
		data, err := marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	if len(results) == 0 {
		buf.WriteString("null\n")
	}
	return buf.Bytes(), nil
}

// Highlight writes src as JSON highlighted for a 256 colour terminal.
func Highlight(w io.Writer, src []byte, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	return errors.Wrap(quick.Highlight(w, string(src), "json", "terminal256", style), "highlight")
}

// HighlightString is Highlight into a string; on failure src is returned
// unchanged.
func HighlightString(src []byte, style string) string {
	var b strings.Builder
	if err := Highlight(&b, src, style); err != nil {
		return string(src)
	}
	return b.String()
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	return data, errors.Wrap(err, "marshal")
}
