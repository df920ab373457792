// Package directive expands embedded templating directives in post bodies.
//
// A directive is a `{% name arg %}` ... `{% endname %}` marker pair. The one
// expanded kind is the code display block (`highlight` with a language
// argument), which wraps its enclosed literal text in an HTML code container.
// Directive bodies are opaque: text inside them is never re-interpreted, even
// when it looks like a marker.
package directive

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
	"git.home.luguber.info/inful/postforge/internal/logfields"
)

const (
	openToken  = "{%"
	closeToken = "%}"
	endPrefix  = "end"

	// NameHighlight is the one directive kind that expands.
	NameHighlight = "highlight"
)

// state of the forward scan. Two states only: prose, or inside the body of an
// open directive waiting for its close marker.
type scanState int

const (
	inProse scanState = iota
	inDirectiveBody
)

// marker is one parsed `{% ... %}` occurrence.
type marker struct {
	name  string
	arg   string
	start int // byte offset of "{%"
	end   int // byte offset just past "%}"
}

// Expand scans body left to right and expands every known directive span.
//
// The scan is a single linear pass with an index cursor; there is no
// backtracking across directive boundaries. Unknown directive names pass
// through as literal text with a warning. An open marker of a known directive
// with no matching close is fatal, since passing raw marker text through would
// corrupt rendered output.
//
// Expansion is idempotent: expanded output never contains an open marker (the
// brace of any `{%` sequence inside emitted code containers is entity-escaped),
// so running Expand on its own output is a no-op.
func Expand(body, source string) (string, []*ferrors.ForgeError, error) {
	var out strings.Builder
	var warnings []*ferrors.ForgeError
	out.Grow(len(body))

	st := inProse
	var open marker
	i := 0

	for i < len(body) {
		rel := strings.Index(body[i:], openToken)
		if rel < 0 {
			if st == inDirectiveBody {
				return "", warnings, ferrors.UnterminatedDirective(open.name, open.start, source)
			}
			out.WriteString(body[i:])
			i = len(body)
			continue
		}
		at := i + rel

		m, ok := parseMarker(body, at)
		if !ok {
			// "{%" with no "%}" before end of input.
			if st == inDirectiveBody {
				return "", warnings, ferrors.UnterminatedDirective(open.name, open.start, source)
			}
			return "", warnings, ferrors.UnterminatedDirective(tokenAfter(body, at), at, source)
		}

		switch st {
		case inProse:
			out.WriteString(body[i:at])
			switch {
			case m.name == NameHighlight:
				open = m
				st = inDirectiveBody
				i = m.end
			case m.name == "" || strings.HasPrefix(m.name, endPrefix):
				// Empty marker or dangling close marker: literal passthrough.
				warnings = append(warnings, unknownDirective(m, source))
				out.WriteString(body[m.start:m.end])
				i = m.end
			default:
				// Unknown directive: pass the whole span through unexpanded
				// when a matching close exists, otherwise just the marker.
				warnings = append(warnings, unknownDirective(m, source))
				if close_, found := findClose(body, m.end, m.name); found {
					out.WriteString(body[m.start:close_.end])
					i = close_.end
				} else {
					out.WriteString(body[m.start:m.end])
					i = m.end
				}
			}
		case inDirectiveBody:
			if m.name == endPrefix+open.name {
				out.WriteString(renderCode(open.arg, body[open.end:m.start]))
				st = inProse
				i = m.end
			} else {
				// Marker-looking text inside a directive body is inert content.
				i = at + len(openToken)
			}
		}
	}

	if st == inDirectiveBody {
		return "", warnings, ferrors.UnterminatedDirective(open.name, open.start, source)
	}
	return out.String(), warnings, nil
}

// parseMarker parses the marker starting at the "{%" at offset start.
func parseMarker(body string, start int) (marker, bool) {
	rel := strings.Index(body[start+len(openToken):], closeToken)
	if rel < 0 {
		return marker{}, false
	}
	innerStart := start + len(openToken)
	inner := body[innerStart : innerStart+rel]
	end := innerStart + rel + len(closeToken)

	fields := strings.Fields(inner)
	m := marker{start: start, end: end}
	if len(fields) > 0 {
		m.name = fields[0]
	}
	if len(fields) > 1 {
		m.arg = strings.Join(fields[1:], " ")
	}
	return m, true
}

// findClose scans forward for the `{% end<name> %}` marker matching name.
// Text between markers stays unexamined; marker-looking fragments without a
// close token end the search.
func findClose(body string, from int, name string) (marker, bool) {
	want := endPrefix + name
	i := from
	for i < len(body) {
		rel := strings.Index(body[i:], openToken)
		if rel < 0 {
			return marker{}, false
		}
		m, ok := parseMarker(body, i+rel)
		if !ok {
			return marker{}, false
		}
		if m.name == want {
			return m, true
		}
		i = m.start + len(openToken)
	}
	return marker{}, false
}

// renderCode wraps literal directive content in the HTML code container.
//
// Content is HTML-escaped, and the brace of any remaining `{%` sequence is
// entity-escaped so re-expansion never sees an open marker. One leading
// newline (the one immediately after the open marker) is consumed.
func renderCode(arg, content string) string {
	lang := languageOf(arg)

	content = strings.TrimPrefix(content, "\r\n")
	if !strings.HasPrefix(content, "\r") {
		content = strings.TrimPrefix(content, "\n")
	}

	escaped := html.EscapeString(content)
	escaped = strings.ReplaceAll(escaped, "{%", "&#123;%")

	return fmt.Sprintf(
		"<figure class=\"highlight\"><pre><code class=\"language-%s\" data-lang=\"%s\">%s</code></pre></figure>",
		lang, lang, escaped)
}

// languageOf extracts the language tag from the directive argument, dropping
// extra options and anything that could break out of an HTML attribute.
func languageOf(arg string) string {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return "plaintext"
	}
	lang := strings.ToLower(fields[0])
	var b strings.Builder
	for _, r := range lang {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '+', r == '#', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "plaintext"
	}
	return b.String()
}

func unknownDirective(m marker, source string) *ferrors.ForgeError {
	name := m.name
	if name == "" {
		name = "(empty)"
	}
	slog.Warn("Unknown directive passed through unexpanded",
		logfields.Directive(name),
		logfields.Source(source))
	e := ferrors.New(ferrors.CategoryDirective, ferrors.SeverityWarning, "unknown directive passed through")
	e.Code = ferrors.CodeUnknownDirective
	return e.
		WithContext("directive", name).
		WithContext("offset", m.start).
		WithContext("source", source)
}

// tokenAfter returns the first token following an unterminated "{%", for error context.
func tokenAfter(body string, at int) string {
	rest := body[at+len(openToken):]
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "(empty)"
	}
	return fields[0]
}
