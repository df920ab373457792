// Package frontmatter extracts the YAML metadata block prefacing a post body.
//
// A post starts with a `---` delimiter line at byte zero, followed by
// key/value metadata lines, followed by a closing `---` line. Split separates
// the two halves; ParseFields turns the metadata lines into typed fields,
// recovering per-line from unparseable entries.
package frontmatter

import (
	"bytes"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
)

// Style captures newline shape needed for stable rewriting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates the `---` delimited metadata block from the post body.
//
// Contract: the opening delimiter must sit at position zero (missing opener is
// a MalformedDocument error); an opener without a closer before end of input
// is UnterminatedMetadata. The body is returned with the block and both
// delimiters stripped, consuming exactly the newline that follows the closing
// delimiter.
func Split(content []byte, source string) (meta []byte, body []byte, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, style, ferrors.MalformedDocument(source)
	}

	metaStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[metaStart:], closeLine) {
		bodyStart := metaStart + len(closeLine)
		return []byte{}, content[bodyStart:], style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[metaStart:], closeSeq)
	if idx < 0 {
		// A close delimiter at the very end of input (no trailing newline)
		// still terminates the block.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			metaEnd := len(content) - len(tail) + len(nl)
			return content[metaStart:metaEnd], []byte{}, style, nil
		}
		return nil, nil, style, ferrors.UnterminatedMetadata(source)
	}

	metaEnd := metaStart + idx + len(nl)
	bodyStart := metaStart + idx + len(closeSeq)
	return content[metaStart:metaEnd], content[bodyStart:], style, nil
}

// Join reassembles a post from raw metadata and body using the captured style.
func Join(meta []byte, body []byte, style Style) []byte {
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(meta)+len(body))
	out = append(out, delim...)
	out = append(out, meta...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && content[len(content)-1] == '\n'

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
