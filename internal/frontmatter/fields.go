package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
)

// Field is one parsed metadata entry. Value is a string scalar or a []string
// sequence; nested structures are not part of the post format.
type Field struct {
	Key   string
	Value any
}

// Fields holds parsed metadata entries in source order.
type Fields []Field

// Get returns the value for key and whether it was present.
func (f Fields) Get(key string) (any, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value, true
		}
	}
	return nil, false
}

// String returns the scalar value for key, or "" when absent or non-scalar.
func (f Fields) String(key string) string {
	v, ok := f.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// ParseFields parses raw metadata lines (without delimiters) into Fields.
//
// Recognized forms per line:
//
//	key: value          scalar (quoting and inline [a, b] flow handled by YAML)
//	key:                opens a sequence; following "- item" lines belong to it
//	- item              sequence entry for the most recent open key
//
// Blank lines and comment lines are skipped. Any other line yields an
// UnparseableField warning and is dropped; parsing continues so a post can
// still render with partial metadata.
func ParseFields(meta []byte) (Fields, []*ferrors.ForgeError) {
	var fields Fields
	var warnings []*ferrors.ForgeError

	lines := strings.Split(string(meta), "\n")
	openSeq := -1 // index into fields of the sequence accepting "- item" lines

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if item, ok := strings.CutPrefix(trimmed, "- "); ok {
			if openSeq < 0 {
				warnings = append(warnings, ferrors.UnparseableField(i+1, line))
				continue
			}
			seq, _ := fields[openSeq].Value.([]string)
			fields[openSeq].Value = append(seq, decodeScalar(item))
			continue
		}

		key, rest, ok := strings.Cut(trimmed, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			warnings = append(warnings, ferrors.UnparseableField(i+1, line))
			openSeq = -1
			continue
		}

		rest = strings.TrimSpace(rest)
		if rest == "" {
			// "key:" opens a sequence populated by subsequent "- item" lines.
			fields = append(fields, Field{Key: key, Value: []string(nil)})
			openSeq = len(fields) - 1
			continue
		}
		openSeq = -1

		if strings.HasPrefix(rest, "[") {
			var seq []string
			if err := yaml.Unmarshal([]byte(rest), &seq); err != nil {
				warnings = append(warnings, ferrors.UnparseableField(i+1, line))
				continue
			}
			fields = append(fields, Field{Key: key, Value: seq})
			continue
		}

		fields = append(fields, Field{Key: key, Value: decodeScalar(rest)})
	}

	return fields, warnings
}

// decodeScalar resolves YAML quoting on a scalar value. Values that fail to
// decode (stray quotes etc.) are kept verbatim rather than dropped.
func decodeScalar(raw string) string {
	var s string
	if err := yaml.Unmarshal([]byte(raw), &s); err != nil {
		return raw
	}
	return s
}
