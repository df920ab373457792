package frontmatter

import (
	"strings"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
)

// Well-known post metadata keys.
const (
	KeyTitle      = "title"
	KeyDate       = "date"
	KeyCategories = "categories"
	KeySlug       = "slug"
	KeyLayout     = "layout"
)

// Metadata is the typed view over parsed fields that the document builder
// consumes. Date stays a raw string here; parsing and validation belong to
// the builder.
type Metadata struct {
	Title      string
	Date       string
	Categories []string
	Slug       string
	Layout     string
	Fields     Fields
}

// ExtractMetadata projects Fields into Metadata and enforces required fields.
//
// title and date are hard requirements. categories is optional and defaults
// to an empty sequence; a scalar categories value is treated as a whitespace
// separated set (the post format allows `categories: Rails` as well as a list).
func ExtractMetadata(fields Fields, source string) (Metadata, error) {
	md := Metadata{Fields: fields}

	md.Title = strings.TrimSpace(fields.String(KeyTitle))
	if _, ok := fields.Get(KeyTitle); !ok {
		return Metadata{}, ferrors.MissingRequiredField(KeyTitle, source)
	}

	md.Date = strings.TrimSpace(fields.String(KeyDate))
	if _, ok := fields.Get(KeyDate); !ok {
		return Metadata{}, ferrors.MissingRequiredField(KeyDate, source)
	}

	md.Slug = strings.TrimSpace(fields.String(KeySlug))
	md.Layout = strings.TrimSpace(fields.String(KeyLayout))
	md.Categories = categoriesFrom(fields)

	return md, nil
}

func categoriesFrom(fields Fields) []string {
	v, ok := fields.Get(KeyCategories)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case string:
		return strings.Fields(vv)
	default:
		return nil
	}
}
