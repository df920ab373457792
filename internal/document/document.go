// Package document defines the canonical post record and its builder.
//
// A Document is immutable once constructed: a content change produces a new
// Document value with the same identifier, which the corpus index replaces
// atomically.
package document

import (
	"fmt"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
	"git.home.luguber.info/inful/postforge/internal/frontmatter"
)

// UncategorizedLabel is the permalink category for posts without categories.
const UncategorizedLabel = "uncategorized"

// CategoryOrder selects the canonical ordering of a post's category labels.
type CategoryOrder string

const (
	// OrderInsertion preserves first-seen metadata order (default).
	OrderInsertion CategoryOrder = "insertion"
	// OrderAlphabetical sorts labels case-insensitively.
	OrderAlphabetical CategoryOrder = "alphabetical"
)

// Document is the canonical unit of content.
type Document struct {
	// Identifier is the derived permalink, unique within the corpus:
	// /<category>/<year>/<month>/<day>/<slug>/
	Identifier string

	Title       string
	PublishedAt time.Time

	// Categories holds normalized labels: trimmed, case-insensitively
	// de-duplicated, in canonical order.
	Categories []string

	// Layout is carried through from metadata for the delivery layer.
	Layout string

	// RawBody is the body after metadata removal, preserved for reprocessing.
	RawBody string

	// RenderedBody is the body after directive expansion. Regenerated from
	// RawBody whenever content or expansion rules change, never hand-edited.
	RenderedBody string

	// Source names where this document came from (file path or other caller
	// supplied handle). Two distinct sources resolving to one identifier are
	// a duplicate, not an update.
	Source string

	// Warnings collected while parsing this document (unparseable metadata
	// fields, unknown directives).
	Warnings []*ferrors.ForgeError
}

// dateLayouts accepted for the date metadata field, most specific first.
// The post format uses an ISO-like space-separated form with no 'T'.
var dateLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDate parses the date metadata value.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Builder constructs validated Documents from parsed metadata and bodies.
type Builder struct {
	order CategoryOrder
}

// NewBuilder returns a Builder using the given canonical category ordering.
func NewBuilder(order CategoryOrder) *Builder {
	if order == "" {
		order = OrderInsertion
	}
	return &Builder{order: order}
}

// Build combines metadata, the raw body, and the expanded body into a
// Document. It fails with InvalidDocument (carrying the sub-reason) rather
// than constructing a partially valid record.
func (b *Builder) Build(md frontmatter.Metadata, rawBody, renderedBody, source string) (*Document, error) {
	title := strings.TrimSpace(md.Title)
	if title == "" {
		return nil, ferrors.InvalidDocument("empty title", source)
	}

	publishedAt, err := ParseDate(md.Date)
	if err != nil {
		return nil, ferrors.InvalidDocumentWrap(err, "unparseable date", source)
	}

	categories := NormalizeCategories(md.Categories, b.order)

	slug := Slugify(md.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, ferrors.InvalidDocument("title produces an empty slug", source)
	}

	doc := &Document{
		Identifier:   Permalink(categories, publishedAt, slug),
		Title:        title,
		PublishedAt:  publishedAt,
		Categories:   categories,
		Layout:       md.Layout,
		RawBody:      rawBody,
		RenderedBody: renderedBody,
		Source:       source,
	}
	return doc, nil
}

// NormalizeCategories trims labels, drops empties, collapses case-insensitive
// duplicates keeping the first-seen spelling, and applies the canonical order.
func NormalizeCategories(labels []string, order CategoryOrder) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		key := strings.ToLower(label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	if order == OrderAlphabetical {
		sortFold(out)
	}
	return out
}

func sortFold(labels []string) {
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0 && strings.ToLower(labels[j]) < strings.ToLower(labels[j-1]); j-- {
			labels[j], labels[j-1] = labels[j-1], labels[j]
		}
	}
}

// Permalink derives the stable identifier. It is a pure function of the
// primary category (or "uncategorized"), the publication date, and the slug.
func Permalink(categories []string, publishedAt time.Time, slug string) string {
	category := UncategorizedLabel
	if len(categories) > 0 {
		category = Slugify(categories[0])
		if category == "" {
			category = UncategorizedLabel
		}
	}
	return fmt.Sprintf("/%s/%04d/%02d/%02d/%s/",
		category,
		publishedAt.Year(), int(publishedAt.Month()), publishedAt.Day(),
		slug)
}

// Summary is the listing projection consumed by the delivery layer.
type Summary struct {
	Identifier  string    `json:"identifier"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Categories  []string  `json:"categories"`
}

// Summarize projects a Document into its Summary.
func (d *Document) Summarize() Summary {
	return Summary{
		Identifier:  d.Identifier,
		Title:       d.Title,
		PublishedAt: d.PublishedAt,
		Categories:  append([]string(nil), d.Categories...),
	}
}
