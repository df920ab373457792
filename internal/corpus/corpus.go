// Package corpus owns the full document set and its derived indexes.
//
// The corpus is the single source of truth: category buckets are a
// materialized view over the document set, maintained incrementally under one
// writer lock so no reader ever observes a half-applied upsert. Corpora are
// explicitly constructed values, never process-wide state, so tests can hold
// several independent ones.
package corpus

import (
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/postforge/internal/document"
	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
	"git.home.luguber.info/inful/postforge/internal/util/sets"
)

// Corpus maintains all documents plus category and chronological indexes.
type Corpus struct {
	mu sync.RWMutex

	docs map[string]*document.Document

	// order holds every identifier sorted by descending PublishedAt,
	// ties broken by ascending identifier.
	order []string

	// buckets maps a normalized category label to identifiers in the same
	// order discipline. Documents without categories live in the
	// "uncategorized" bucket so the union of buckets always equals order.
	buckets map[string][]string
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{
		docs:    make(map[string]*document.Document),
		buckets: make(map[string][]string),
	}
}

// Upsert inserts doc or atomically replaces the prior record with the same
// identifier, re-bucketing for any category changes.
//
// A different source claiming an existing identifier is a collision: the call
// fails with DuplicateIdentifier and the corpus keeps the first document.
func (c *Corpus) Upsert(doc *document.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.docs[doc.Identifier]; ok {
		if existing.Source != doc.Source {
			return ferrors.DuplicateIdentifier(doc.Identifier, doc.Source, existing.Source)
		}
		c.evictLocked(existing)
	}

	c.docs[doc.Identifier] = doc
	c.order = insertOrdered(c.order, c.docs, doc)
	for _, label := range bucketLabels(doc) {
		c.buckets[label] = insertOrdered(c.buckets[label], c.docs, doc)
	}
	return nil
}

// Remove deletes the document from every index. Removing a nonexistent
// identifier is a no-op, not an error.
func (c *Corpus) Remove(identifier string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[identifier]
	if !ok {
		return
	}
	c.evictLocked(doc)
	delete(c.docs, identifier)
}

// RemoveBySource deletes every document whose Source matches. Used by watch
// mode when a source file disappears.
func (c *Corpus) RemoveBySource(source string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []string
	for id, doc := range c.docs {
		if doc.Source == source {
			c.evictLocked(doc)
			delete(c.docs, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Get returns the document for identifier, if present.
func (c *Corpus) Get(identifier string) (*document.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[identifier]
	return doc, ok
}

// All returns every document in reverse chronological order.
func (c *Corpus) All() []*document.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collectLocked(c.order)
}

// ByCategory returns the documents belonging to label, most recent first.
// Lookup is case-insensitive over the normalized label.
func (c *Corpus) ByCategory(label string) []*document.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collectLocked(c.buckets[normalizeLabel(label)])
}

// Categories returns the sorted set of known normalized category labels.
func (c *Corpus) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	labels := sets.New[string]()
	for label, ids := range c.buckets {
		if len(ids) > 0 {
			labels.Add(label)
		}
	}
	out := labels.Values()
	sort.Strings(out)
	return out
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func (c *Corpus) collectLocked(ids []string) []*document.Document {
	out := make([]*document.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := c.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// evictLocked removes doc from the chronological index and all its buckets.
func (c *Corpus) evictLocked(doc *document.Document) {
	c.order = removeID(c.order, doc.Identifier)
	for _, label := range bucketLabels(doc) {
		c.buckets[label] = removeID(c.buckets[label], doc.Identifier)
		if len(c.buckets[label]) == 0 {
			delete(c.buckets, label)
		}
	}
}

// bucketLabels returns the normalized bucket keys doc belongs to.
func bucketLabels(doc *document.Document) []string {
	if len(doc.Categories) == 0 {
		return []string{document.UncategorizedLabel}
	}
	out := make([]string, 0, len(doc.Categories))
	for _, label := range doc.Categories {
		out = append(out, normalizeLabel(label))
	}
	return out
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// insertOrdered inserts doc's identifier at its sorted position: descending
// PublishedAt, ascending identifier on ties.
func insertOrdered(ids []string, docs map[string]*document.Document, doc *document.Document) []string {
	pos := sort.Search(len(ids), func(i int) bool {
		other := docs[ids[i]]
		if !other.PublishedAt.Equal(doc.PublishedAt) {
			return other.PublishedAt.Before(doc.PublishedAt)
		}
		return other.Identifier >= doc.Identifier
	})
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = doc.Identifier
	return ids
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
