// Package pipeline orchestrates the per-document render stages over the
// corpus index.
//
// Data flows one direction: raw text -> metadata/body -> expanded body ->
// canonical document -> indexed corpus -> query results. On any stage failure
// no partial document is committed: for that document the corpus either
// reflects exactly one consistent new or updated record, or is left untouched.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/postforge/internal/corpus"
	"git.home.luguber.info/inful/postforge/internal/directive"
	"git.home.luguber.info/inful/postforge/internal/document"
	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
	"git.home.luguber.info/inful/postforge/internal/frontmatter"
	"git.home.luguber.info/inful/postforge/internal/logfields"
	"git.home.luguber.info/inful/postforge/internal/metrics"
	"git.home.luguber.info/inful/postforge/internal/observability"
)

// Stage names used in logs and metrics.
const (
	StageParse  = "parse"
	StageExpand = "expand"
	StageBuild  = "build"
	StageIndex  = "index"
)

const highlightFigure = `<figure class="highlight">`

// Source is one raw post handed to the pipeline. File and network access
// happen before this point; the render stages themselves never block on I/O.
type Source struct {
	// Name identifies where the content came from (usually a file path).
	// It doubles as the update identity: re-rendering the same name replaces
	// the prior record, while a different name claiming the same permalink
	// is a duplicate.
	Name    string
	Content []byte
}

// Result is the outcome of rendering one source.
type Result struct {
	Document *document.Document
	Warnings []*ferrors.ForgeError
}

// Pipeline wires the parse, expand, build, and index stages together.
type Pipeline struct {
	corpus   *corpus.Corpus
	store    *corpus.SQLiteStore
	builder  *document.Builder
	recorder metrics.Recorder
	workers  int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithStore attaches a SQLite store written through on every index mutation.
func WithStore(store *corpus.SQLiteStore) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(p *Pipeline) { p.recorder = rec }
}

// WithCategoryOrder sets the canonical category ordering policy.
func WithCategoryOrder(order document.CategoryOrder) Option {
	return func(p *Pipeline) { p.builder = document.NewBuilder(order) }
}

// WithWorkers bounds batch parallelism (0 means NumCPU).
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = n }
}

// New constructs a Pipeline over the given corpus.
func New(c *corpus.Corpus, opts ...Option) *Pipeline {
	p := &Pipeline{
		corpus:   c,
		builder:  document.NewBuilder(document.OrderInsertion),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers <= 0 {
		p.workers = runtime.NumCPU()
	}
	return p
}

// Render runs the full per-document pipeline for one source and commits the
// result to the corpus. The returned error carries the taxonomy code of the
// failing stage; the corpus is untouched on failure.
func (p *Pipeline) Render(ctx context.Context, src Source) (*Result, error) {
	ctx = observability.WithSource(ctx, src.Name)
	started := time.Now()

	parseStart := time.Now()
	meta, body, _, err := frontmatter.Split(src.Content, src.Name)
	if err != nil {
		return nil, p.fail(err)
	}
	fields, warnings := frontmatter.ParseFields(meta)
	md, err := frontmatter.ExtractMetadata(fields, src.Name)
	if err != nil {
		return nil, p.fail(err)
	}
	p.recorder.ObserveStageDuration(StageParse, time.Since(parseStart))

	// Expansion always starts from the raw body, never a prior expansion,
	// which is what keeps re-renders idempotent.
	expandStart := time.Now()
	rawBody := string(body)
	rendered, expandWarnings, err := directive.Expand(rawBody, src.Name)
	if err != nil {
		return nil, p.fail(err)
	}
	warnings = append(warnings, expandWarnings...)
	p.recorder.ObserveStageDuration(StageExpand, time.Since(expandStart))

	buildStart := time.Now()
	doc, err := p.builder.Build(md, rawBody, rendered, src.Name)
	if err != nil {
		return nil, p.fail(err)
	}
	doc.Warnings = warnings
	p.recorder.ObserveStageDuration(StageBuild, time.Since(buildStart))

	indexStart := time.Now()
	if err := p.commit(ctx, doc); err != nil {
		return nil, p.fail(err)
	}
	p.recorder.ObserveStageDuration(StageIndex, time.Since(indexStart))

	p.recorder.ObserveDocumentDuration(time.Since(started))
	expandedBlocks := strings.Count(rendered, highlightFigure) - strings.Count(rawBody, highlightFigure)
	for range expandedBlocks {
		p.recorder.IncDirectiveExpanded(directive.NameHighlight)
	}
	for _, w := range warnings {
		p.recorder.IncWarning(string(ferrors.GetCode(w)))
	}
	if len(warnings) > 0 {
		p.recorder.IncDocumentResult(metrics.ResultWarning)
	} else {
		p.recorder.IncDocumentResult(metrics.ResultRendered)
	}
	p.observeCorpus()

	observability.DebugContext(ctx, "Document rendered",
		logfields.Document(doc.Identifier),
		logfields.Warnings(len(warnings)),
		logfields.DurationMS(float64(time.Since(started).Milliseconds())))

	return &Result{Document: doc, Warnings: warnings}, nil
}

func (p *Pipeline) fail(err error) error {
	p.recorder.IncDocumentResult(metrics.ResultFailed)
	return err
}

// commit applies the upsert to the corpus and writes through to the store.
// A store failure rolls the corpus back to its prior state so the two never
// diverge.
func (p *Pipeline) commit(ctx context.Context, doc *document.Document) error {
	prior, hadPrior := p.corpus.Get(doc.Identifier)

	if err := p.corpus.Upsert(doc); err != nil {
		return err
	}
	if p.store == nil {
		return nil
	}

	if err := p.store.Save(ctx, doc); err != nil {
		if hadPrior {
			_ = p.corpus.Upsert(prior)
		} else {
			p.corpus.Remove(doc.Identifier)
		}
		return ferrors.InternalError("failed to persist document index", err).
			WithContext("identifier", doc.Identifier)
	}
	return nil
}

// Remove deletes a document from the corpus and the store. Removing an
// unknown identifier is a no-op.
func (p *Pipeline) Remove(ctx context.Context, identifier string) error {
	p.corpus.Remove(identifier)
	if p.store != nil {
		if err := p.store.Delete(ctx, identifier); err != nil {
			return ferrors.InternalError("failed to delete from document index", err).
				WithContext("identifier", identifier)
		}
	}
	p.observeCorpus()
	return nil
}

// RemoveBySource deletes every document rendered from source. Watch mode uses
// this when a file disappears.
func (p *Pipeline) RemoveBySource(ctx context.Context, source string) error {
	for _, id := range p.corpus.RemoveBySource(source) {
		if p.store != nil {
			if err := p.store.Delete(ctx, id); err != nil {
				return ferrors.InternalError("failed to delete from document index", err).
					WithContext("identifier", id)
			}
		}
	}
	p.observeCorpus()
	return nil
}

// Restore rebuilds the corpus from the attached store. Returns the number of
// documents loaded.
func (p *Pipeline) Restore(ctx context.Context) (int, error) {
	if p.store == nil {
		return 0, nil
	}
	docs, err := p.store.LoadAll(ctx)
	if err != nil {
		return 0, ferrors.InternalError("failed to load document index", err)
	}
	for _, doc := range docs {
		if err := p.corpus.Upsert(doc); err != nil {
			return 0, err
		}
	}
	p.observeCorpus()
	return len(docs), nil
}

func (p *Pipeline) observeCorpus() {
	p.recorder.SetCorpusSize(p.corpus.Len())
	p.recorder.SetCategoryCount(len(p.corpus.Categories()))
}

// ListAll returns summaries of every indexed document, most recent first.
func (p *Pipeline) ListAll() []document.Summary {
	return summarize(p.corpus.All())
}

// ListByCategory returns summaries for one category, most recent first.
func (p *Pipeline) ListByCategory(label string) []document.Summary {
	return summarize(p.corpus.ByCategory(label))
}

// Categories returns the sorted labels present in the index.
func (p *Pipeline) Categories() []string {
	return p.corpus.Categories()
}

func summarize(docs []*document.Document) []document.Summary {
	out := make([]document.Summary, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Summarize())
	}
	return out
}

// BatchReport summarizes a RenderBatch run.
type BatchReport struct {
	BatchID  string
	Rendered int
	Failed   int
	Warnings int
	Results  []*Result
	Failures []SourceError
}

// SourceError pairs a failed source with its error.
type SourceError struct {
	Source string
	Err    error
}

// RenderBatch renders sources in parallel. Per-document parsing and expansion
// share no mutable state; the corpus serializes index mutations internally.
// A failing document never aborts the rest of the batch.
func (p *Pipeline) RenderBatch(ctx context.Context, sources []Source) *BatchReport {
	report := &BatchReport{BatchID: uuid.NewString()}
	ctx = observability.WithBatchID(ctx, report.BatchID)

	observability.InfoContext(ctx, "Rendering batch", slog.Int("sources", len(sources)))

	jobs := make(chan Source)
	var mu sync.Mutex
	var group WorkerGroup

	for range p.workers {
		group.Go(func() {
			for src := range jobs {
				res, err := p.Render(ctx, src)

				mu.Lock()
				if err != nil {
					report.Failed++
					report.Failures = append(report.Failures, SourceError{Source: src.Name, Err: err})
					mu.Unlock()
					observability.ErrorContext(ctx, "Document failed",
						logfields.Source(src.Name), logfields.Error(err))
					continue
				}
				report.Rendered++
				report.Warnings += len(res.Warnings)
				report.Results = append(report.Results, res)
				mu.Unlock()
			}
		})
	}

	for _, src := range sources {
		select {
		case jobs <- src:
		case <-ctx.Done():
			close(jobs)
			_ = group.StopAndWait(context.Background())
			return report
		}
	}
	close(jobs)
	_ = group.StopAndWait(context.Background())

	observability.InfoContext(ctx, "Batch complete",
		slog.Int("rendered", report.Rendered),
		slog.Int("failed", report.Failed),
		logfields.Warnings(report.Warnings))
	return report
}
