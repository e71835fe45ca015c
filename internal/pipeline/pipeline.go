// Package pipeline orchestrates retrieval: search for PMIDs, fetch each
// paper's summary and detail payloads, parse and classify them, and keep the
// papers with pharma-affiliated authors.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pubmed-cli/internal/classify"
	"github.com/sells-group/pubmed-cli/internal/model"
	"github.com/sells-group/pubmed-cli/internal/parser"
	"github.com/sells-group/pubmed-cli/internal/textutil"
	"github.com/sells-group/pubmed-cli/pkg/pubmed"
)

// Pipeline wires the E-utilities client to the record parser. One paper's
// fetch or parse failure is logged and skipped; it never aborts the batch.
type Pipeline struct {
	client      pubmed.Client
	parser      *parser.Parser
	concurrency int
	now         func() time.Time
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithConcurrency bounds the per-paper fetch worker pool. The client's shared
// rate limiter keeps the aggregate request rate within budget regardless.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithClock overrides the date-fallback clock (for tests).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline. Papers are fetched sequentially unless
// WithConcurrency raises the pool size.
func New(client pubmed.Client, classifier *classify.Classifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:      client,
		parser:      parser.New(classifier),
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search returns up to maxResults PMIDs for the query. A failed or
// undecodable search call is fatal to the query.
func (p *Pipeline) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	ids, err := p.client.Search(ctx, query, maxResults)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: search %q", query)
	}
	zap.L().Debug("search complete",
		zap.String("query", query),
		zap.Int("ids", len(ids)),
	)
	return ids, nil
}

// FetchAndClassify searches, fetches every result, and returns the papers
// with at least one pharma-affiliated author. Output order follows the
// search's identifier order even when papers are fetched concurrently. A
// query yielding zero pharma-affiliated papers is a normal empty result.
func (p *Pipeline) FetchAndClassify(ctx context.Context, query string, maxResults int) ([]model.Paper, error) {
	ids, err := p.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	// Index-addressed slots keep results in identifier order; failed slots
	// stay nil and are skipped below.
	fetched := make([]*model.Paper, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, pmid := range ids {
		g.Go(func() error {
			paper, err := p.fetchPaper(gctx, pmid)
			if err != nil {
				zap.L().Warn("skipping paper",
					zap.String("pmid", pmid),
					zap.Error(err),
				)
				return nil
			}
			fetched[i] = paper
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch batch")
	}

	var papers []model.Paper
	for _, paper := range fetched {
		if paper == nil {
			continue
		}
		if paper.HasPharmaAuthors() {
			papers = append(papers, *paper)
		}
	}

	zap.L().Info("fetch and classify complete",
		zap.String("query", query),
		zap.Int("searched", len(ids)),
		zap.Int("pharma_papers", len(papers)),
	)
	return papers, nil
}

// fetchPaper retrieves one paper's summary and detail payloads and builds
// the Paper entity.
func (p *Pipeline) fetchPaper(ctx context.Context, pmid string) (*model.Paper, error) {
	summary, err := p.client.Summary(ctx, pmid)
	if err != nil {
		return nil, eris.Wrapf(err, "summary %s", pmid)
	}
	detail, err := p.client.FetchDetail(ctx, pmid)
	if err != nil {
		return nil, eris.Wrapf(err, "detail %s", pmid)
	}
	return p.buildPaper(pmid, summary, detail), nil
}

// buildPaper composes parsed authors into the Paper entity. An unparseable
// or absent publication date falls back to the current date rather than
// failing the record.
func (p *Pipeline) buildPaper(pmid string, summary *pubmed.Summary, detail string) *model.Paper {
	pubDate, ok := textutil.ParseDate(summary.PubDate)
	if !ok {
		pubDate = p.now()
		zap.L().Debug("publication date fallback",
			zap.String("pmid", pmid),
			zap.String("pubdate", summary.PubDate),
		)
	}
	return &model.Paper{
		PubmedID:                 pmid,
		Title:                    textutil.Clean(summary.Title),
		PublicationDate:          pubDate,
		Authors:                  p.parser.ParseAuthors(detail),
		CorrespondingAuthorEmail: parser.CorrespondingEmail(detail),
	}
}
