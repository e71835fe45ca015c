package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pubmed-cli/internal/classify"
	"github.com/sells-group/pubmed-cli/internal/config"
	"github.com/sells-group/pubmed-cli/internal/pipeline"
	"github.com/sells-group/pubmed-cli/internal/store"
	"github.com/sells-group/pubmed-cli/pkg/pubmed"
)

// env bundles the collaborators a command needs. History is nil when the
// store is disabled.
type env struct {
	Pipeline *pipeline.Pipeline
	History  *store.Store
}

// Close releases the env's resources.
func (e *env) Close() {
	if e.History != nil {
		_ = e.History.Close()
	}
}

// newClassifier builds the classifier from config: the built-in keyword
// table, or a yaml policy file when configured.
func newClassifier(cfg config.ClassifyConfig) (*classify.Classifier, error) {
	if cfg.KeywordsFile == "" {
		return classify.Default(), nil
	}
	table, err := classify.LoadKeywordTable(cfg.KeywordsFile)
	if err != nil {
		return nil, eris.Wrap(err, "load keyword table")
	}
	zap.L().Info("keyword policy loaded",
		zap.String("file", cfg.KeywordsFile),
		zap.Int("keywords", len(table)),
	)
	return classify.New(table)
}

// initEnv builds the pipeline and opens the history store.
func initEnv(ctx context.Context) (*env, error) {
	classifier, err := newClassifier(cfg.Classify)
	if err != nil {
		return nil, err
	}

	opts := []pubmed.Option{
		pubmed.WithBaseURL(cfg.PubMed.BaseURL),
		pubmed.WithRateLimit(cfg.PubMed.RatePerSecond, cfg.PubMed.RateBurst),
		pubmed.WithTool(cfg.PubMed.Tool, cfg.PubMed.Email),
		pubmed.WithTimeout(cfg.PubMed.Timeout()),
	}
	if cfg.PubMed.APIKey != "" {
		opts = append(opts, pubmed.WithAPIKey(cfg.PubMed.APIKey))
	}
	client := pubmed.NewClient(opts...)

	p := pipeline.New(client, classifier,
		pipeline.WithConcurrency(cfg.Fetch.Concurrency),
	)

	e := &env{Pipeline: p}
	if cfg.Store.Path != "" {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, eris.Wrap(err, "open store")
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		e.History = st
	}
	return e, nil
}
