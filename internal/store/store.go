// Package store persists search history: every completed query and the
// exported paper records it produced, in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/pubmed-cli/internal/model"
)

// Search is one recorded query.
type Search struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	MaxResults int       `json:"max_results"`
	Found      int       `json:"found"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store wraps the history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS searches (
	id          TEXT PRIMARY KEY,
	query       TEXT NOT NULL,
	max_results INTEGER NOT NULL,
	found       INTEGER NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS papers (
	search_id            TEXT NOT NULL REFERENCES searches(id),
	pubmed_id            TEXT NOT NULL,
	title                TEXT NOT NULL,
	publication_date     TEXT NOT NULL,
	non_academic_authors TEXT NOT NULL,
	company_affiliations TEXT NOT NULL,
	corresponding_email  TEXT NOT NULL,
	PRIMARY KEY (search_id, pubmed_id)
);

CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches(created_at);
CREATE INDEX IF NOT EXISTS idx_papers_search_id ON papers(search_id);
`

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSearch records a completed query and its exported records, returning
// the new search ID.
func (s *Store) SaveSearch(ctx context.Context, query string, maxResults int, papers []model.Paper) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "store: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO searches (id, query, max_results, found, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, query, maxResults, len(papers), now,
	)
	if err != nil {
		return "", eris.Wrap(err, "store: insert search")
	}

	for _, p := range papers {
		rec := p.Record()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO papers (search_id, pubmed_id, title, publication_date, non_academic_authors, company_affiliations, corresponding_email)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, rec.PubmedID, rec.Title, rec.PublicationDate, rec.NonAcademicAuthors, rec.CompanyAffiliations, rec.CorrespondingEmail,
		)
		if err != nil {
			return "", eris.Wrapf(err, "store: insert paper %s", rec.PubmedID)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "store: commit")
	}
	return id, nil
}

// RecentSearches lists the most recent recorded queries, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]Search, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, max_results, found, created_at FROM searches ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list searches")
	}
	defer rows.Close()

	var searches []Search
	for rows.Next() {
		var sr Search
		if err := rows.Scan(&sr.ID, &sr.Query, &sr.MaxResults, &sr.Found, &sr.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan search")
		}
		searches = append(searches, sr)
	}
	return searches, eris.Wrap(rows.Err(), "store: list searches iterate")
}

// Records returns the exported paper records of one recorded search.
func (s *Store) Records(ctx context.Context, searchID string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pubmed_id, title, publication_date, non_academic_authors, company_affiliations, corresponding_email
		 FROM papers WHERE search_id = ? ORDER BY pubmed_id`,
		searchID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "store: records for %s", searchID)
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.PubmedID, &r.Title, &r.PublicationDate, &r.NonAcademicAuthors, &r.CompanyAffiliations, &r.CorrespondingEmail); err != nil {
			return nil, eris.Wrap(err, "store: scan record")
		}
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "store: records iterate")
}
