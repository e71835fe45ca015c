// Package export writes paper records to their consumers: an aligned console
// listing, a CSV file, or an in-memory CSV string for the web front-end. All
// exporters share the six-field record shape from the model package.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/pubmed-cli/internal/model"
)

func records(papers []model.Paper) []model.Record {
	recs := make([]model.Record, 0, len(papers))
	for _, p := range papers {
		recs = append(recs, p.Record())
	}
	return recs
}

// CSVBytes renders the papers as CSV with the six-column header.
func CSVBytes(papers []model.Paper) ([]byte, error) {
	out, err := csvutil.Marshal(records(papers))
	if err != nil {
		return nil, eris.Wrap(err, "export: marshal csv")
	}
	return out, nil
}

// WriteCSV writes the papers to a CSV file at path.
func WriteCSV(papers []model.Paper, path string) error {
	out, err := CSVBytes(papers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// CSVString renders the papers as a CSV string.
func CSVString(papers []model.Paper) (string, error) {
	out, err := CSVBytes(papers)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(out, "\n")) + "\n", nil
}

// RecordsCSVString renders already-built records as a CSV string. Used when
// papers come back out of the history store rather than from a live fetch.
func RecordsCSVString(recs []model.Record) (string, error) {
	out, err := csvutil.Marshal(recs)
	if err != nil {
		return "", eris.Wrap(err, "export: marshal csv")
	}
	return string(bytes.TrimRight(out, "\n")) + "\n", nil
}

// WriteConsole prints a human-readable listing of the papers.
func WriteConsole(w io.Writer, papers []model.Paper) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers found with pharmaceutical/biotech affiliations.")
		return
	}

	fmt.Fprintf(w, "Found %d papers with pharmaceutical/biotech affiliations:\n\n", len(papers))
	for i, p := range papers {
		rec := p.Record()
		email := rec.CorrespondingEmail
		if email == "" {
			email = "N/A"
		}
		fmt.Fprintf(w, "Paper %d:\n", i+1)
		fmt.Fprintf(w, "  PubmedID: %s\n", rec.PubmedID)
		fmt.Fprintf(w, "  Title: %s\n", rec.Title)
		fmt.Fprintf(w, "  Publication Date: %s\n", rec.PublicationDate)
		fmt.Fprintf(w, "  Non-academic Author(s): %s\n", rec.NonAcademicAuthors)
		fmt.Fprintf(w, "  Company Affiliation(s): %s\n", rec.CompanyAffiliations)
		fmt.Fprintf(w, "  Corresponding Author Email: %s\n", email)
		fmt.Fprintln(w)
	}
}
