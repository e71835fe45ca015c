package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func academicAff(name string) Affiliation {
	return Affiliation{Name: name, IsAcademic: true}
}

func commercialAff(name, company string) Affiliation {
	return Affiliation{Name: name, IsAcademic: false, CompanyName: company}
}

func TestAuthorHasPharmaAffiliation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		author Author
		want   bool
	}{
		{"no affiliations", Author{Name: "A"}, false},
		{"academic only", Author{Name: "A", Affiliations: []Affiliation{academicAff("Harvard University")}}, false},
		{"commercial only", Author{Name: "A", Affiliations: []Affiliation{commercialAff("Pfizer Inc.", "Pfizer Inc.")}}, true},
		{"mixed", Author{Name: "A", Affiliations: []Affiliation{
			academicAff("Harvard University"),
			commercialAff("Pfizer Inc.", "Pfizer Inc."),
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.author.HasPharmaAffiliation())
		})
	}
}

func TestAuthorPharmaCompaniesPreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	a := Author{Name: "A", Affiliations: []Affiliation{
		commercialAff("Novartis", "Novartis"),
		academicAff("MIT"),
		commercialAff("Pfizer Inc.", "Pfizer Inc."),
		commercialAff("Novartis again", "Novartis"),
		{Name: "Unknown Org", IsAcademic: false}, // no confident company name
	}}

	assert.Equal(t, []string{"Novartis", "Pfizer Inc.", "Novartis"}, a.PharmaCompanies())
}

func TestPaperZeroAuthors(t *testing.T) {
	t.Parallel()

	p := Paper{PubmedID: "1", Title: "t"}
	assert.False(t, p.HasPharmaAuthors())
	assert.Empty(t, p.NonAcademicAuthors())
	assert.Empty(t, p.CompanyAffiliations())
}

func TestPaperCompanyAffiliationsDeduplicates(t *testing.T) {
	t.Parallel()

	p := Paper{
		PubmedID: "1",
		Authors: []Author{
			{Name: "A", Affiliations: []Affiliation{commercialAff("x", "Novartis")}},
			{Name: "B", Affiliations: []Affiliation{commercialAff("y", "Novartis")}},
			{Name: "C", Affiliations: []Affiliation{commercialAff("z", "Pfizer Inc.")}},
		},
	}

	assert.True(t, p.HasPharmaAuthors())
	assert.Equal(t, []string{"Novartis", "Pfizer Inc."}, p.CompanyAffiliations())
}

func TestPaperNonAcademicAuthorsAllowsDuplicateNames(t *testing.T) {
	t.Parallel()

	p := Paper{
		Authors: []Author{
			{Name: "Jane Doe", Affiliations: []Affiliation{commercialAff("x", "Acme Biotech")}},
			{Name: "John Roe", Affiliations: []Affiliation{academicAff("Yale University")}},
			{Name: "Jane Doe", Affiliations: []Affiliation{commercialAff("y", "Acme Biotech")}},
		},
	}

	assert.Equal(t, []string{"Jane Doe", "Jane Doe"}, p.NonAcademicAuthors())
}

func TestPaperRecord(t *testing.T) {
	t.Parallel()

	p := Paper{
		PubmedID:        "12345",
		Title:           "A Study",
		PublicationDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		Authors: []Author{
			{Name: "Jane Doe", Affiliations: []Affiliation{commercialAff("x", "Acme Biotech")}},
			{Name: "John Roe", Affiliations: []Affiliation{commercialAff("y", "Pfizer Inc.")}},
		},
		CorrespondingAuthorEmail: "jane@acme.com",
	}

	rec := p.Record()
	assert.Equal(t, "12345", rec.PubmedID)
	assert.Equal(t, "A Study", rec.Title)
	assert.Equal(t, "2023-06-01", rec.PublicationDate)
	assert.Equal(t, "Jane Doe; John Roe", rec.NonAcademicAuthors)
	assert.Equal(t, "Acme Biotech; Pfizer Inc.", rec.CompanyAffiliations)
	assert.Equal(t, "jane@acme.com", rec.CorrespondingEmail)
}

func TestPaperRecordEmptyFields(t *testing.T) {
	t.Parallel()

	p := Paper{PubmedID: "9", PublicationDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	rec := p.Record()
	assert.Equal(t, "", rec.NonAcademicAuthors)
	assert.Equal(t, "", rec.CompanyAffiliations)
	assert.Equal(t, "", rec.CorrespondingEmail)
}
