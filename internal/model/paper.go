// Package model defines the entities produced by a retrieval pass: papers,
// their authors, and each author's classified affiliations. Entities are
// constructed once and read-only afterward.
package model

import (
	"strings"
	"time"
)

// Affiliation is a single author's stated organizational association.
// CompanyName is set only when the affiliation is non-academic, and may be
// empty even then when no confident extraction was possible.
type Affiliation struct {
	Name        string `json:"name"`
	IsAcademic  bool   `json:"is_academic"`
	CompanyName string `json:"company_name,omitempty"`
}

// Author is a paper author with an ordered list of classified affiliations.
// Name is never empty; blocks yielding no name are dropped during parsing.
type Author struct {
	Name         string        `json:"name"`
	Email        string        `json:"email,omitempty"`
	Affiliations []Affiliation `json:"affiliations"`
}

// HasPharmaAffiliation reports whether any affiliation is non-academic.
func (a Author) HasPharmaAffiliation() bool {
	for _, aff := range a.Affiliations {
		if !aff.IsAcademic {
			return true
		}
	}
	return false
}

// PharmaCompanies returns the company names of all non-academic affiliations
// in affiliation order. Duplicates are allowed at this level.
func (a Author) PharmaCompanies() []string {
	var companies []string
	for _, aff := range a.Affiliations {
		if !aff.IsAcademic && aff.CompanyName != "" {
			companies = append(companies, aff.CompanyName)
		}
	}
	return companies
}

// Paper is a single retrieved research paper.
type Paper struct {
	PubmedID                  string    `json:"pubmed_id"`
	Title                     string    `json:"title"`
	PublicationDate           time.Time `json:"publication_date"`
	Authors                   []Author  `json:"authors"`
	CorrespondingAuthorEmail  string    `json:"corresponding_author_email,omitempty"`
}

// HasPharmaAuthors reports whether any author has a non-academic affiliation.
func (p Paper) HasPharmaAuthors() bool {
	for _, a := range p.Authors {
		if a.HasPharmaAffiliation() {
			return true
		}
	}
	return false
}

// NonAcademicAuthors returns the names of authors with at least one
// non-academic affiliation, in author order. Names may repeat if the same
// name was parsed twice.
func (p Paper) NonAcademicAuthors() []string {
	var names []string
	for _, a := range p.Authors {
		if a.HasPharmaAffiliation() {
			names = append(names, a.Name)
		}
	}
	return names
}

// CompanyAffiliations returns the distinct company names across all authors.
// Order follows first appearance; the set is duplicate-free.
func (p Paper) CompanyAffiliations() []string {
	seen := make(map[string]struct{})
	var companies []string
	for _, a := range p.Authors {
		for _, c := range a.PharmaCompanies() {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			companies = append(companies, c)
		}
	}
	return companies
}

// Record is the stable six-field export shape consumed by every exporter.
// Column names and order are the output contract.
type Record struct {
	PubmedID           string `csv:"PubmedID" json:"pubmed_id"`
	Title              string `csv:"Title" json:"title"`
	PublicationDate    string `csv:"Publication Date" json:"publication_date"`
	NonAcademicAuthors string `csv:"Non-academic Author(s)" json:"non_academic_authors"`
	CompanyAffiliations string `csv:"Company Affiliation(s)" json:"company_affiliations"`
	CorrespondingEmail string `csv:"Corresponding Author Email" json:"corresponding_author_email"`
}

// Record flattens the paper into the six-field export shape. The publication
// date is ISO-formatted and list fields are semicolon-joined.
func (p Paper) Record() Record {
	return Record{
		PubmedID:            p.PubmedID,
		Title:               p.Title,
		PublicationDate:     p.PublicationDate.Format("2006-01-02"),
		NonAcademicAuthors:  strings.Join(p.NonAcademicAuthors(), "; "),
		CompanyAffiliations: strings.Join(p.CompanyAffiliations(), "; "),
		CorrespondingEmail:  p.CorrespondingAuthorEmail,
	}
}
