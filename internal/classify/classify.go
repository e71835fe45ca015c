// Package classify decides whether an affiliation string names an academic
// institution or a commercial organization, and extracts a normalized company
// name for the commercial case. Classification policy is a keyword table
// injected at construction, so it can be tuned without code changes.
package classify

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pubmed-cli/internal/model"
	"github.com/sells-group/pubmed-cli/internal/textutil"
)

// Classifier classifies affiliation strings against a compiled keyword table.
// Commercial keywords short-circuit: a string matching both keyword sets is
// commercial. Strings matching neither set are treated as commercial.
type Classifier struct {
	commercial []*regexp.Regexp
	academic   []*regexp.Regexp
}

// New compiles the keyword table into a Classifier. Keywords match
// case-insensitively on word boundaries, so "inc" flags "Pfizer Inc." but not
// "Princeton".
func New(table KeywordTable) (*Classifier, error) {
	if len(table) == 0 {
		return nil, eris.New("classify: empty keyword table")
	}
	c := &Classifier{}
	for _, rule := range table {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(rule.Keyword) + `\b`)
		if err != nil {
			return nil, eris.Wrapf(err, "classify: compile keyword %q", rule.Keyword)
		}
		switch rule.Category {
		case CategoryCommercial:
			c.commercial = append(c.commercial, re)
		case CategoryAcademic:
			c.academic = append(c.academic, re)
		default:
			return nil, eris.Errorf("classify: keyword %q has unknown category %q", rule.Keyword, rule.Category)
		}
	}
	return c, nil
}

// Default returns a Classifier built from the built-in keyword table.
func Default() *Classifier {
	c, err := New(DefaultKeywordTable())
	if err != nil {
		panic(err) // the built-in table always compiles
	}
	return c
}

// IsAcademic reports whether the affiliation text looks academic. Empty input
// is not academic.
func (c *Classifier) IsAcademic(affiliation string) bool {
	if affiliation == "" {
		return false
	}
	for _, re := range c.commercial {
		if re.MatchString(affiliation) {
			return false
		}
	}
	for _, re := range c.academic {
		if re.MatchString(affiliation) {
			return true
		}
	}
	for _, email := range textutil.ExtractEmails(affiliation) {
		if strings.HasSuffix(strings.ToLower(email), ".edu") {
			return true
		}
	}
	return false
}

// honorificPrefixes are stripped from the start of an affiliation before
// company-name extraction, longest first.
var honorificPrefixes = []string{
	"Associate Professor", "Assistant Professor", "Professor", "Prof.", "Dr.",
}

// companySuffixPatterns are tried in order against the cleaned affiliation;
// the first match wins. Each captures one or more capitalized words followed
// by a company-type suffix.
var companySuffixPatterns = buildSuffixPatterns([]string{
	`Consultants`, `Consulting`, `Pharmaceuticals`, `Pharma`, `Inc\.?`,
	`Corporation`, `Corp\.?`, `Limited`, `Ltd\.?`, `Company`, `Therapeutics`,
	`Biotech`, `Biosciences`, `Diagnostics`, `Vaccines`, `LLC`, `GmbH`,
})

func buildSuffixPatterns(suffixes []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(suffixes))
	for _, s := range suffixes {
		patterns = append(patterns, regexp.MustCompile(`((?:[A-Z][\w&'-]*\s+)+(?:`+s+`))(?:$|[^\w.])`))
	}
	return patterns
}

// countryTokens are bare region names never returned as a company name by the
// comma-split fallback.
var countryTokens = map[string]struct{}{
	"usa": {}, "us": {}, "u.s.a": {}, "united states": {}, "uk": {},
	"united kingdom": {}, "australia": {}, "canada": {}, "germany": {},
	"france": {}, "india": {}, "china": {}, "japan": {}, "switzerland": {},
	"europe": {},
}

// CompanyName extracts a normalized company name from a non-academic
// affiliation. Returns "" when no confident extraction is possible; callers
// treat that as "commercial but name unknown", not as an error.
func (c *Classifier) CompanyName(affiliation string) string {
	if affiliation == "" {
		return ""
	}

	cleaned := affiliation
	for _, email := range textutil.ExtractEmails(cleaned) {
		cleaned = strings.ReplaceAll(cleaned, email, "")
	}
	for _, prefix := range honorificPrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}
	cleaned = strings.Trim(textutil.Clean(cleaned), ", ")
	if cleaned == "" {
		return ""
	}

	for _, re := range companySuffixPatterns {
		if m := re.FindStringSubmatch(cleaned); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	// "Name, Company, City" shaped input: assume the first segment is the
	// organization when no suffix pattern fired.
	if first, _, ok := strings.Cut(cleaned, ","); ok {
		first = strings.TrimSpace(first)
		if len(first) > 3 {
			if _, country := countryTokens[strings.ToLower(first)]; !country {
				return first
			}
		}
	}

	if len(cleaned) > 3 && len(cleaned) < 50 {
		return cleaned
	}
	return ""
}

// Classify turns one cleaned affiliation string into an Affiliation record.
func (c *Classifier) Classify(affiliation string) model.Affiliation {
	aff := model.Affiliation{Name: affiliation}
	aff.IsAcademic = c.IsAcademic(affiliation)
	if !aff.IsAcademic {
		aff.CompanyName = c.CompanyName(affiliation)
	}
	return aff
}
