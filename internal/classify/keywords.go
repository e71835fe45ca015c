package classify

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Category labels a keyword's classification direction.
type Category string

const (
	// CategoryCommercial keywords mark an affiliation as a company.
	CategoryCommercial Category = "commercial"
	// CategoryAcademic keywords mark an affiliation as an institution.
	CategoryAcademic Category = "academic"
)

// Rule pairs a keyword with its category. Keywords are matched
// case-insensitively on word boundaries.
type Rule struct {
	Keyword  string   `yaml:"keyword"`
	Category Category `yaml:"category"`
}

// KeywordTable is the classification policy: an ordered list of rules.
// Commercial rules always take precedence over academic ones regardless of
// their position in the table.
type KeywordTable []Rule

// DefaultKeywordTable returns the built-in classification policy.
func DefaultKeywordTable() KeywordTable {
	table := KeywordTable{}
	for _, kw := range []string{
		"pharmaceuticals", "pharmaceutical", "pharma", "biotech",
		"biotechnology", "biosciences", "therapeutics", "diagnostics",
		"vaccines", "inc", "corp", "corporation", "ltd", "limited", "llc",
		"gmbh", "company", "consulting", "consultants",
	} {
		table = append(table, Rule{Keyword: kw, Category: CategoryCommercial})
	}
	for _, kw := range []string{
		"university", "college", "institute", "school", "academy",
		"medical center", "hospital", "clinic", "research center",
		"laboratory", "lab", "department", "faculty", "professor",
		"associate professor", "assistant professor", "lecturer",
		"researcher", "scientist", "phd", "postdoc", "postdoctoral",
	} {
		table = append(table, Rule{Keyword: kw, Category: CategoryAcademic})
	}
	return table
}

// keywordFile is the on-disk shape of a keyword policy override.
type keywordFile struct {
	Keywords []Rule `yaml:"keywords"`
}

// LoadKeywordTable reads a keyword policy from a YAML file of the form:
//
//	keywords:
//	  - keyword: pharmaceuticals
//	    category: commercial
//	  - keyword: university
//	    category: academic
func LoadKeywordTable(path string) (KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "classify: read keyword file")
	}
	var f keywordFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "classify: parse keyword file")
	}
	if len(f.Keywords) == 0 {
		return nil, eris.Errorf("classify: keyword file %s has no keywords", path)
	}
	for _, r := range f.Keywords {
		if r.Category != CategoryCommercial && r.Category != CategoryAcademic {
			return nil, eris.Errorf("classify: keyword %q has unknown category %q", r.Keyword, r.Category)
		}
	}
	return KeywordTable(f.Keywords), nil
}
