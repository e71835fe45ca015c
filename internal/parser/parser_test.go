package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pubmed-cli/internal/classify"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	return New(classify.Default())
}

const twoAuthorPayload = `
<PubmedArticle>
  <AuthorList>
    <Author>
      <LastName>Chen</LastName>
      <ForeName>Wei</ForeName>
      <AffiliationInfo>
        <Affiliation>Harvard University, Boston, MA, USA</Affiliation>
      </AffiliationInfo>
    </Author>
    <Author>
      <LastName>Alvarez</LastName>
      <ForeName>Maria</ForeName>
      <AffiliationInfo>
        <Affiliation>Novartis Pharmaceuticals, Inc., East Hanover, NJ. maria.alvarez@novartis.com</Affiliation>
      </AffiliationInfo>
      <Email>maria.alvarez@novartis.com</Email>
    </Author>
  </AuthorList>
</PubmedArticle>`

func TestParseAuthorsTwoBlocks(t *testing.T) {
	t.Parallel()
	p := newParser(t)

	authors := p.ParseAuthors(twoAuthorPayload)
	require.Len(t, authors, 2)

	assert.Equal(t, "Wei Chen", authors[0].Name)
	require.Len(t, authors[0].Affiliations, 1)
	assert.True(t, authors[0].Affiliations[0].IsAcademic)
	assert.Empty(t, authors[0].Email)

	assert.Equal(t, "Maria Alvarez", authors[1].Name)
	require.Len(t, authors[1].Affiliations, 1)
	assert.False(t, authors[1].Affiliations[0].IsAcademic)
	assert.Equal(t, "Novartis Pharmaceuticals", authors[1].Affiliations[0].CompanyName)
	assert.Equal(t, "maria.alvarez@novartis.com", authors[1].Email)
}

func TestParseAuthorsStrategyFallback(t *testing.T) {
	t.Parallel()
	p := newParser(t)

	// No plain <Author> blocks; the attributed strategy must pick these up.
	payload := `
<Author ValidYN="Y"><LastName>Okafor</LastName><ForeName>Ada</ForeName></Author>
<Author ValidYN="Y"><LastName>Ruiz</LastName><ForeName>Carlos</ForeName></Author>`

	authors := p.ParseAuthors(payload)
	require.Len(t, authors, 2)
	assert.Equal(t, "Ada Okafor", authors[0].Name)
	assert.Equal(t, "Carlos Ruiz", authors[1].Name)
}

func TestParseAuthorsLoosestStrategy(t *testing.T) {
	t.Parallel()
	p := newParser(t)

	// Odd attribute shape only the loosest strategy matches.
	payload := `<Author EqualContrib="Y"><CollectiveName>The ORION Study Group</CollectiveName></Author>`

	authors := p.ParseAuthors(payload)
	require.Len(t, authors, 1)
	assert.Equal(t, "The ORION Study Group", authors[0].Name)
}

func TestAuthorNamePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block string
		want  string
	}{
		{"given and family", "<ForeName>Jane</ForeName><LastName>Doe</LastName>", "Jane Doe"},
		{"family only", "<LastName>Doe</LastName>", "Doe"},
		{"given only", "<ForeName>Jane</ForeName>", "Jane"},
		{"collective", "<CollectiveName>COVID Consortium</CollectiveName>", "COVID Consortium"},
		{"stripped fallback", "<Unknown>J. Doe</Unknown>", "J. Doe"},
		{"empty block", "<Unknown></Unknown>", ""},
		{"over 100 chars dropped", "<Unknown>" + strings.Repeat("x", 120) + "</Unknown>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, authorName(tt.block))
		})
	}
}

func TestParseAuthorsDropsNamelessBlocks(t *testing.T) {
	t.Parallel()
	p := newParser(t)

	payload := `<Author><LastName>Kept</LastName></Author><Author>` + strings.Repeat("<i>xy</i>", 60) + `</Author>`
	authors := p.ParseAuthors(payload)
	require.Len(t, authors, 1)
	assert.Equal(t, "Kept", authors[0].Name)
}

func TestParseAffiliationsCollectsAllPatterns(t *testing.T) {
	t.Parallel()
	p := newParser(t)

	// A wrapped affiliation, a bare one, and an attributed one; the wrapped
	// text must not be double-counted by the bare pattern.
	payload := `<Author>
  <LastName>Singh</LastName>
  <AffiliationInfo><Affiliation>Stanford University School of Medicine</Affiliation></AffiliationInfo>
  <Affiliation>Genentech, South San Francisco, CA</Affiliation>
  <Affiliation Source="ORCID">Moderna Therapeutics, Cambridge</Affiliation>
</Author>`

	authors := p.ParseAuthors(payload)
	require.Len(t, authors, 1)
	affs := authors[0].Affiliations
	require.Len(t, affs, 3)

	names := []string{affs[0].Name, affs[1].Name, affs[2].Name}
	assert.Contains(t, names, "Stanford University School of Medicine")
	assert.Contains(t, names, "Genentech, South San Francisco, CA")
	assert.Contains(t, names, "Moderna Therapeutics, Cambridge")
}

func TestParseAffiliationsDropsShortResults(t *testing.T) {
	t.Parallel()
	p := newParser(t)

	payload := `<Author><LastName>Lee</LastName><Affiliation>USA</Affiliation><Affiliation>  <b> </b> </Affiliation></Author>`
	authors := p.ParseAuthors(payload)
	require.Len(t, authors, 1)
	assert.Empty(t, authors[0].Affiliations)
}

func TestCorrespondingEmail(t *testing.T) {
	t.Parallel()

	explicit := `<x>first@other.org</x><CorrespondingAuthorEmail>corr@pfizer.com</CorrespondingAuthorEmail>`
	assert.Equal(t, "corr@pfizer.com", CorrespondingEmail(explicit))

	fallback := `<Affiliation>Acme Inc. alice@acme.com</Affiliation><Email>bob@acme.com</Email>`
	assert.Equal(t, "alice@acme.com", CorrespondingEmail(fallback))

	assert.Equal(t, "", CorrespondingEmail("<Author><LastName>Doe</LastName></Author>"))
}

func TestParseAuthorsEmptyPayload(t *testing.T) {
	t.Parallel()
	p := newParser(t)
	assert.Empty(t, p.ParseAuthors(""))
	assert.Empty(t, p.ParseAuthors("no markup at all"))
}
