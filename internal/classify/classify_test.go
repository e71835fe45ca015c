package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAcademic(t *testing.T) {
	t.Parallel()
	c := Default()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"university", "Harvard University", true},
		{"hospital", "Massachusetts General Hospital, Boston", true},
		{"company", "Pfizer Inc.", false},
		{"biotech", "Acme Biotech", false},
		{"therapeutics", "Lighthouse Therapeutics, San Diego", false},
		{"edu email no keyword", "jdoe@mit.edu", true},
		{"com email no keyword", "jdoe@gmail.com", false},
		{"unknown text defaults commercial", "42 Main Street", false},
		{"boundary not substring", "Princeton", false}, // "inc" must not match inside a word
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.IsAcademic(tt.in))
		})
	}
}

// A string containing both keyword sets is commercial: commercial keywords
// short-circuit.
func TestCommercialKeywordsTakePrecedence(t *testing.T) {
	t.Parallel()
	c := Default()

	both := []string{
		"University spin-off, Pfizer Inc.",
		"Novartis Pharmaceuticals and Harvard University joint program",
		"Department of Oncology, Acme Therapeutics",
	}
	for _, in := range both {
		assert.False(t, c.IsAcademic(in), in)
	}
}

func TestCompanyName(t *testing.T) {
	t.Parallel()
	c := Default()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"prefix and suffix pattern", "Dr. John Smith, Pfizer Inc.", "Pfizer Inc."},
		{"pharmaceuticals suffix", "Novartis Pharmaceuticals, Inc., East Hanover, NJ", "Novartis Pharmaceuticals"},
		{"therapeutics suffix", "Lighthouse Therapeutics, San Diego, CA, USA", "Lighthouse Therapeutics"},
		{"consultants suffix", "Beacon Consultants, London", "Beacon Consultants"},
		{"comma fallback", "Biogen, Cambridge, USA", "Biogen"},
		{"comma fallback skips short", "Foo, Bar Street 12", "Foo, Bar Street 12"},
		{"short text returned whole", "Acme Labs", "Acme Labs"},
		{"email stripped", "Grail Diagnostics contact@grail.com", "Grail Diagnostics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.CompanyName(tt.in))
		})
	}
}

func TestCompanyNameNoConfidentExtraction(t *testing.T) {
	t.Parallel()
	c := Default()

	// Too short, and too long without commas or suffix patterns.
	assert.Equal(t, "", c.CompanyName("ab"))
	long := "an unstructured affiliation string that rambles on well past fifty characters without any separators"
	assert.Equal(t, "", c.CompanyName(long))
}

func TestClassify(t *testing.T) {
	t.Parallel()
	c := Default()

	aff := c.Classify("Harvard University")
	assert.True(t, aff.IsAcademic)
	assert.Empty(t, aff.CompanyName)

	aff = c.Classify("Novartis Pharmaceuticals, Inc.")
	assert.False(t, aff.IsAcademic)
	assert.Equal(t, "Novartis Pharmaceuticals", aff.CompanyName)
	assert.Equal(t, "Novartis Pharmaceuticals, Inc.", aff.Name)

	// Empty classifies commercial with no company name.
	aff = c.Classify("")
	assert.False(t, aff.IsAcademic)
	assert.Empty(t, aff.CompanyName)
}

func TestLoadKeywordTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	content := `keywords:
  - keyword: fintech
    category: commercial
  - keyword: observatory
    category: academic
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadKeywordTable(path)
	require.NoError(t, err)
	require.Len(t, table, 2)

	c, err := New(table)
	require.NoError(t, err)
	assert.False(t, c.IsAcademic("Apex Fintech"))
	assert.True(t, c.IsAcademic("Mauna Kea Observatory"))
	// Policy swapped out entirely: default keywords no longer apply.
	assert.False(t, c.IsAcademic("Harvard University"))
}

func TestLoadKeywordTableErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadKeywordTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("keywords:\n  - keyword: x\n    category: nope\n"), 0o644))
	_, err = LoadKeywordTable(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("keywords: []\n"), 0o644))
	_, err = LoadKeywordTable(empty)
	assert.Error(t, err)
}
