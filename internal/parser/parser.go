// Package parser turns a paper's raw detail payload — the loosely structured
// markup blob returned by the literature API — into structured Author and
// Affiliation records. The payload is treated as untrusted and partially
// malformed: extraction degrades field by field instead of failing the
// record. The pattern-based extractor is isolated here so it can be swapped
// for a tree-structured document parser without touching classification.
package parser

import (
	"regexp"
	"strings"

	"github.com/sells-group/pubmed-cli/internal/classify"
	"github.com/sells-group/pubmed-cli/internal/model"
	"github.com/sells-group/pubmed-cli/internal/textutil"
)

// authorBlockStrategies are tried in order; the first one that yields any
// matches wins. Stricter encodings first, down to "any block resembling an
// author tag".
var authorBlockStrategies = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<Author\s+[^>]*ValidYN="Y"[^>]*>(.*?)</Author>`),
	regexp.MustCompile(`(?s)<Author>(.*?)</Author>`),
	regexp.MustCompile(`(?s)<Author\b[^>]*>(.*?)</Author>`),
}

// affiliationPatterns are all applied to every author block and their matches
// collected, unlike author blocks where the first strategy wins. Outer
// wrapper, bare inner tag, attributed wrapper.
var affiliationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<AffiliationInfo>(.*?)</AffiliationInfo>`),
	regexp.MustCompile(`(?s)<Affiliation>(.*?)</Affiliation>`),
	regexp.MustCompile(`(?s)<Affiliation\s+[^>]*>(.*?)</Affiliation>`),
}

var (
	lastNameRe   = regexp.MustCompile(`(?s)<LastName>(.*?)</LastName>`)
	foreNameRe   = regexp.MustCompile(`(?s)<ForeName>(.*?)</ForeName>`)
	collectiveRe = regexp.MustCompile(`(?s)<CollectiveName>(.*?)</CollectiveName>`)
	emailTagRe   = regexp.MustCompile(`(?s)<Email>(.*?)</Email>`)
	corrEmailRe  = regexp.MustCompile(`(?s)<CorrespondingAuthorEmail>(.*?)</CorrespondingAuthorEmail>`)
)

// Parser extracts authors and emails from detail payloads, classifying each
// affiliation with the injected classifier.
type Parser struct {
	classifier *classify.Classifier
}

// New creates a Parser using the given classifier.
func New(c *classify.Classifier) *Parser {
	return &Parser{classifier: c}
}

// ParseAuthors extracts every author from the detail payload. Blocks that
// yield no name under any strategy are dropped, not kept as placeholders.
func (p *Parser) ParseAuthors(payload string) []model.Author {
	var blocks []string
	for _, strategy := range authorBlockStrategies {
		matches := strategy.FindAllStringSubmatch(payload, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			blocks = append(blocks, m[1])
		}
		break
	}

	var authors []model.Author
	for _, block := range blocks {
		name := authorName(block)
		if name == "" {
			continue
		}
		author := model.Author{
			Name:         name,
			Affiliations: p.parseAffiliations(block),
		}
		if m := emailTagRe.FindStringSubmatch(block); m != nil {
			author.Email = strings.TrimSpace(m[1])
		}
		authors = append(authors, author)
	}
	return authors
}

// authorName resolves a block's author name: family+given fields first, then
// a collective name, then the stripped block text as a last resort when it is
// non-empty and under 100 characters.
func authorName(block string) string {
	var last, fore string
	if m := lastNameRe.FindStringSubmatch(block); m != nil {
		last = textutil.Clean(m[1])
	}
	if m := foreNameRe.FindStringSubmatch(block); m != nil {
		fore = textutil.Clean(m[1])
	}
	if last != "" || fore != "" {
		return strings.TrimSpace(fore + " " + last)
	}

	if m := collectiveRe.FindStringSubmatch(block); m != nil {
		if name := textutil.Clean(m[1]); name != "" {
			return name
		}
	}

	if stripped := textutil.Clean(block); stripped != "" && len(stripped) < 100 {
		return stripped
	}
	return ""
}

// parseAffiliations collects affiliation text from every pattern that fires,
// cleans each match, and drops results of 3 characters or fewer. Overlapping
// patterns can surface the same wrapped text twice, so identical cleaned
// strings are collapsed per block.
func (p *Parser) parseAffiliations(block string) []model.Affiliation {
	seen := make(map[string]struct{})
	var affs []model.Affiliation
	for _, pattern := range affiliationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(block, -1) {
			text := textutil.Clean(m[1])
			if len(text) <= 3 {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			affs = append(affs, p.classifier.Classify(text))
		}
	}
	return affs
}

// CorrespondingEmail resolves the corresponding-author email for the whole
// payload: an explicit corresponding-author tag anywhere wins, otherwise the
// first email found anywhere in the payload. The fallback may not belong to a
// listed author; that ambiguity is inherent to the source data.
func CorrespondingEmail(payload string) string {
	if m := corrEmailRe.FindStringSubmatch(payload); m != nil {
		return strings.TrimSpace(m[1])
	}
	if emails := textutil.ExtractEmails(payload); len(emails) > 0 {
		return emails[0]
	}
	return ""
}
