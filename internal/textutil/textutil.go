// Package textutil provides text normalization helpers shared by the
// classifier and the record parser: markup stripping, whitespace collapsing,
// email extraction, and tolerant publication-date parsing.
package textutil

import (
	"regexp"
	"strings"
	"time"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	emailRe      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// Clean strips markup tags, collapses runs of whitespace (including newlines)
// to single spaces, and trims the result. Empty input yields "".
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = tagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractEmails returns every email-shaped substring in order of first
// appearance. Duplicates are preserved.
func ExtractEmails(text string) []string {
	if text == "" {
		return nil
	}
	return emailRe.FindAllString(text, -1)
}

// dateLayouts are tried in order. Month and day layouts use single-digit
// forms so both "2023-06-05" and "2023-6-5" parse.
var dateLayouts = []string{
	"2006-1-2",
	"2006 1 2",
	"2006/1/2",
	"2006-1",
	"2006 1",
	"2006/1",
	"2006",
}

// ParseDate parses a publication date string against a fixed ordered list of
// layouts: full date, year-month, and bare year, each with "-", " ", or "/"
// separators. A missing month or day defaults to 1. Returns ok=false when no
// layout matches; callers choose the fallback.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
