package types

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCandidateProfile_Text_ComposesSections(t *testing.T) {
	c := &CandidateProfile{
		ID:      "cand-1",
		Name:    "Alex",
		Summary: "Backend engineer",
		Skills:  []string{"Go", "PostgreSQL"},
		RawText: "Five years building services.",
	}

	text := c.Text()

	assert.Contains(t, text, "Name: Alex")
	assert.Contains(t, text, "Summary: Backend engineer")
	assert.Contains(t, text, "Skills: Go, PostgreSQL")
	assert.Contains(t, text, "Five years building services.")
}

func TestCandidateProfile_Text_EmptyProfileFallsBackToID(t *testing.T) {
	c := &CandidateProfile{ID: "cand-1"}
	assert.Equal(t, "cand-1", c.Text())
}

func TestCandidateProfile_Text_TruncatesLongRawText(t *testing.T) {
	c := &CandidateProfile{ID: "cand-1", RawText: strings.Repeat("a", 600)}

	text := c.Text()

	assert.Len(t, text, 500)
}

func TestCandidateProfile_Text_TruncatesOnRuneBoundary(t *testing.T) {
	// Cyrillic runes are two bytes each; the leading ASCII byte shifts them
	// so a byte-offset cut at 500 lands mid-rune.
	c := &CandidateProfile{ID: "cand-1", RawText: "a" + strings.Repeat("ё", 300)}

	text := c.Text()

	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, 499, len(text))
}