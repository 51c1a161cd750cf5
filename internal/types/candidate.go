// Package types provides type definitions for structured data used throughout the resume-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "unicode/utf8"

// CandidateProfile represents a parsed applicant record produced by the
// text-extraction collaborator. The core treats it as read-only.
type CandidateProfile struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	RawText  string   `json:"raw_text"`
	Summary  string   `json:"summary,omitempty"`
	Skills   []string `json:"skills"`
	Keywords []string `json:"keywords"`
	Language string   `json:"language,omitempty"` // "en" or "ru", detected upstream
}

// Text returns the representation used by text-based scorers: summary and
// skills first, then the leading slice of the raw text.
func (c *CandidateProfile) Text() string {
	return c.textWithLimit(500)
}

func (c *CandidateProfile) textWithLimit(rawLimit int) string {
	var parts []string
	if c.Name != "" {
		parts = append(parts, "Name: "+c.Name)
	}
	if c.Summary != "" {
		parts = append(parts, "Summary: "+c.Summary)
	}
	if len(c.Skills) > 0 {
		parts = append(parts, "Skills: "+joinComma(c.Skills))
	}
	if c.RawText != "" {
		raw := c.RawText
		if len(raw) > rawLimit {
			// Back up to a rune boundary so Cyrillic text is never cut
			// mid-character.
			cut := rawLimit
			for cut > 0 && !utf8.RuneStart(raw[cut]) {
				cut--
			}
			raw = raw[:cut]
		}
		parts = append(parts, raw)
	}
	if len(parts) == 0 {
		return c.ID
	}
	return joinLines(parts)
}
