//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// JobPosting represents a job opening that candidates are scored against.
// FullText is derived once at construction and treated as immutable; use
// NewJobPosting so it is always populated.
type JobPosting struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company,omitempty"`
	Location         string   `json:"location,omitempty"`
	Description      string   `json:"description"`
	Requirements     string   `json:"requirements,omitempty"`
	Responsibilities string   `json:"responsibilities,omitempty"`
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	ExperienceYears  int      `json:"experience_years,omitempty"`
	FullText         string   `json:"full_text,omitempty"`
}

// NewJobPosting returns a copy of the posting with FullText derived from its
// fields. An already-set FullText is kept as-is.
func NewJobPosting(job JobPosting) JobPosting {
	if job.FullText == "" {
		job.FullText = buildJobFullText(&job)
	}
	return job
}

// Text returns the canonical text representation for text-based scorers.
func (j *JobPosting) Text() string {
	if j.FullText != "" {
		return j.FullText
	}
	return buildJobFullText(j)
}

func buildJobFullText(j *JobPosting) string {
	parts := []string{fmt.Sprintf("Job Title: %s", j.Title)}

	if j.Company != "" {
		parts = append(parts, "Company: "+j.Company)
	}
	if j.Location != "" {
		parts = append(parts, "Location: "+j.Location)
	}
	parts = append(parts, "\nDescription:\n"+j.Description)
	if j.Requirements != "" {
		parts = append(parts, "\nRequirements:\n"+j.Requirements)
	}
	if j.Responsibilities != "" {
		parts = append(parts, "\nResponsibilities:\n"+j.Responsibilities)
	}
	if len(j.RequiredSkills) > 0 {
		parts = append(parts, "\nRequired Skills: "+joinComma(j.RequiredSkills))
	}
	if len(j.NiceToHaveSkills) > 0 {
		parts = append(parts, "\nNice to Have: "+joinComma(j.NiceToHaveSkills))
	}
	if j.ExperienceYears > 0 {
		parts = append(parts, fmt.Sprintf("\nExperience: %d+ years", j.ExperienceYears))
	}

	return strings.Join(parts, "\n")
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}

func joinLines(items []string) string {
	return strings.Join(items, "\n\n")
}
