package matching

import (
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

// skillsOverlap computes the case-insensitive overlap between candidate
// skills and the job's required skills. The returned matched/missing lists
// carry the job's original casing for presentation fidelity. A job with no
// required skills is a perfect match by definition.
func skillsOverlap(candidateSkills, requiredSkills []string) (score float64, matched, missing []string) {
	if len(requiredSkills) == 0 {
		return 1.0, []string{}, []string{}
	}

	candidateSet := make(map[string]bool, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateSet[strings.ToLower(s)] = true
	}

	matched = make([]string, 0, len(requiredSkills))
	missing = make([]string, 0)
	seen := make(map[string]bool, len(requiredSkills))
	hits := 0
	for _, required := range requiredSkills {
		lower := strings.ToLower(required)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		if candidateSet[lower] {
			matched = append(matched, required)
			hits++
		} else {
			missing = append(missing, required)
		}
	}

	return float64(hits) / float64(len(seen)), matched, missing
}

// jaccardScore is the shared backend-unavailable fallback: Jaccard overlap
// between the candidate's keyword/skill sets and the job's skill sets.
func jaccardScore(candidate *types.CandidateProfile, job *types.JobPosting) float64 {
	candidateWords := make(map[string]bool)
	for i, kw := range candidate.Keywords {
		if i >= 20 {
			break
		}
		candidateWords[strings.ToLower(kw)] = true
	}
	for _, s := range candidate.Skills {
		candidateWords[strings.ToLower(s)] = true
	}

	jobWords := make(map[string]bool)
	for _, s := range job.RequiredSkills {
		jobWords[strings.ToLower(s)] = true
	}
	for _, s := range job.NiceToHaveSkills {
		jobWords[strings.ToLower(s)] = true
	}

	if len(candidateWords) == 0 || len(jobWords) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range candidateWords {
		if jobWords[w] {
			intersection++
		}
	}
	union := len(candidateWords) + len(jobWords) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
