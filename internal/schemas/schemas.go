package schemas

import _ "embed"

// Schemas for the CLI's JSON output, embedded so validation works from any
// working directory.
var (
	//go:embed match_results.schema.json
	MatchResultsSchema string

	//go:embed comparison.schema.json
	ComparisonSchema string
)

// ValidateMatchResults checks a match run's JSON output.
func ValidateMatchResults(jsonContent string) error {
	return ValidateJSONString(MatchResultsSchema, jsonContent)
}

// ValidateComparison checks a comparison's JSON output.
func ValidateComparison(jsonContent string) error {
	return ValidateJSONString(ComparisonSchema, jsonContent)
}
