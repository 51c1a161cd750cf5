package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidates against a job posting",
	Long:  "Scores every candidate in the input file against the job posting with the selected strategy and writes the ranked results as JSON.",
	RunE:  runMatch,
}

var (
	matchJob        string
	matchCandidates string
	matchStrategy   string
	matchTopN       int
	matchOutput     string
)

func init() {
	matchCmd.Flags().StringVarP(&matchJob, "job", "j", "", "Path to JobPosting JSON file (required)")
	matchCmd.Flags().StringVarP(&matchCandidates, "candidates", "i", "", "Path to JSON file with an array of candidate profiles (required)")
	matchCmd.Flags().StringVarP(&matchStrategy, "strategy", "s", "", "Scoring strategy: lexical, semantic, crossencoder, classifier, llm")
	matchCmd.Flags().IntVarP(&matchTopN, "top-n", "n", 0, "Number of ranked candidates to keep")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")

	if err := matchCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

// matchOutputDoc is the JSON document the match command emits.
type matchOutputDoc struct {
	JobID    string               `json:"job_id"`
	Strategy string               `json:"strategy"`
	Count    int                  `json:"count"`
	Results  []*types.MatchResult `json:"results"`
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	job, candidates, err := loadMatchInputs(matchJob, matchCandidates)
	if err != nil {
		return err
	}

	strategy := matchStrategy
	if strategy == "" {
		strategy = rt.cfg.Strategy
	}
	topN := matchTopN
	if topN <= 0 {
		topN = rt.cfg.TopN
	}

	matcher, err := matching.New(strategy, rt.deps)
	if err != nil {
		return err
	}

	rt.log.Info().
		Str("strategy", strategy).
		Int("candidates", len(candidates)).
		Str("job_id", job.ID).
		Msg("matching candidates")

	results, err := matcher.MatchMany(ctx, candidates, job, topN)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}
	rt.persist()

	doc := matchOutputDoc{
		JobID:    job.ID,
		Strategy: strategy,
		Count:    len(results),
		Results:  results,
	}
	output, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	// Output validation is a safety check, not a requirement.
	if err := schemas.ValidateMatchResults(string(output)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
	}

	if err := writeOutput(matchOutput, output); err != nil {
		return err
	}

	if rt.cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintJob(job)
		printer.PrintMatchResults(results)
	}
	return nil
}

// loadMatchInputs reads the job posting and candidate pool files.
func loadMatchInputs(jobPath, candidatesPath string) (*types.JobPosting, []*types.CandidateProfile, error) {
	var rawJob types.JobPosting
	if err := readJSONFile(jobPath, &rawJob); err != nil {
		return nil, nil, err
	}
	if rawJob.ID == "" {
		rawJob.ID = filepath.Base(jobPath)
	}
	job := types.NewJobPosting(rawJob)

	var candidates []*types.CandidateProfile
	if err := readJSONFile(candidatesPath, &candidates); err != nil {
		return nil, nil, err
	}
	for i, c := range candidates {
		if c.ID == "" {
			c.ID = fmt.Sprintf("candidate_%03d", i+1)
		}
	}
	return &job, candidates, nil
}

// writeOutput writes data to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(os.Stdout, string(data))
		return err
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
