package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/schemas"
	"github.com/jonathan/resume-matcher/internal/types"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score candidates with every strategy and compare the results",
	Long:  "Runs each strategy over the same input and reports per-strategy scores with agreement statistics. Takes either one candidate (--candidate) or a pool (--candidates); a pool additionally reports per-strategy win counts and score correlations.",
	RunE:  runCompare,
}

var (
	compareJob        string
	compareCandidate  string
	comparePool       string
	compareStrategies []string
	compareOutput     string
)

func init() {
	compareCmd.Flags().StringVarP(&compareJob, "job", "j", "", "Path to JobPosting JSON file (required)")
	compareCmd.Flags().StringVarP(&compareCandidate, "candidate", "i", "", "Path to CandidateProfile JSON file")
	compareCmd.Flags().StringVar(&comparePool, "candidates", "", "Path to JSON file with an array of candidate profiles")
	compareCmd.Flags().StringSliceVarP(&compareStrategies, "strategies", "s", nil, "Strategies to compare (defaults to all)")
	compareCmd.Flags().StringVarP(&compareOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")

	if err := compareCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(compareCmd)
}

// compareOutputDoc is the JSON document the single-candidate compare emits.
type compareOutputDoc struct {
	Comparison   *types.ComparisonResult `json:"comparison"`
	BestStrategy string                  `json:"best_strategy,omitempty"`
}

// comparePoolOutputDoc is the JSON document the pool compare emits.
type comparePoolOutputDoc struct {
	JobID        string                    `json:"job_id"`
	Comparisons  []*types.ComparisonResult `json:"comparisons"`
	StrategyWins map[string]int            `json:"strategy_wins"`
	Correlations map[string]float64        `json:"correlations,omitempty"`
}

func runCompare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if (compareCandidate == "") == (comparePool == "") {
		return fmt.Errorf("exactly one of --candidate or --candidates must be provided")
	}

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	var rawJob types.JobPosting
	if err := readJSONFile(compareJob, &rawJob); err != nil {
		return err
	}
	job := types.NewJobPosting(rawJob)

	comparator, err := matching.NewComparator(compareStrategies, rt.deps)
	if err != nil {
		return err
	}

	if comparePool != "" {
		return runComparePool(ctx, rt, comparator, &job)
	}
	return runCompareOne(ctx, rt, comparator, &job)
}

func runCompareOne(ctx context.Context, rt *runtime, comparator *matching.Comparator, job *types.JobPosting) error {
	var candidate types.CandidateProfile
	if err := readJSONFile(compareCandidate, &candidate); err != nil {
		return err
	}

	rt.log.Info().
		Strs("strategies", comparator.Strategies()).
		Str("candidate_id", candidate.ID).
		Str("job_id", job.ID).
		Msg("comparing strategies")

	comparison, err := comparator.Compare(ctx, &candidate, job)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	rt.persist()

	doc := compareOutputDoc{Comparison: comparison}
	if best, ok := matching.BestStrategy(comparison); ok {
		doc.BestStrategy = best
	}
	output, err := json.MarshalIndent(doc.Comparison, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison: %w", err)
	}
	if err := schemas.ValidateComparison(string(output)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
	}

	full, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := writeOutput(compareOutput, full); err != nil {
		return err
	}

	if rt.cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintComparison(comparison)
	}
	return nil
}

func runComparePool(ctx context.Context, rt *runtime, comparator *matching.Comparator, job *types.JobPosting) error {
	var candidates []*types.CandidateProfile
	if err := readJSONFile(comparePool, &candidates); err != nil {
		return err
	}
	for i, c := range candidates {
		if c.ID == "" {
			c.ID = fmt.Sprintf("candidate_%03d", i+1)
		}
	}

	rt.log.Info().
		Strs("strategies", comparator.Strategies()).
		Int("candidates", len(candidates)).
		Str("job_id", job.ID).
		Msg("comparing strategies over pool")

	comparisons, err := comparator.CompareMany(ctx, candidates, job)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	rt.persist()

	doc := comparePoolOutputDoc{
		JobID:        job.ID,
		Comparisons:  comparisons,
		StrategyWins: matching.BestStrategyCounts(comparisons),
		Correlations: matching.ComparisonCorrelations(comparisons),
	}
	for _, comparison := range comparisons {
		single, err := json.Marshal(comparison)
		if err != nil {
			return fmt.Errorf("failed to marshal comparison: %w", err)
		}
		if err := schemas.ValidateComparison(string(single)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Output validation failed for %s: %v\n", comparison.CandidateID, err)
		}
	}

	output, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if err := writeOutput(compareOutput, output); err != nil {
		return err
	}

	if rt.cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		for _, comparison := range comparisons {
			printer.PrintComparison(comparison)
		}
	}
	return nil
}
