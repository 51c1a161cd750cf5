package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/types"
)

var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Embed a candidate pool and build the vector index",
	Long:  "Computes an embedding for every candidate in the input file, rebuilds the flat vector index from them, and persists both the index and the embedding cache.",
	RunE:  runBuildIndex,
}

var buildIndexCandidates string

func init() {
	buildIndexCmd.Flags().StringVarP(&buildIndexCandidates, "candidates", "i", "", "Path to JSON file with an array of candidate profiles (required)")

	if err := buildIndexCmd.MarkFlagRequired("candidates"); err != nil {
		panic(fmt.Sprintf("failed to mark candidates flag as required: %v", err))
	}

	rootCmd.AddCommand(buildIndexCmd)
}

func runBuildIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.deps.Encoder == nil {
		return fmt.Errorf("no embedding backend configured; set an API key or a local model path")
	}

	var candidates []*types.CandidateProfile
	if err := readJSONFile(buildIndexCandidates, &candidates); err != nil {
		return err
	}

	vectors := make([][]float32, 0, len(candidates))
	ids := make([]string, 0, len(candidates))
	for i, c := range candidates {
		if c.ID == "" {
			c.ID = fmt.Sprintf("candidate_%03d", i+1)
		}
		var vec []float32
		if rt.deps.Store != nil {
			vec, err = rt.deps.Store.GetOrCompute(ctx, c.ID, c.Text(), rt.deps.Encoder)
		} else {
			vec, err = rt.deps.Encoder.Encode(ctx, c.Text())
		}
		if err != nil {
			return fmt.Errorf("failed to embed candidate %s: %w", c.ID, err)
		}
		vectors = append(vectors, vec)
		ids = append(ids, c.ID)
	}

	rt.deps.Index.Reset()
	if err := rt.deps.Index.Add(vectors, ids); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	rt.persist()
	rt.log.Info().
		Int("candidates", len(candidates)).
		Str("index_path", rt.cfg.IndexPath).
		Msg("vector index built")
	fmt.Printf("Indexed %d candidates, index saved to %s\n", len(candidates), rt.cfg.IndexPath)
	return nil
}
