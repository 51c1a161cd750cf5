package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/types"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier strategy on labeled candidate/job pairs",
	Long:  "Fits the logistic regression classifier on a JSON file of labeled samples and saves the model so later match runs can use the classifier strategy.",
	RunE:  runTrain,
}

var trainSamples string

func init() {
	trainCmd.Flags().StringVarP(&trainSamples, "samples", "i", "", "Path to JSON file with an array of training samples (required)")

	if err := trainCmd.MarkFlagRequired("samples"); err != nil {
		panic(fmt.Sprintf("failed to mark samples flag as required: %v", err))
	}

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	var samples []types.TrainingSample
	if err := readJSONFile(trainSamples, &samples); err != nil {
		return err
	}

	classifier, err := matching.NewClassifierMatcher(rt.cfg.ClassifierModelPath, rt.log)
	if err != nil {
		return err
	}
	if err := classifier.Train(samples); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	rt.log.Info().
		Int("samples", len(samples)).
		Str("model_path", rt.cfg.ClassifierModelPath).
		Msg("classifier trained")
	fmt.Printf("Trained classifier on %d samples, model saved to %s\n", len(samples), rt.cfg.ClassifierModelPath)
	return nil
}
