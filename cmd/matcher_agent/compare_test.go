package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCommand_RequiresCandidateOrPool(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tmpDir := t.TempDir()
	jobPath, candidatesPath := testMatchInputs(t, tmpDir)

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "Neither provided",
			args: []string{"compare", "--job", jobPath},
		},
		{
			name: "Both provided",
			args: []string{"compare", "--job", jobPath, "--candidate", candidatesPath, "--candidates", candidatesPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Dir = tmpDir
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), "exactly one of --candidate or --candidates")
		})
	}
}

func TestCompareCommand_PoolReportsWinsAndCorrelations(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tmpDir := t.TempDir()
	jobPath, candidatesPath := testMatchInputs(t, tmpDir)
	outPath := filepath.Join(tmpDir, "comparison.json")

	cmd := exec.Command(binaryPath, "compare",
		"--job", jobPath,
		"--candidates", candidatesPath,
		"--strategies", "lexical",
		"--out", outPath)
	cmd.Dir = tmpDir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "compare command failed: %s", string(output))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc comparePoolOutputDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "job-1", doc.JobID)
	require.Len(t, doc.Comparisons, 2)
	assert.Equal(t, 2, doc.StrategyWins["lexical"])
}
