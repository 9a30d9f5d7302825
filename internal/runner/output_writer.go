package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// resultsFileName is the per-run results artifact.
const resultsFileName = "results.json"

// WriteRunOutputs writes <outputDir>/<run key>/results.json and returns its path.
func WriteRunOutputs(results Results, outputDir string) (string, error) {
	if outputDir == "" {
		return "", fmt.Errorf("output directory is required")
	}
	if results.RunKey == "" {
		return "", fmt.Errorf("run key is required")
	}
	runDir := filepath.Join(outputDir, results.RunKey)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(runDir, resultsFileName)
	if err := writeJSON(path, results); err != nil {
		return "", err
	}
	return path, nil
}

// ReadRunOutputs loads a results.json written by WriteRunOutputs.
func ReadRunOutputs(path string) (Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Results{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return Results{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	results.OutputPath = path
	return results, nil
}

// writeJSON writes a Results payload as pretty JSON.
func writeJSON(path string, results Results) error {
	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
