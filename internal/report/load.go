package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"toolbench/internal/runner"
)

const latestRef = "latest"

// LoadRun resolves a run key, "latest" or a results.json path to its results.
func LoadRun(outputDir, ref string) (runner.Results, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return runner.Results{}, fmt.Errorf("run ref is required")
	}
	if strings.HasSuffix(ref, ".json") {
		return runner.ReadRunOutputs(ref)
	}
	if ref == latestRef {
		runDir, err := findLatestRunDir(outputDir)
		if err != nil {
			return runner.Results{}, err
		}
		return runner.ReadRunOutputs(filepath.Join(runDir, "results.json"))
	}
	runDir := filepath.Join(outputDir, ref)
	if info, err := os.Stat(runDir); err != nil || !info.IsDir() {
		return runner.Results{}, fmt.Errorf("run %q not found in %s", ref, outputDir)
	}
	return runner.ReadRunOutputs(filepath.Join(runDir, "results.json"))
}

// findLatestRunDir picks the newest run directory that holds a results.json.
// Run keys start with a UTC timestamp, so lexical order is chronological.
func findLatestRunDir(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("read output dir: %w", err)
	}
	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(outputDir, entry.Name(), "results.json")); err == nil {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no runs found in %s", outputDir)
	}
	sort.Strings(candidates)
	return filepath.Join(outputDir, candidates[len(candidates)-1]), nil
}
