package cucumber

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"
)

// TOOLBENCH_FEATURE_TAGS narrows the run, e.g. "@scoring && ~@slow".
const tagsEnv = "TOOLBENCH_FEATURE_TAGS"

func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:   "progress",
		Output:   io.Discard,
		Paths:    []string{filepath.Join("..", "..", "spec", "features")},
		Tags:     os.Getenv(tagsEnv),
		Strict:   true,
		TestingT: t,
	}
	if testing.Verbose() {
		opts.Format = "pretty"
		opts.Output = os.Stdout
	}
	status := godog.TestSuite{
		Name:                "toolbench-features",
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature suite exited with status %d", status)
	}
}
