package cucumber

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"toolbench/internal/report"
)

func (s *featureState) theExitCodeIs(code int) error {
	if s.exitCode != code {
		return fmt.Errorf("exit code = %d, want %d (stderr: %s)", s.exitCode, code, s.stderr.String())
	}
	return nil
}

func (s *featureState) theOutputContains(text string) error {
	if !strings.Contains(s.stdout.String(), text) {
		return fmt.Errorf("expected %q in output:\n%s", text, s.stdout.String())
	}
	return nil
}

// theOutputListsCommands asserts the output contains expected command names.
func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

func (s *featureState) theReportShowsSuccessRate(rate float64, model string) error {
	var rep report.Report
	if err := json.Unmarshal(s.stdout.Bytes(), &rep); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	for _, m := range rep.Models {
		if m.Model != model {
			continue
		}
		if math.Abs(m.SuccessRate-rate) > 0.01 {
			return fmt.Errorf("success rate = %.2f, want %.2f", m.SuccessRate, rate)
		}
		return nil
	}
	return fmt.Errorf("model %q not in report", model)
}

func (s *featureState) theResultsFileRecords(count int) error {
	if err := s.iRunCommand("toolbench report --results latest --format json"); err != nil {
		return err
	}
	var rep report.Report
	if err := json.Unmarshal(s.stdout.Bytes(), &rep); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	if len(rep.Runs) != 1 || rep.Runs[0].Total != count {
		return fmt.Errorf("expected one run with %d prompts, got %+v", count, rep.Runs)
	}
	return nil
}
