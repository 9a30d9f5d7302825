package cucumber

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cucumber/godog"

	"toolbench/internal/example"
	"toolbench/internal/runner"
)

func (s *featureState) theModelOutputBlock(doc *godog.DocString) error {
	s.block = doc.Content
	return nil
}

func (s *featureState) iParseTheBlock() error {
	s.parsed, s.parseOK = example.Parse(s.block)
	again, againOK := example.Parse(s.block)
	if againOK != s.parseOK || !slices.Equal(again.CorrectTools, s.parsed.CorrectTools) {
		return fmt.Errorf("parsing the same block twice gave different results")
	}
	return nil
}

func (s *featureState) theExampleHas(prompt, category, tools string) error {
	if !s.parseOK {
		return fmt.Errorf("expected an example, parser returned none")
	}
	if s.parsed.Prompt != prompt {
		return fmt.Errorf("prompt = %q, want %q", s.parsed.Prompt, prompt)
	}
	if s.parsed.Category != category {
		return fmt.Errorf("category = %q, want %q", s.parsed.Category, category)
	}
	want := splitList(tools)
	if !slices.Equal(s.parsed.CorrectTools, want) {
		return fmt.Errorf("tools = %v, want %v", s.parsed.CorrectTools, want)
	}
	return nil
}

func (s *featureState) noExampleIsProduced() error {
	if s.parseOK {
		return fmt.Errorf("expected no example, got %+v", s.parsed)
	}
	return nil
}

func (s *featureState) iScore(expected, calls, mode string) error {
	s.scored = runner.Score(splitList(expected), splitList(calls), mode == "in order")
	return nil
}

func (s *featureState) thePromptIs(outcome string) error {
	want := outcome == "passes"
	if s.scored != want {
		return fmt.Errorf("scored %t, want %t", s.scored, want)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
