package example

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Corpus is the import file layout for curated prompts.
type Corpus struct {
	Version int          `json:"version,omitempty" yaml:"version,omitempty"`
	Prompts []CorpusItem `json:"prompts" yaml:"prompts"`
}

// CorpusItem is one curated prompt. CorrectTool is accepted for single-tool files.
type CorpusItem struct {
	Prompt         string   `json:"prompt" yaml:"prompt"`
	Category       string   `json:"prompt_category" yaml:"prompt_category"`
	CorrectTools   []string `json:"correct_tools,omitempty" yaml:"correct_tools,omitempty"`
	CorrectTool    string   `json:"correct_tool,omitempty" yaml:"correct_tool,omitempty"`
	ToolsAvailable []string `json:"tools_available,omitempty" yaml:"tools_available,omitempty"`
	ExpectedOrder  bool     `json:"expected_order,omitempty" yaml:"expected_order,omitempty"`
}

// LoadCorpus reads, parses and validates a curated prompt file.
func LoadCorpus(path string, catalog ToolNames) ([]BenchmarkExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	corpus, err := parseCorpus(data, path)
	if err != nil {
		return nil, err
	}
	return NormalizeCorpus(corpus, catalog)
}

func parseCorpus(data []byte, path string) (Corpus, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSONCorpus(data)
	}
	return parseYAMLCorpus(data)
}

func parseJSONCorpus(data []byte) (Corpus, error) {
	var corpus Corpus
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&corpus); err != nil {
		return Corpus{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(new(json.RawMessage)); err != io.EOF {
		if err == nil {
			return Corpus{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Corpus{}, fmt.Errorf("parse json: %w", err)
	}
	return corpus, nil
}

func parseYAMLCorpus(data []byte) (Corpus, error) {
	var corpus Corpus
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&corpus); err != nil {
		return Corpus{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(new(yaml.Node)); err != io.EOF {
		if err == nil {
			return Corpus{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Corpus{}, fmt.Errorf("parse yaml: %w", err)
	}
	return corpus, nil
}
