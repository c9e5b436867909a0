package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/ahp/schema"
	"gopkg.in/yaml.v3"
)

// LoadSubmissionInputs reads one file of expert answers. A file holds either a
// single submission object or a list of them, in JSON or YAML (by extension).
// Submissions without an expert name are named after the file.
func LoadSubmissionInputs(path string) ([]schema.SubmissionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read submission file %q: %w", path, err)
	}

	var inputs []schema.SubmissionInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		inputs, err = decodeYAMLInputs(data)
	default:
		inputs, err = DecodeJSONInputs(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse submission file %q: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range inputs {
		if strings.TrimSpace(inputs[i].Expert) != "" {
			continue
		}
		inputs[i].Expert = base
		if len(inputs) > 1 {
			inputs[i].Expert = fmt.Sprintf("%s-%d", base, i+1)
		}
	}
	return inputs, nil
}

// DecodeJSONInputs decodes a single submission object or a list of them.
// Numbers are kept as json.Number so ratios keep their written precision.
func DecodeJSONInputs(r io.Reader) ([]schema.SubmissionInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if trimmed[0] == '[' {
		var list []schema.SubmissionInput
		if err := dec.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one schema.SubmissionInput
	if err := dec.Decode(&one); err != nil {
		return nil, err
	}
	return []schema.SubmissionInput{one}, nil
}

func decodeYAMLInputs(data []byte) ([]schema.SubmissionInput, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		var list []schema.SubmissionInput
		if err := doc.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var one schema.SubmissionInput
	if err := doc.Decode(&one); err != nil {
		return nil, err
	}
	return []schema.SubmissionInput{one}, nil
}
