package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// IsBankFile reports whether path looks like a bank exchange file
func IsBankFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yml", ".yaml":
		return true
	}
	return false
}

// Load reads a bank exchange file. JSON is read with the YAML decoder since it is a subset of YAML.
// Options written as a mapping keep the order of the file.
func Load(path string) (Bank, error) {
	nodes, err := readYamlFile[[]map[string]yaml.Node](path)
	if err != nil {
		return nil, fmt.Errorf("readYamlFile(%s) > %w", path, err)
	}

	records := make([]map[string]any, 0, len(nodes))
	for i, fields := range nodes {
		record, err := decodeRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("decodeRecord(item %d) > %w", i+1, err)
		}
		records = append(records, record)
	}
	return NormalizeAll(records), nil
}

// decodeRecord decodes the fields of one record.
// A mapping becomes the list of its values in written order, except for the answer whose keys are the set members.
func decodeRecord(fields map[string]yaml.Node) (map[string]any, error) {
	record := make(map[string]any, len(fields))
	for key, node := range fields {
		if node.Kind != yaml.MappingNode {
			var value any
			if err := node.Decode(&value); err != nil {
				return nil, fmt.Errorf("node.Decode(%s) > %w", key, err)
			}
			record[key] = value
			continue
		}

		offset := 1
		if key == "answer" {
			offset = 0
		}
		entries := make([]any, 0, len(node.Content)/2)
		for i := offset; i < len(node.Content); i += 2 {
			var value any
			if err := node.Content[i].Decode(&value); err != nil {
				return nil, fmt.Errorf("node.Decode(%s) > %w", key, err)
			}
			entries = append(entries, value)
		}
		record[key] = entries
	}
	return record, nil
}

// Save writes the bank as JSON when path ends with .json, otherwise as YAML
func Save(path string, b Bank) error {
	if b == nil {
		b = Bank{}
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return writeJSONFile(path, b)
	}
	return writeYamlFile(path, b)
}

func readYamlFile[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&result); err != nil {
		return result, fmt.Errorf("yaml.NewDecoder().Decode()> %w", err)
	}
	return result, nil
}

func writeYamlFile[T any](path string, data T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("yaml.NewEncoder().Encode()> %w", err)
	}
	return encoder.Close()
}

func writeJSONFile[T any](path string, data T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("json.NewEncoder().Encode()> %w", err)
	}
	return nil
}
