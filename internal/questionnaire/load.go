package questionnaire

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

// Load reads a bank from a YAML or JSON file (chosen by extension) and
// validates it. An omitted question type means single choice; an omitted
// scored flag means unscored.
func Load(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read question bank: %w", err)
	}
	var bank Bank
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		bank, err = parseJSON(data)
	} else {
		bank, err = parseYAML(data)
	}
	if err != nil {
		return Bank{}, err
	}
	normalize(&bank)
	if err := bank.Validate(); err != nil {
		return Bank{}, fmt.Errorf("invalid question bank %s: %w", path, err)
	}
	return bank, nil
}

// LoadOrDefault loads the bank at path, or returns Default when path is
// empty.
func LoadOrDefault(path string) (Bank, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func normalize(b *Bank) {
	for i := range b.Questions {
		if b.Questions[i].Kind == "" {
			b.Questions[i].Kind = KindSingle
		}
	}
}

func parseJSON(data []byte) (Bank, error) {
	var bank Bank
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&bank); err != nil {
		return Bank{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Bank{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Bank{}, fmt.Errorf("parse json: %w", err)
	}
	return bank, nil
}

func parseYAML(data []byte) (Bank, error) {
	var bank Bank
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bank); err != nil {
		return Bank{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Bank{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Bank{}, fmt.Errorf("parse yaml: %w", err)
	}
	return bank, nil
}
