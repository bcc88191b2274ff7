package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/cutlist/internal/model"
)

// ErrUnsupportedFormat is returned for project files whose extension is not
// .json, .yaml, .yml or .toml.
var ErrUnsupportedFormat = errors.New("unsupported project format")

type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads a project file, choosing the decoder by extension. Parts and
// stocks without IDs get generated ones so stock references can be resolved.
func Load(path string) (model.Project, error) {
	f, err := formatFor(path)
	if err != nil {
		return model.Project{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}

	p := model.NewProject()
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, &p)
	case formatYAML:
		err = yaml.Unmarshal(data, &p)
	case formatTOML:
		err = toml.Unmarshal(data, &p)
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file %s: %w", filepath.Base(path), err)
	}

	if p.Parts == nil {
		p.Parts = []model.Part{}
	}
	if p.Stocks == nil {
		p.Stocks = []model.Stock{}
	}
	for i := range p.Parts {
		if p.Parts[i].ID == "" {
			p.Parts[i].ID = uuid.New().String()[:8]
		}
	}
	for i := range p.Stocks {
		if p.Stocks[i].ID == "" {
			p.Stocks[i].ID = uuid.New().String()[:8]
		}
	}
	return p, nil
}

// Save writes a project file in the format implied by its extension.
// It creates any missing parent directories automatically.
func Save(path string, p model.Project) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(p, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(p)
	case formatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(p)
		data = buf.Bytes()
	}
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return writeFile(path, data)
}

// SaveCutList writes a generated cut list as indented JSON.
func SaveCutList(path string, cl model.CutList) error {
	data, err := json.MarshalIndent(cl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cut list: %w", err)
	}
	return writeFile(path, data)
}

// LoadCutList reads a cut list previously written by SaveCutList.
func LoadCutList(path string) (model.CutList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CutList{}, fmt.Errorf("failed to read cut list: %w", err)
	}
	var cl model.CutList
	if err := json.Unmarshal(data, &cl); err != nil {
		return model.CutList{}, fmt.Errorf("failed to parse cut list: %w", err)
	}
	return cl, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
