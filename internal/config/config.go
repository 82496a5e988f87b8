package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/moasq/pbxpatch/internal/pbxpatch"
	"gopkg.in/yaml.v3"
)

// DefaultProjectPath is the manifest patched when neither the plan nor the
// command line names one.
const DefaultProjectPath = "WaterQuest.xcodeproj/project.pbxproj"

// ErrInvalidPlan wraps every plan validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// FileEntry is one file in a plan.
type FileEntry struct {
	Name     string `yaml:"name"`
	Group    string `yaml:"group"`
	FileType string `yaml:"file_type,omitempty"`
}

// Plan lists the files to register and the manifest to register them in.
type Plan struct {
	Project string      `yaml:"project"`
	Files   []FileEntry `yaml:"files"`
}

// Default returns the built-in WaterQuest plan.
func Default() *Plan {
	return &Plan{
		Project: DefaultProjectPath,
		Files: []FileEntry{
			{Name: "LiquidProgressView.swift", Group: "Components"},
			{Name: "MotionManager.swift", Group: "Services"},
		},
	}
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	plan, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// Parse decodes a YAML plan. Unknown keys are rejected.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty plan", ErrInvalidPlan)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if p.Project == "" {
		p.Project = DefaultProjectPath
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks every entry can become a file record.
func (p *Plan) Validate() error {
	if len(p.Files) == 0 {
		return fmt.Errorf("%w: no files listed", ErrInvalidPlan)
	}
	seen := make(map[string]bool, len(p.Files))
	for i, r := range p.Records() {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: files[%d]: %v", ErrInvalidPlan, i, err)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: files[%d]: %s is listed more than once", ErrInvalidPlan, i, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// Records converts the plan entries into patcher input.
func (p *Plan) Records() []pbxpatch.FileRecord {
	records := make([]pbxpatch.FileRecord, 0, len(p.Files))
	for _, f := range p.Files {
		records = append(records, pbxpatch.FileRecord{Name: f.Name, Group: f.Group, FileType: f.FileType})
	}
	return records
}

// Marshal renders the plan as YAML.
func (p *Plan) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}
	return buf.Bytes(), nil
}
