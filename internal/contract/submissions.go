package contract

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hackwatch/hackwatch/schema"
)

// RepoSpec is one submission row from the input file. Team and RepoURL are
// required; roster and writeup fields are optional enrichments.
type RepoSpec struct {
	Team    string   `yaml:"team"`
	RepoURL string   `yaml:"repo_url"`
	Roster  []string `yaml:"roster"`

	WriteupTitle       string   `yaml:"writeup_title"`
	WriteupDescription string   `yaml:"writeup_description"`
	TechStack          []string `yaml:"tech_stack"`
}

// yamlDocument is the mapping form of the submissions file.
type yamlDocument struct {
	Submissions []RepoSpec `yaml:"submissions"`
}

// LoadRepoSpecs loads submission rows from a CSV or YAML file. The format is
// chosen by file extension.
func LoadRepoSpecs(inputPath string) ([]RepoSpec, error) {
	fh, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("input file not found: %w", err)
	}
	defer fh.Close()

	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".csv":
		return parseCSVSpecs(fh, inputPath)
	case ".yaml", ".yml":
		return parseYAMLSpecs(fh, inputPath)
	default:
		return nil, fmt.Errorf("unsupported input format for %s. Expected .csv or .yaml/.yml", inputPath)
	}
}

// Writeup converts the optional writeup fields into a schema.Writeup, or nil
// when the row declares none.
func (r *RepoSpec) Writeup() *schema.Writeup {
	if r.WriteupTitle == "" && r.WriteupDescription == "" && len(r.TechStack) == 0 {
		return nil
	}
	return &schema.Writeup{
		Title:       r.WriteupTitle,
		Description: r.WriteupDescription,
		TechStack:   r.TechStack,
		Source:      "input-file",
	}
}

func parseCSVSpecs(fh io.Reader, source string) ([]RepoSpec, error) {
	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input at %s", source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", source, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var specs []RepoSpec
	for idx := 1; ; idx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid row at %s:%d: %w", source, idx, err)
		}

		spec := RepoSpec{
			Team:    csvField(record, columns, "team"),
			RepoURL: csvField(record, columns, "repo_url"),
			Roster:  splitListField(csvField(record, columns, "roster")),

			WriteupTitle:       csvField(record, columns, "writeup_title"),
			WriteupDescription: csvField(record, columns, "writeup_description"),
			TechStack:          splitListField(csvField(record, columns, "tech_stack")),
		}
		if err := validateSpec(&spec, source, idx); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseYAMLSpecs(fh io.Reader, source string) ([]RepoSpec, error) {
	raw, err := io.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	// YAML input is either a bare list of rows or a mapping with a
	// 'submissions' list.
	var listForm []RepoSpec
	if err := yaml.Unmarshal(raw, &listForm); err == nil {
		return validateSpecs(listForm, source)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML input at %s: %w", source, err)
	}
	if doc.Submissions == nil {
		return nil, fmt.Errorf("YAML input at %s must be either a list of items or a mapping with 'submissions'", source)
	}
	return validateSpecs(doc.Submissions, source)
}

func validateSpecs(specs []RepoSpec, source string) ([]RepoSpec, error) {
	for i := range specs {
		if err := validateSpec(&specs[i], source, i+1); err != nil {
			return nil, err
		}
	}
	return specs, nil
}

func validateSpec(spec *RepoSpec, source string, idx int) error {
	spec.Team = strings.TrimSpace(spec.Team)
	spec.RepoURL = strings.TrimSpace(spec.RepoURL)
	if spec.Team == "" || spec.RepoURL == "" {
		return fmt.Errorf("invalid row at %s:%d; expected non-empty 'team' and 'repo_url'", source, idx)
	}
	return nil
}

func csvField(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// splitListField splits a semicolon-delimited CSV cell into trimmed entries.
func splitListField(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
