package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/dddscan/domain"
)

// ProjectType represents the PHP framework layout of a project
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeSymfony ProjectType = "symfony"
	ProjectTypeLaravel ProjectType = "laravel"
)

// Strictness represents how many edge kinds the check enforces
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file selection presets for a project type
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.php"},
			ExcludePatterns: []string{"vendor", ".git", "*Test.php"},
		},
		ProjectTypeSymfony: {
			IncludePatterns: []string{"**/*.php"},
			ExcludePatterns: []string{
				"vendor",
				"var",
				"public",
				"config",
				"migrations",
				"tests",
				"src/Kernel.php",
			},
		},
		ProjectTypeLaravel: {
			IncludePatterns: []string{"**/*.php"},
			ExcludePatterns: []string{
				"vendor",
				"bootstrap",
				"storage",
				"resources",
				"routes",
				"database",
				"tests",
				"*.blade.php",
			},
		},
	}
}

// GetStrictnessPresets returns the checked edges per strictness level
func GetStrictnessPresets() map[Strictness][]domain.Edge {
	return map[Strictness][]domain.Edge{
		StrictnessRelaxed:  {domain.EdgeConsumes, domain.EdgeProduces},
		StrictnessStandard: {domain.EdgeConsumes, domain.EdgeProduces, domain.EdgeThrows},
		StrictnessStrict:   domain.AllEdges(),
	}
}

// PresetConfig returns the default configuration adjusted to the presets
func PresetConfig(projectType ProjectType, strictness Strictness) *Config {
	cfg := DefaultConfig()
	if preset, ok := GetProjectPresets()[projectType]; ok {
		cfg.Analysis.IncludePatterns = preset.IncludePatterns
		cfg.Analysis.ExcludePatterns = preset.ExcludePatterns
	}
	if edges, ok := GetStrictnessPresets()[strictness]; ok {
		cfg.Graph.Edges = edgeNames(edges)
	}
	return cfg
}

var sectionComments = map[string]string{
	"analysis":    "Which PHP files are analyzed. Patterns use .gitignore syntax.",
	"graph":       "Graph built for the check. standard_names are never namespace-resolved;\nedges lists the relation kinds that are checked (implements, extends,\nconsumes, produces, throws).",
	"report":      "Graph built for the categorization report.",
	"roles":       "Where role tags come from. attribute_classes maps a role to the PHP\nattribute that carries it; mappings tag classes explicitly, e.g.\n  - class: App\\Domain\\Order\n    roles: [aggregate_root]",
	"cache":       "Extraction cache keyed by file content.",
	"output":      "Output format: text, json or yaml.",
	"performance": "max_goroutines: 0 uses one worker per CPU.",
	"telemetry":   "Prometheus textfile written after each run (empty disables it).",
}

const templateHeader = "# dddscan configuration\n# Checks the tactical DDD roles of a PHP code base.\n\n"

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) (string, error) {
	return renderTemplate(PresetConfig(projectType, strictness))
}

// GetMinimalConfigTemplate returns a template with the essential sections only
func GetMinimalConfigTemplate() (string, error) {
	cfg := DefaultConfig()
	minimal := struct {
		Analysis AnalysisConfig `yaml:"analysis"`
		Roles    RolesConfig    `yaml:"roles"`
	}{
		Analysis: cfg.Analysis,
		Roles:    cfg.Roles,
	}
	return renderTemplate(minimal)
}

func renderTemplate(v interface{}) (string, error) {
	var root yaml.Node
	if err := root.Encode(v); err != nil {
		return "", fmt.Errorf("encoding template: %w", err)
	}

	if root.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i]
			if comment, ok := sectionComments[key.Value]; ok {
				key.HeadComment = comment
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("rendering template: %w", err)
	}
	return buf.String(), nil
}
