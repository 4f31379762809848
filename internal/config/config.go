package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/analyzer"
	"github.com/ludo-technologies/dddscan/internal/constants"
)

// Default performance settings
const (
	// DefaultMaxGoroutines of 0 lets the executor pick runtime.NumCPU
	DefaultMaxGoroutines = 0

	// DefaultTimeoutSeconds bounds a whole extraction run
	DefaultTimeoutSeconds = 300
)

// Config represents the main configuration structure
type Config struct {
	// Analysis holds file selection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Graph holds the rules used to build and reduce the checked graph
	Graph GraphConfig `json:"graph" mapstructure:"graph" yaml:"graph"`

	// Report holds the rules used by the categorization report
	Report ReportConfig `json:"report" mapstructure:"report" yaml:"report"`

	// Roles tells where role tags come from
	Roles RolesConfig `json:"roles" mapstructure:"roles" yaml:"roles"`

	// Cache holds extraction cache configuration
	Cache CacheConfig `json:"cache" mapstructure:"cache" yaml:"cache"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance holds concurrency configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Telemetry holds metrics export configuration
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry" yaml:"telemetry"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by .gitignore in the analyzed root
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// IgnoreConfig lists graph identities dropped by the reducers
type IgnoreConfig struct {
	Names      []string `json:"names" mapstructure:"names" yaml:"names"`
	Prefixes   []string `json:"prefixes" mapstructure:"prefixes" yaml:"prefixes"`
	Substrings []string `json:"substrings" mapstructure:"substrings" yaml:"substrings"`
}

// GraphConfig holds the graph rules of the check
type GraphConfig struct {
	// StandardNames are built-in type names that are never namespace-resolved
	StandardNames []string `json:"standard_names" mapstructure:"standard_names" yaml:"standard_names"`

	// Edges kept by the relation reducer (empty = all)
	Edges []string `json:"edges" mapstructure:"edges" yaml:"edges"`

	Ignore IgnoreConfig `json:"ignore" mapstructure:"ignore" yaml:"ignore"`
}

// ReportConfig holds the graph rules of the report
type ReportConfig struct {
	Edges  []string     `json:"edges" mapstructure:"edges" yaml:"edges"`
	Ignore IgnoreConfig `json:"ignore" mapstructure:"ignore" yaml:"ignore"`
}

// RoleMapping tags one class explicitly
type RoleMapping struct {
	Class string   `json:"class" mapstructure:"class" yaml:"class"`
	Roles []string `json:"roles" mapstructure:"roles" yaml:"roles"`
}

// RolesConfig holds role tag sources
type RolesConfig struct {
	// AttributeClasses maps a role name to the attribute class that carries it
	AttributeClasses map[string]string `json:"attribute_classes" mapstructure:"attribute_classes" yaml:"attribute_classes"`

	// Mappings tag classes that cannot carry attributes
	Mappings []RoleMapping `json:"mappings" mapstructure:"mappings" yaml:"mappings"`
}

// CacheConfig holds extraction cache configuration
type CacheConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Directory of the badger store, relative to the working directory
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails lists every relation in text output
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`
}

// PerformanceConfig holds concurrency configuration
type PerformanceConfig struct {
	MaxGoroutines  int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// TelemetryConfig holds metrics export configuration
type TelemetryConfig struct {
	// MetricsFile receives a prometheus textfile after each run (empty = off)
	MetricsFile string `json:"metrics_file" mapstructure:"metrics_file" yaml:"metrics_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	attributeClasses := make(map[string]string)
	for role, class := range analyzer.DefaultAttributeClasses() {
		attributeClasses[string(role)] = class
	}

	return &Config{
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.php"},
			ExcludePatterns: []string{
				"vendor",
				"var",
				"node_modules",
				".git",
				"*.blade.php",
				"*Test.php",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
		Graph: GraphConfig{
			StandardNames: analyzer.DefaultStandardNames(),
			Edges:         edgeNames(domain.AllEdges()),
			Ignore:        ignoreConfig(analyzer.DefaultIgnoreRules()),
		},
		Report: ReportConfig{
			Edges:  edgeNames(analyzer.DefaultReportEdges()),
			Ignore: ignoreConfig(analyzer.DefaultReportIgnoreRules()),
		},
		Roles: RolesConfig{
			AttributeClasses: attributeClasses,
			Mappings:         []RoleMapping{},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Directory: constants.DefaultCacheDir,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

func edgeNames(edges []domain.Edge) []string {
	names := make([]string, len(edges))
	for i, e := range edges {
		names[i] = string(e)
	}
	return names
}

func ignoreConfig(rules domain.IgnoreRules) IgnoreConfig {
	return IgnoreConfig{
		Names:      append([]string{}, rules.Names...),
		Prefixes:   append([]string{}, rules.Prefixes...),
		Substrings: append([]string{}, rules.Substrings...),
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration, discovering the file upward from
// targetPath when configPath is empty
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = FindConfigFile(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	config := DefaultConfig()
	// A section present in the file replaces the default map wholesale
	if v.IsSet("roles.attribute_classes") {
		config.Roles.AttributeClasses = nil
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindConfigFile looks for a configuration file from targetPath up to the
// filesystem root, then in the current directory and the user config dir.
func FindConfigFile(targetPath string) string {
	candidates := constants.ConfigFileNames()

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if _, err := c.GraphEdges(); err != nil {
		return fmt.Errorf("graph.edges: %w", err)
	}
	if _, err := c.ReportEdges(); err != nil {
		return fmt.Errorf("report.edges: %w", err)
	}

	if _, err := c.AttributeClasses(); err != nil {
		return fmt.Errorf("roles.attribute_classes: %w", err)
	}
	if _, err := c.RoleMappings(); err != nil {
		return fmt.Errorf("roles.mappings: %w", err)
	}

	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Directory) == "" {
		return fmt.Errorf("cache.directory cannot be empty when the cache is enabled")
	}

	switch c.Output.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	return nil
}

// GraphEdges parses graph.edges
func (c *Config) GraphEdges() ([]domain.Edge, error) {
	return parseEdges(c.Graph.Edges)
}

// ReportEdges parses report.edges
func (c *Config) ReportEdges() ([]domain.Edge, error) {
	return parseEdges(c.Report.Edges)
}

func parseEdges(names []string) ([]domain.Edge, error) {
	edges := make([]domain.Edge, 0, len(names))
	for _, name := range names {
		e, err := domain.ParseEdge(name)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// AttributeClasses parses roles.attribute_classes
func (c *Config) AttributeClasses() (map[domain.Role]string, error) {
	classes := make(map[domain.Role]string, len(c.Roles.AttributeClasses))
	for name, class := range c.Roles.AttributeClasses {
		role, err := domain.ParseRole(name)
		if err != nil {
			return nil, err
		}
		class = strings.TrimLeft(strings.TrimSpace(class), `\`)
		if class == "" {
			return nil, fmt.Errorf("empty attribute class for role %s", role)
		}
		classes[role] = class
	}
	return classes, nil
}

// RoleMappings parses roles.mappings
func (c *Config) RoleMappings() (map[string][]domain.Role, error) {
	mappings := make(map[string][]domain.Role, len(c.Roles.Mappings))
	for _, m := range c.Roles.Mappings {
		class := strings.TrimSpace(m.Class)
		if class == "" {
			return nil, fmt.Errorf("mapping without class")
		}
		for _, name := range m.Roles {
			role, err := domain.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", class, err)
			}
			mappings[class] = append(mappings[class], role)
		}
	}
	return mappings, nil
}

// GraphIgnoreRules returns graph.ignore as reducer rules
func (c *Config) GraphIgnoreRules() domain.IgnoreRules {
	return c.Graph.Ignore.rules()
}

// ReportIgnoreRules returns report.ignore as reducer rules
func (c *Config) ReportIgnoreRules() domain.IgnoreRules {
	return c.Report.Ignore.rules()
}

func (i IgnoreConfig) rules() domain.IgnoreRules {
	return domain.IgnoreRules{
		Names:      i.Names,
		Prefixes:   i.Prefixes,
		Substrings: i.Substrings,
	}
}
