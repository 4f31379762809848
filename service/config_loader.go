package service

import (
	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/config"
)

// RequestKind selects which graph rules of the configuration a request uses
type RequestKind int

const (
	// RequestCheck uses the graph section
	RequestCheck RequestKind = iota
	// RequestReport uses the report section
	RequestReport
)

// ConfigurationLoaderImpl turns configuration files into analysis requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads path, or discovers a config file upward from target when
// path is empty. Without any file the defaults are returned.
func (c *ConfigurationLoaderImpl) LoadConfig(path, target string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, target)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildRequest converts cfg into a request over paths
func (c *ConfigurationLoaderImpl) BuildRequest(cfg *config.Config, paths []string, kind RequestKind) (domain.ArchitectureRequest, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return domain.ArchitectureRequest{}, domain.NewConfigError("invalid configuration", err)
	}

	req := domain.ArchitectureRequest{
		Paths:            paths,
		Recursive:        cfg.Analysis.Recursive,
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,
		RespectGitignore: cfg.Analysis.RespectGitignore,
		StandardNames:    cfg.Graph.StandardNames,
		UseCache:         cfg.Cache.Enabled,
	}

	var err error
	switch kind {
	case RequestReport:
		req.Ignore = cfg.ReportIgnoreRules()
		req.Edges, err = cfg.ReportEdges()
	default:
		req.Ignore = cfg.GraphIgnoreRules()
		req.Edges, err = cfg.GraphEdges()
	}
	if err != nil {
		return domain.ArchitectureRequest{}, domain.NewConfigError("invalid edges", err)
	}

	if req.AttributeClasses, err = cfg.AttributeClasses(); err != nil {
		return domain.ArchitectureRequest{}, domain.NewConfigError("invalid attribute classes", err)
	}
	if req.RoleMappings, err = cfg.RoleMappings(); err != nil {
		return domain.ArchitectureRequest{}, domain.NewConfigError("invalid role mappings", err)
	}

	return req, nil
}
