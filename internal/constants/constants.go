package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "dddscan"

	// ConfigFileName is the config file written by init
	ConfigFileName = ".dddscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "DDDSCAN"

	// DefaultCacheDir holds the extraction cache, relative to the working directory
	DefaultCacheDir = ".dddscan/cache"
)

// ConfigFileNames lists the discovered config file names in order of preference
func ConfigFileNames() []string {
	return []string{
		".dddscan.yaml",
		".dddscan.yml",
		"dddscan.yaml",
		"dddscan.yml",
		".dddscan.json",
		"dddscan.json",
	}
}

// Command names
const (
	CommandCheck  = "check"
	CommandReport = "report"
	CommandGraph  = "graph"
	CommandWatch  = "watch"
)

// Exit codes of the check command
const (
	ExitOK         = 0
	ExitViolations = 1
	ExitError      = 2
)
