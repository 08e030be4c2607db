package config

// Config represents the full application configuration.
type Config struct {
	GitHub        GitHubConfig              `yaml:"github"`
	Providers     map[string]ProviderConfig `yaml:"providers"`
	HTTP          HTTPConfig                `yaml:"http"`
	Review        ReviewConfig              `yaml:"review"`
	Git           GitConfig                 `yaml:"git"`
	Store         StoreConfig               `yaml:"store"`
	Observability ObservabilityConfig       `yaml:"observability"`
}

// GitHubConfig configures access to the hosting API.
type GitHubConfig struct {
	// Owner and Repo are the default target when the CLI flags are omitted.
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// Token is a personal access token. The GITHUB_TOKEN environment
	// variable takes precedence when set.
	Token string `yaml:"token"`

	// BaseURL overrides the API endpoint for GitHub Enterprise.
	BaseURL string `yaml:"baseURL"`

	// App configures GitHub App installation authentication. When all
	// three fields are set it takes precedence over Token.
	App AppConfig `yaml:"app"`
}

// AppConfig holds GitHub App installation credentials.
type AppConfig struct {
	ID             int64  `yaml:"id"`
	InstallationID int64  `yaml:"installationID"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`

	// Azure OpenAI specific settings.
	Endpoint   string `yaml:"endpoint"`
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"apiVersion"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// ReviewConfig configures how reviews are submitted.
type ReviewConfig struct {
	// BodyPrefix opens the review summary body.
	BodyPrefix string `yaml:"bodyPrefix"`

	// Actions maps finding severities to review events.
	Actions ReviewActions `yaml:"actions"`
}

// ReviewActions maps finding severities to review events.
// Valid action values (case-insensitive): approve, comment, request_changes.
type ReviewActions struct {
	// OnError is the action when any error severity finding survives.
	OnError string `yaml:"onError"`

	// OnWarning is the action when warnings survive but no errors.
	OnWarning string `yaml:"onWarning"`

	// OnClean is the action when only informational findings survive.
	OnClean string `yaml:"onClean"`
}

// GitConfig configures the local repository used for preview diffs.
type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// StoreConfig configures the audit history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures request/response logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}
