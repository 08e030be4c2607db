package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prguardian/prguardian/internal/adapter/cli"
	"github.com/prguardian/prguardian/internal/adapter/git"
	githubadapter "github.com/prguardian/prguardian/internal/adapter/github"
	"github.com/prguardian/prguardian/internal/adapter/llm/azure"
	llmhttp "github.com/prguardian/prguardian/internal/adapter/llm/http"
	"github.com/prguardian/prguardian/internal/adapter/llm/static"
	"github.com/prguardian/prguardian/internal/adapter/observability"
	"github.com/prguardian/prguardian/internal/adapter/store/sqlite"
	"github.com/prguardian/prguardian/internal/config"
	"github.com/prguardian/prguardian/internal/usecase/audit"
	"github.com/prguardian/prguardian/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "prguardian",
		EnvPrefix:   "PRGUARDIAN",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Observability.Logging)

	var auditLogger audit.Logger
	if logger != nil {
		auditLogger = observability.NewAuditLogger(logger)
	}

	analyzer := buildAnalyzer(cfg, logger)

	hub, err := buildGitHubClient(ctx, cfg.GitHub)
	if err != nil {
		// Local preview still works without credentials; the audit
		// command surfaces this error when it actually needs the API.
		log.Printf("warning: %v", err)
	}

	var store audit.Store
	var history cli.HistoryLister
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				store = sqliteStore
				history = sqliteStore
				defer sqliteStore.Close()
			}
		}
	}

	policy, err := buildEventPolicy(cfg.Review.Actions)
	if err != nil {
		return fmt.Errorf("review actions: %w", err)
	}

	var auditor cli.PullRequestAuditor
	if analyzer != nil {
		var source audit.DiffSource
		var sink audit.ReviewSink
		if hub != nil {
			source = hub
			sink = hub
		} else {
			source = unavailableHub{}
			sink = unavailableHub{}
		}
		a := audit.NewAuditor(source, analyzer, sink, store, auditLogger, policy)
		if cfg.Review.BodyPrefix != "" {
			a.BodyPrefix = cfg.Review.BodyPrefix
		}
		auditor = a
	}

	var differ cli.LocalDiffer
	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}
	differ = git.NewEngine(repoDir)

	root := cli.NewRootCommand(cli.Dependencies{
		Auditor:      auditor,
		Differ:       differ,
		History:      history,
		DefaultOwner: cfg.GitHub.Owner,
		DefaultRepo:  cfg.GitHub.Repo,
		Interactive:  audit.IsInteractive(),
		Version:      version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		if errors.Is(err, cli.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "prguardian"))
	}
	return paths
}

// buildLogger creates the structured logger, or nil when logging is disabled.
func buildLogger(cfg config.LoggingConfig) llmhttp.Logger {
	if !cfg.Enabled {
		return nil
	}

	logLevel := llmhttp.LogLevelInfo
	switch cfg.Level {
	case "debug":
		logLevel = llmhttp.LogLevelDebug
	case "error":
		logLevel = llmhttp.LogLevelError
	}

	logFormat := llmhttp.LogFormatHuman
	if cfg.Format == "json" {
		logFormat = llmhttp.LogFormatJSON
	}

	return llmhttp.NewDefaultLogger(logLevel, logFormat, cfg.RedactAPIKeys)
}

// buildAnalyzer picks the configured provider. Azure wins when enabled and
// fully configured; the static provider covers pipeline testing.
func buildAnalyzer(cfg config.Config, logger llmhttp.Logger) audit.Analyzer {
	if azureCfg, ok := cfg.Providers["azure"]; ok && azureCfg.Enabled {
		if azureCfg.Endpoint == "" || azureCfg.Deployment == "" || azureCfg.APIKey == "" {
			log.Println("Azure: endpoint, deployment, and apiKey are all required, skipping provider")
		} else {
			client := azure.NewHTTPClient(azureCfg.Endpoint, azureCfg.Deployment, azureCfg.APIKey, azureCfg.APIVersion)
			if timeout, err := time.ParseDuration(cfg.HTTP.Timeout); err == nil {
				client.SetTimeout(timeout)
			}
			client.SetRetryConfig(buildRetryConfig(cfg.HTTP))
			if logger != nil {
				client.SetLogger(logger)
			}
			return azure.NewProvider(client)
		}
	}

	if staticCfg, ok := cfg.Providers["static"]; ok && staticCfg.Enabled {
		model := staticCfg.Model
		if model == "" {
			model = "static-model"
		}
		return static.NewProvider(model, nil)
	}

	return nil
}

func buildRetryConfig(cfg config.HTTPConfig) llmhttp.RetryConfig {
	conf := llmhttp.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		conf.MaxRetries = cfg.MaxRetries
	}
	if d, err := time.ParseDuration(cfg.InitialBackoff); err == nil && d > 0 {
		conf.InitialBackoff = d
	}
	if d, err := time.ParseDuration(cfg.MaxBackoff); err == nil && d > 0 {
		conf.MaxBackoff = d
	}
	if cfg.BackoffMultiplier > 1 {
		conf.Multiplier = cfg.BackoffMultiplier
	}
	return conf
}

func buildGitHubClient(ctx context.Context, cfg config.GitHubConfig) (*githubadapter.Client, error) {
	httpClient, err := githubadapter.NewAuthenticatedHTTPClient(ctx, cfg.Token, githubadapter.AppCredentials{
		AppID:          cfg.App.ID,
		InstallationID: cfg.App.InstallationID,
		PrivateKeyPath: cfg.App.PrivateKeyPath,
	})
	if err != nil {
		return nil, err
	}

	client := githubadapter.NewClient(httpClient)
	if cfg.BaseURL != "" {
		if err := client.SetBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("github base URL: %w", err)
		}
	}
	return client, nil
}

func buildEventPolicy(actions config.ReviewActions) (audit.EventPolicy, error) {
	policy := audit.DefaultEventPolicy()

	var err error
	if policy.OnError, err = audit.ParseEventAction(actions.OnError); err != nil {
		return audit.EventPolicy{}, err
	}
	if policy.OnWarning, err = audit.ParseEventAction(actions.OnWarning); err != nil {
		return audit.EventPolicy{}, err
	}
	if policy.OnClean, err = audit.ParseEventAction(actions.OnClean); err != nil {
		return audit.EventPolicy{}, err
	}
	return policy, nil
}

// unavailableHub stands in for the hosting API when no credentials are
// configured, turning use into a clear error instead of a nil dereference.
type unavailableHub struct{}

var errNoCredentials = errors.New("no GitHub credentials: set GITHUB_TOKEN, github.token, or the github.app section")

func (unavailableHub) FetchDiff(ctx context.Context, owner, repo string, pullNumber int) (string, error) {
	return "", errNoCredentials
}

func (unavailableHub) HeadCommitSHA(ctx context.Context, owner, repo string, pullNumber int) (string, error) {
	return "", errNoCredentials
}

func (unavailableHub) CreateReview(ctx context.Context, input githubadapter.CreateReviewInput) (githubadapter.CreateReviewResult, error) {
	return githubadapter.CreateReviewResult{}, errNoCredentials
}

// Compile-time interface compliance checks
var _ audit.DiffSource = (*githubadapter.Client)(nil)
var _ audit.ReviewSink = (*githubadapter.Client)(nil)
var _ audit.Store = (*sqlite.Store)(nil)
var _ audit.Analyzer = (*azure.Provider)(nil)
var _ audit.Analyzer = (*static.Provider)(nil)
var _ cli.LocalDiffer = (*git.Engine)(nil)
