package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ErrMissing is wrapped by every error about a required setting that is not set.
var ErrMissing = errors.New("required setting is missing")

const (
	// ProviderOllama selects the local Ollama endpoint.
	ProviderOllama = "ollama"
	// ProviderVertex selects Gemini on Vertex AI.
	ProviderVertex = "vertex"
)

// Config represents the application configuration.
type Config struct {
	Google      GoogleConfig
	Preferences PreferencesConfig
	Model       ModelConfig
	Storage     StorageConfig
	Research    ResearchConfig
	MaxEmails   int
}

// GoogleConfig holds mail and document provider settings.
type GoogleConfig struct {
	CredentialsPath string
	GmailTokenPath  string
	DocsTokenPath   string
	ResumeDocID     string
	ResumeFile      string
}

// PreferencesConfig holds what the user is looking for.
type PreferencesConfig struct {
	Preferences          []string
	Location             string
	MinScoreResearch     int
	MinScoreNotification int
}

// ModelConfig holds language model endpoint settings.
type ModelConfig struct {
	Provider       string
	OllamaBaseURL  string
	OllamaModel    string
	VertexProject  string
	VertexLocation string
	VertexModel    string
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	JobsDir         string
	ResumeCacheFile string
	IndexFile       string
	CoverLettersDir string
	HighlightsDir   string
}

// ResearchConfig holds company research settings.
type ResearchConfig struct {
	CacheDir     string
	CacheTTL     time.Duration
	RedisURL     string
	MaxURLs      int
	FetchTimeout time.Duration
}

// Load reads configuration from the environment, after loading envFile (or ./.env) if it exists.
func Load(envFile string) (cfg Config, err error) {
	err = loadEnvFile(envFile)
	if err != nil {
		return cfg, err
	}

	cfg = Config{
		Google: GoogleConfig{
			CredentialsPath: getEnv("GMAIL_CREDENTIALS_PATH", "credentials.json"),
			GmailTokenPath:  getEnv("GMAIL_TOKEN_PATH", "gmail_token.json"),
			DocsTokenPath:   getEnv("DOCS_TOKEN_PATH", "drive_token.json"),
			ResumeDocID:     os.Getenv("GOOGLE_DRIVE_RESUME_ID"),
			ResumeFile:      os.Getenv("RESUME_FILE"),
		},
		Preferences: PreferencesConfig{
			Preferences: splitList(os.Getenv("USER_PREFERENCES")),
			Location:    os.Getenv("USER_LOCATION"),
		},
		Model: ModelConfig{
			Provider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderOllama)),
			OllamaBaseURL:  strings.TrimRight(getEnv("OLLAMA_BASE_URL", "http://localhost:11434"), "/"),
			OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.1:8b"),
			VertexProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
			VertexLocation: getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
			VertexModel:    getEnv("VERTEX_MODEL", "gemini-1.5-flash"),
		},
		Storage: StorageConfig{
			JobsDir:         getEnv("JOBS_DIR", "jobs"),
			ResumeCacheFile: getEnv("RESUME_CACHE_FILE", "resume_cache.json"),
			IndexFile:       getEnv("INDEX_FILE", "job_index.json"),
			CoverLettersDir: getEnv("COVER_LETTERS_DIR", "cover_letters"),
			HighlightsDir:   getEnv("HIGHLIGHTS_DIR", "resume_highlights"),
		},
		Research: ResearchConfig{
			CacheDir: getEnv("RESEARCH_CACHE_DIR", "research_cache"),
			RedisURL: os.Getenv("REDIS_URL"),
		},
	}

	cfg.Preferences.MinScoreResearch, err = getEnvInt("MIN_SCORE_FOR_RESEARCH", 70)
	if err != nil {
		return cfg, err
	}

	cfg.Preferences.MinScoreNotification, err = getEnvInt("MIN_SCORE_FOR_NOTIFICATION", 80)
	if err != nil {
		return cfg, err
	}

	cfg.MaxEmails, err = getEnvInt("MAX_EMAILS", 50)
	if err != nil {
		return cfg, err
	}

	cfg.Research.MaxURLs, err = getEnvInt("RESEARCH_MAX_URLS", 5)
	if err != nil {
		return cfg, err
	}

	cfg.Research.CacheTTL, err = getEnvDuration("RESEARCH_CACHE_TTL", 7*24*time.Hour)
	if err != nil {
		return cfg, err
	}

	cfg.Research.FetchTimeout, err = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks value ranges and provider-specific requirements.
func (c *Config) Validate() (err error) {
	err = checkThreshold("MIN_SCORE_FOR_RESEARCH", c.Preferences.MinScoreResearch)
	if err != nil {
		return err
	}

	err = checkThreshold("MIN_SCORE_FOR_NOTIFICATION", c.Preferences.MinScoreNotification)
	if err != nil {
		return err
	}

	if c.MaxEmails < 1 {
		err = errors.Errorf("MAX_EMAILS must be positive, got %d", c.MaxEmails)
		return err
	}

	if c.Research.MaxURLs < 1 {
		err = errors.Errorf("RESEARCH_MAX_URLS must be positive, got %d", c.Research.MaxURLs)
		return err
	}

	if c.Research.FetchTimeout <= 0 {
		err = errors.Errorf("FETCH_TIMEOUT must be positive, got %s", c.Research.FetchTimeout)
		return err
	}

	if c.Research.CacheTTL < 0 {
		err = errors.Errorf("RESEARCH_CACHE_TTL must not be negative, got %s", c.Research.CacheTTL)
		return err
	}

	switch c.Model.Provider {
	case ProviderOllama:
		if c.Model.OllamaBaseURL == "" {
			err = errors.Wrap(ErrMissing, "OLLAMA_BASE_URL")
			return err
		}
	case ProviderVertex:
		if c.Model.VertexProject == "" {
			err = errors.Wrap(ErrMissing, "GOOGLE_CLOUD_PROJECT (required when LLM_PROVIDER=vertex)")
			return err
		}
	default:
		err = errors.Errorf("unknown LLM_PROVIDER '%s': must be '%s' or '%s'", c.Model.Provider, ProviderOllama, ProviderVertex)
		return err
	}

	if c.Storage.JobsDir == "" {
		err = errors.Wrap(ErrMissing, "JOBS_DIR")
		return err
	}

	return err
}

// EnsureDirectories creates the job store and output directories.
func (c *Config) EnsureDirectories() (err error) {
	dirs := []string{c.Storage.JobsDir, c.Storage.CoverLettersDir, c.Storage.HighlightsDir}
	if c.Research.RedisURL == "" && c.Research.CacheTTL > 0 {
		dirs = append(dirs, c.Research.CacheDir)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		err = os.MkdirAll(dir, 0750)
		if err != nil {
			err = errors.Wrapf(err, "failed to create directory: %s", dir)
			return err
		}
	}

	return err
}

func loadEnvFile(envFile string) (err error) {
	path := envFile
	if path == "" {
		path = ".env"
		_, statErr := os.Stat(path)
		if os.IsNotExist(statErr) {
			return err
		}
	}

	// godotenv.Load never overrides variables already present in the environment.
	err = godotenv.Load(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to load env file: %s", path)
		return err
	}

	return err
}

func checkThreshold(name string, value int) (err error) {
	if value < 0 || value > 100 {
		err = errors.Errorf("%s must be between 0 and 100, got %d", name, value)
		return err
	}
	return err
}

func getEnv(key, def string) (value string) {
	value = os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func getEnvInt(key string, def int) (value int, err error) {
	raw := os.Getenv(key)
	if raw == "" {
		value = def
		return value, err
	}

	value, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		err = errors.Errorf("%s must be an integer, got %q", key, raw)
		return value, err
	}

	return value, err
}

func getEnvDuration(key string, def time.Duration) (value time.Duration, err error) {
	raw := os.Getenv(key)
	if raw == "" {
		value = def
		return value, err
	}

	value, err = time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		err = errors.Errorf("%s must be a duration like 10s or 168h, got %q", key, raw)
		return value, err
	}

	return value, err
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(raw string) (items []string) {
	items = []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}
