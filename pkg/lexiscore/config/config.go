package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/threshold"
)

// Profile holds file-level defaults for the score and filter commands.
type Profile struct {
	PromptFile        string `yaml:"prompt_file"`
	AllScoresFile     string `yaml:"all_scores_file"`
	FilteredWordsFile string `yaml:"filtered_words_file"`
	Model             string `yaml:"model"`
	BaseURL           string `yaml:"base_url"`
	MaxTokens         int    `yaml:"max_tokens"`
	BatchSize         int    `yaml:"batch_size"`
	MinScore          *int   `yaml:"min_score"`
	DBPath            string `yaml:"db_path"`
	Collate           string `yaml:"collate"`
}

// Default returns the built-in profile.
func Default() Profile {
	minScore := threshold.DefaultMinScore
	return Profile{
		PromptFile:        "prompt.txt",
		AllScoresFile:     "all_words_scores.txt",
		FilteredWordsFile: "filtered_words.txt",
		BatchSize:         batch.DefaultSize,
		MinScore:          &minScore,
	}
}

// LoadProfile reads a YAML profile and layers it over Default.
func LoadProfile(path string) (Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("%w: read profile: %w", internalerr.ErrIO, err)
	}
	var file Profile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return p, fmt.Errorf("%w: parse profile %s: %w", internalerr.ErrInvalidConfig, path, err)
	}
	p.merge(file)
	return p, nil
}

func (p *Profile) merge(o Profile) {
	if o.PromptFile != "" {
		p.PromptFile = o.PromptFile
	}
	if o.AllScoresFile != "" {
		p.AllScoresFile = o.AllScoresFile
	}
	if o.FilteredWordsFile != "" {
		p.FilteredWordsFile = o.FilteredWordsFile
	}
	if o.Model != "" {
		p.Model = o.Model
	}
	if o.BaseURL != "" {
		p.BaseURL = o.BaseURL
	}
	if o.MaxTokens != 0 {
		p.MaxTokens = o.MaxTokens
	}
	if o.BatchSize != 0 {
		p.BatchSize = o.BatchSize
	}
	if o.MinScore != nil {
		p.MinScore = o.MinScore
	}
	if o.DBPath != "" {
		p.DBPath = o.DBPath
	}
	if o.Collate != "" {
		p.Collate = o.Collate
	}
}

// MinScoreOrDefault returns the configured threshold.
func (p Profile) MinScoreOrDefault() int {
	if p.MinScore == nil {
		return threshold.DefaultMinScore
	}
	return *p.MinScore
}

// Validate checks the settings shared by every command.
func (p Profile) Validate() error {
	if p.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", internalerr.ErrInvalidConfig, p.BatchSize)
	}
	if p.AllScoresFile == "" {
		return fmt.Errorf("%w: scores file path required", internalerr.ErrInvalidConfig)
	}
	if p.FilteredWordsFile == "" {
		return fmt.Errorf("%w: filtered words file path required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Env holds secrets and overrides taken from the environment.
type Env struct {
	APIKey       string `env:"OPENROUTER_API_KEY"`
	DefaultModel string `env:"DEFAULT_MODEL"`
	BaseURL      string `env:"OPENROUTER_BASE_URL"`
}

// LoadEnv reads the environment. When dotenvPath exists its entries are
// exported into the process environment first and take precedence.
func LoadEnv(dotenvPath string) (Env, error) {
	var e Env
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := cleanenv.ReadConfig(dotenvPath, &e); err != nil {
				return e, fmt.Errorf("%w: read %s: %w", internalerr.ErrInvalidConfig, dotenvPath, err)
			}
			return e, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return e, fmt.Errorf("%w: stat %s: %w", internalerr.ErrIO, dotenvPath, err)
		}
	}
	if err := cleanenv.ReadEnv(&e); err != nil {
		return e, fmt.Errorf("%w: read env: %w", internalerr.ErrInvalidConfig, err)
	}
	return e, nil
}

// RequireAPIKey fails when no API key is available.
func (e Env) RequireAPIKey() error {
	if e.APIKey == "" {
		return fmt.Errorf("%w: OPENROUTER_API_KEY not set (export it or add it to a .env file)", internalerr.ErrInvalidConfig)
	}
	return nil
}

// ResolveModel picks the model: flag, then DEFAULT_MODEL, then profile,
// then fallback.
func ResolveModel(flagValue string, e Env, p Profile, fallback string) string {
	for _, m := range []string{flagValue, e.DefaultModel, p.Model} {
		if m != "" {
			return m
		}
	}
	return fallback
}
