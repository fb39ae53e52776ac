package config

import (
	"fmt"
	"os"
	"strings"

	"gocohort/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GOCOHORT_ANALYSIS_WORKERS
const EnvPrefix = "GOCOHORT"

// Config represents the complete application configuration
type Config struct {
	Study    StudyConfig    `mapstructure:"study" yaml:"study"`
	Input    InputConfig    `mapstructure:"input" yaml:"input"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// StudyConfig describes the cohorts and how the raw export codes them
type StudyConfig struct {
	Cohorts        []string          `mapstructure:"cohorts" yaml:"cohorts"`
	ExpectedHigher string            `mapstructure:"expected_higher" yaml:"expected_higher"`
	CohortCodes    map[string]string `mapstructure:"cohort_codes" yaml:"cohort_codes"`
	GenderCodes    map[string]string `mapstructure:"gender_codes" yaml:"gender_codes"`
	MinAge         int               `mapstructure:"min_age" yaml:"min_age"`
	ScoreMax       float64           `mapstructure:"score_max" yaml:"score_max"`
}

// InputConfig holds the dataset location and positional column names
type InputConfig struct {
	Path    string   `mapstructure:"path" yaml:"path"`
	Sheet   string   `mapstructure:"sheet" yaml:"sheet"`
	Columns []string `mapstructure:"columns" yaml:"columns"`
}

// AnalysisConfig holds battery execution settings
type AnalysisConfig struct {
	Correction string  `mapstructure:"correction" yaml:"correction"`
	Alpha      float64 `mapstructure:"alpha" yaml:"alpha"`
	Workers    int     `mapstructure:"workers" yaml:"workers"`
}

// OutputConfig selects the renderer and destination ("" or "-" is stdout)
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Path   string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultColumns is the positional header layout of the questionnaire export
var DefaultColumns = []string{
	"participant", "age", "gender", "group",
	"behaviour_dom", "behaviour_nature", "behaviour_public", "behaviour_traffic",
	"emotion_dom", "emotion_nature", "emotion_public", "emotion_traffic",
	"country", "TIME_start", "TIME_end", "TIME_total",
}

// Corrections lists the accepted multiple-comparison policies
var Corrections = []string{"none", "bonferroni", "holm", "bh"}

// Formats lists the accepted output formats
var Formats = []string{"markdown", "html", "json", "yaml", "xlsx"}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("study.cohorts", []string{"stroke", "control"})
	v.SetDefault("study.expected_higher", "")
	v.SetDefault("study.cohort_codes", map[string]string{"1": "stroke", "2": "control"})
	v.SetDefault("study.gender_codes", map[string]string{"1": "female", "2": "male", "3": "other"})
	v.SetDefault("study.min_age", 60)
	v.SetDefault("study.score_max", 4.0)

	v.SetDefault("input.path", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.columns", DefaultColumns)

	v.SetDefault("analysis.correction", "none")
	v.SetDefault("analysis.alpha", 0.05)
	v.SetDefault("analysis.workers", 1)

	v.SetDefault("output.format", "markdown")
	v.SetDefault("output.path", "")

	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.format", "json")
}

// New returns a viper instance with defaults and environment binding.
// .env is loaded first when present.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer())
	v.AutomaticEnv()
	return v
}

func envReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Load reads configuration from defaults, an optional YAML file and the environment.
// An empty path looks for gocohort.yaml in the working directory.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("gocohort")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, missing := err.(viper.ConfigFileNotFoundError); path != "" || !missing {
			return nil, errors.WrapCode(err, errors.CodeConfigInvalid, "failed to read configuration file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapCode(err, errors.CodeConfigInvalid, "failed to parse configuration")
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading files or env
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	cfg.normalize()
	return cfg
}

func (c *Config) normalize() {
	c.Analysis.Correction = strings.ToLower(strings.TrimSpace(c.Analysis.Correction))
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "md" {
		c.Output.Format = "markdown"
	}
	if c.Study.ExpectedHigher == "" && len(c.Study.Cohorts) > 0 {
		c.Study.ExpectedHigher = c.Study.Cohorts[0]
	}
}

// Validate checks the configuration is usable for a run
func (c *Config) Validate() error {
	if len(c.Study.Cohorts) != 2 {
		return errors.ConfigInvalid(fmt.Sprintf("study.cohorts needs exactly two labels, got %d", len(c.Study.Cohorts)))
	}
	if c.Study.Cohorts[0] == "" || c.Study.Cohorts[1] == "" || c.Study.Cohorts[0] == c.Study.Cohorts[1] {
		return errors.ConfigInvalid("study.cohorts must be two distinct non-empty labels")
	}
	if c.Study.ExpectedHigher != c.Study.Cohorts[0] && c.Study.ExpectedHigher != c.Study.Cohorts[1] {
		return errors.ConfigInvalid(fmt.Sprintf("study.expected_higher %q is not a cohort", c.Study.ExpectedHigher))
	}
	for code, label := range c.Study.CohortCodes {
		if label != c.Study.Cohorts[0] && label != c.Study.Cohorts[1] {
			return errors.ConfigInvalid(fmt.Sprintf("study.cohort_codes maps %q to unknown cohort %q", code, label))
		}
	}
	if c.Study.ScoreMax <= 0 {
		return errors.ConfigInvalid("study.score_max must be positive")
	}
	if len(c.Input.Columns) == 0 {
		return errors.ConfigInvalid("input.columns cannot be empty")
	}
	if !contains(Corrections, c.Analysis.Correction) {
		return errors.ConfigInvalid(fmt.Sprintf("analysis.correction must be one of %s", strings.Join(Corrections, ", ")))
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid(fmt.Sprintf("analysis.alpha must be in (0,1), got %g", c.Analysis.Alpha))
	}
	if c.Analysis.Workers < 1 {
		return errors.ConfigInvalid("analysis.workers must be at least 1")
	}
	if !contains(Formats, c.Output.Format) {
		return errors.ConfigInvalid(fmt.Sprintf("output.format must be one of %s", strings.Join(Formats, ", ")))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// CodeVersion reports the build version recorded in run manifests
func CodeVersion() string {
	return getEnvOrDefault("GOCOHORT_CODE_VERSION", Version)
}

// Version is overridden at build time with -ldflags
var Version = "0.1.0"
