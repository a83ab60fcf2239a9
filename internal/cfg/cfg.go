// Package cfg loads the tool's configuration, YAML file first (CONFIG_FILE)
// with environment variable overrides, and validates it before anything
// else starts.
package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"featimp/internal/model"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	DatasetPath string
	LabelColumn string

	Method     string
	Workers    int
	NSamples   int
	UseScaling bool
	Ascending  bool
	Scorer     string
	Seed       int64

	ModelEndpoint string
	ModelKind     string
	ModelTimeout  time.Duration
	TargetClasses []string
	CachePath     string

	Progress    bool
	MetricsPort int
	PlotWidth   int
}

// ConfigFile is the YAML layout.
type ConfigFile struct {
	Data struct {
		Path        string `yaml:"path"`
		LabelColumn string `yaml:"labelColumn"`
	} `yaml:"data"`

	Importance struct {
		Method     string `yaml:"method"`
		Workers    int    `yaml:"workers"`
		NSamples   int    `yaml:"nSamples"`
		UseScaling bool   `yaml:"useScaling"`
		Ascending  bool   `yaml:"ascending"`
		Scorer     string `yaml:"scorer"`
		Seed       int64  `yaml:"seed"`
	} `yaml:"importance"`

	Model struct {
		Endpoint string   `yaml:"endpoint"`
		Kind     string   `yaml:"kind"`
		Timeout  string   `yaml:"timeout"`
		Targets  []string `yaml:"targets"`
	} `yaml:"model"`

	System struct {
		CachePath   string `yaml:"cachePath"`
		Progress    bool   `yaml:"progress"`
		MetricsPort int    `yaml:"metricsPort"`
		PlotWidth   int    `yaml:"plotWidth"`
	} `yaml:"system"`
}

// Load resolves settings from the YAML file named by CONFIG_FILE, falling
// back to environment variables alone when it is unset.
func Load() (Settings, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	timeout, err := time.ParseDuration(config.Model.Timeout)
	if err != nil {
		timeout = 30 * time.Second
	}

	settings := Settings{
		DatasetPath:   getEnvOrDefault("DATASET_PATH", config.Data.Path),
		LabelColumn:   getEnvOrDefault("LABEL_COLUMN", config.Data.LabelColumn),
		Method:        getEnvOrDefault("IMPORTANCE_METHOD", defaultString(config.Importance.Method, "output-variance")),
		Workers:       getIntFromEnvOrConfig("IMPORTANCE_WORKERS", config.Importance.Workers),
		NSamples:      getIntFromEnvOrConfig("IMPORTANCE_SAMPLES", defaultInt(config.Importance.NSamples, 5000)),
		UseScaling:    getBoolFromEnvOrConfig("IMPORTANCE_SCALING", config.Importance.UseScaling),
		Ascending:     getBoolFromEnvOrConfig("IMPORTANCE_ASCENDING", config.Importance.Ascending),
		Scorer:        getEnvOrDefault("IMPORTANCE_SCORER", config.Importance.Scorer),
		Seed:          getInt64FromEnvOrConfig("IMPORTANCE_SEED", config.Importance.Seed),
		ModelEndpoint: getEnvOrDefault("MODEL_ENDPOINT", config.Model.Endpoint),
		ModelKind:     getEnvOrDefault("MODEL_KIND", defaultString(config.Model.Kind, "regressor")),
		ModelTimeout:  timeout,
		TargetClasses: config.Model.Targets,
		CachePath:     getEnvOrDefault("CACHE_PATH", config.System.CachePath),
		Progress:      getBoolFromEnvOrConfig("PROGRESS", config.System.Progress),
		MetricsPort:   getIntFromEnvOrConfig("METRICS_PORT", config.System.MetricsPort),
		PlotWidth:     getIntFromEnvOrConfig("PLOT_WIDTH", config.System.PlotWidth),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func loadFromEnv() (Settings, error) {
	datasetPath, err := getEnvRequired("DATASET_PATH")
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		DatasetPath:   datasetPath,
		LabelColumn:   os.Getenv("LABEL_COLUMN"), // optional
		Method:        getEnvOrDefault("IMPORTANCE_METHOD", "output-variance"),
		Workers:       getIntOrDefault("IMPORTANCE_WORKERS", 0),
		NSamples:      getIntOrDefault("IMPORTANCE_SAMPLES", 5000),
		UseScaling:    getBoolOrDefault("IMPORTANCE_SCALING", false),
		Ascending:     getBoolOrDefault("IMPORTANCE_ASCENDING", false),
		Scorer:        os.Getenv("IMPORTANCE_SCORER"), // optional, model default when empty
		Seed:          getInt64OrDefault("IMPORTANCE_SEED", 0),
		ModelEndpoint: os.Getenv("MODEL_ENDPOINT"),
		ModelKind:     getEnvOrDefault("MODEL_KIND", "regressor"),
		ModelTimeout:  getDurationOrDefault("MODEL_TIMEOUT", 30*time.Second),
		CachePath:     os.Getenv("CACHE_PATH"), // optional
		Progress:      getBoolOrDefault("PROGRESS", false),
		MetricsPort:   getIntOrDefault("METRICS_PORT", 0),
		PlotWidth:     getIntOrDefault("PLOT_WIDTH", 0),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

func getEnvRequired(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is missing", key)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	return configValue
}

func getInt64FromEnvOrConfig(key string, configValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	return configValue
}

func getBoolFromEnvOrConfig(key string, configValue bool) bool {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			return val
		}
	}
	return configValue
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// validateSettings performs validation of configuration values.
func validateSettings(settings *Settings) error {
	if settings.DatasetPath == "" {
		return fmt.Errorf("dataset path is required")
	}

	switch settings.Method {
	case "output-variance", "conditional-permutation":
	default:
		return fmt.Errorf("importance method must be output-variance or conditional-permutation, got %q", settings.Method)
	}

	if settings.Method == "conditional-permutation" && settings.LabelColumn == "" {
		return fmt.Errorf("conditional-permutation requires a label column")
	}

	if settings.NSamples <= 0 {
		return fmt.Errorf("sample count must be positive, got %d", settings.NSamples)
	}
	if settings.Workers < 0 {
		return fmt.Errorf("worker count cannot be negative, got %d", settings.Workers)
	}

	switch settings.ModelKind {
	case "regressor", "classifier", "probabilistic-classifier":
	default:
		return fmt.Errorf("model kind must be regressor, classifier, or probabilistic-classifier, got %q", settings.ModelKind)
	}

	if settings.ModelTimeout < time.Second || settings.ModelTimeout > 5*time.Minute {
		return fmt.Errorf("model timeout must be between 1s and 5m, got %v", settings.ModelTimeout)
	}

	if settings.MetricsPort != 0 && (settings.MetricsPort < 1024 || settings.MetricsPort > 65535) {
		return fmt.Errorf("metrics port must be between 1024 and 65535, got %d", settings.MetricsPort)
	}

	return nil
}

// Kind maps the configured model kind string onto the model package's
// Kind.
func (s *Settings) Kind() model.Kind {
	switch s.ModelKind {
	case "classifier":
		return model.KindClassifier
	case "probabilistic-classifier":
		return model.KindProbabilisticClassifier
	default:
		return model.KindRegressor
	}
}
