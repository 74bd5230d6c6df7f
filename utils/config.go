package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" json:"server"`
	Model       ModelConfig       `yaml:"model" json:"model"`
	Advisor     AdvisorConfig     `yaml:"advisor" json:"advisor"`
	Persistence PersistenceConfig `yaml:"persistence" json:"persistence"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string   `yaml:"host" json:"host"`
	Port         int      `yaml:"port" json:"port"`
	ReadTimeout  int      `yaml:"read_timeout" json:"read_timeout"`   // seconds
	WriteTimeout int      `yaml:"write_timeout" json:"write_timeout"` // seconds
	EnableCORS   bool     `yaml:"enable_cors" json:"enable_cors"`
	CORSOrigins  []string `yaml:"cors_origins" json:"cors_origins"`
}

// ModelConfig holds classifier model configuration
type ModelConfig struct {
	Path         string `yaml:"path" json:"path"`                   // trained model JSON file
	ProfilesPath string `yaml:"profiles_path" json:"profiles_path"` // crop profile tables (YAML)
	TopN         int    `yaml:"top_n" json:"top_n"`                 // default prediction count
}

// AdvisorConfig holds AI agronomist configuration
type AdvisorConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	APIKey      string  `yaml:"api_key" json:"api_key"`
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	ModelName   string  `yaml:"model_name" json:"model_name"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	Timeout     int     `yaml:"timeout" json:"timeout"` // seconds
}

// PersistenceConfig holds prediction history configuration
type PersistenceConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	DatabasePath  string `yaml:"database_path" json:"database_path"`
	RetentionDays int    `yaml:"retention_days" json:"retention_days"`
	CleanupCron   string `yaml:"cleanup_cron" json:"cleanup_cron"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format   string `yaml:"format" json:"format"` // json, text
	Output   string `yaml:"output" json:"output"` // stdout, file, both
	FilePath string `yaml:"file_path" json:"file_path"`
}

// ConfigManager manages application configuration
type ConfigManager struct {
	config     *Config
	configPath string
	mutex      sync.RWMutex
}

// NewConfigManager creates a new configuration manager
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config: getDefaultConfig(),
	}
}

// getDefaultConfig returns the built-in default configuration
func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
			EnableCORS:   true,
			CORSOrigins:  []string{"*"},
		},
		Model: ModelConfig{
			Path:         "models/crop_model.json",
			ProfilesPath: "configs/crop_profiles.yaml",
			TopN:         3,
		},
		Advisor: AdvisorConfig{
			Enabled:     false,
			BaseURL:     "https://api.openai.com/v1",
			ModelName:   "gpt-4o-mini",
			Temperature: 0.7,
			MaxTokens:   1024,
			Timeout:     60,
		},
		Persistence: PersistenceConfig{
			Enabled:       false,
			DatabasePath:  "data/history.db",
			RetentionDays: 90,
			CleanupCron:   "0 3 * * *",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (cm *ConfigManager) LoadFromFile(configPath string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newConfig := getDefaultConfig()
	ext := filepath.Ext(configPath)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, newConfig); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, newConfig); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err := validateConfig(newConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cm.config = newConfig
	cm.configPath = configPath

	return nil
}

// LoadFromEnvironment overrides configuration with environment variables
func (cm *ConfigManager) LoadFromEnvironment() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if host := os.Getenv("AGROMIND_HOST"); host != "" {
		cm.config.Server.Host = host
	}

	if port := os.Getenv("AGROMIND_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cm.config.Server.Port = p
		}
	}

	if logLevel := os.Getenv("AGROMIND_LOG_LEVEL"); logLevel != "" {
		cm.config.Logging.Level = logLevel
	}

	if modelPath := os.Getenv("AGROMIND_MODEL_PATH"); modelPath != "" {
		cm.config.Model.Path = modelPath
	}

	if apiKey := os.Getenv("AGROMIND_ADVISOR_API_KEY"); apiKey != "" {
		cm.config.Advisor.APIKey = apiKey
		cm.config.Advisor.Enabled = true
	}
}

// validateConfig checks configuration invariants
func validateConfig(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", config.Server.Port)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error", "fatal", "":
	default:
		return fmt.Errorf("unknown log level: %s", config.Logging.Level)
	}

	if config.Model.TopN < 1 {
		return fmt.Errorf("model top_n must be at least 1, got %d", config.Model.TopN)
	}

	if config.Persistence.Enabled && config.Persistence.DatabasePath == "" {
		return fmt.Errorf("persistence enabled but database_path is empty")
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.config
}

// Global configuration manager
var globalConfigManager *ConfigManager
var configOnce sync.Once

// GetConfigManager returns the global configuration manager
func GetConfigManager() *ConfigManager {
	configOnce.Do(func() {
		globalConfigManager = NewConfigManager()
	})
	return globalConfigManager
}

// LoadGlobalConfig loads the global configuration from the default locations
func LoadGlobalConfig() error {
	cm := GetConfigManager()

	for _, path := range []string{"config.yaml", "config.yml", "config.json"} {
		if _, err := os.Stat(path); err == nil {
			if err := cm.LoadFromFile(path); err != nil {
				return err
			}
			break
		}
	}

	cm.LoadFromEnvironment()
	return nil
}
