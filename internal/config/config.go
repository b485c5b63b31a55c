package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/madmaxieee/cardtext/internal/client"
	"github.com/madmaxieee/cardtext/internal/estimate"
	"github.com/madmaxieee/cardtext/internal/utils"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	*ConfigFile
	// set from the command line, wins over General.Model
	OverrideModel *string
}

type ConfigFile struct {
	General   GeneralConfig
	Pricing   PricingConfig
	Providers []*ProviderConfig
}

type GeneralConfig struct {
	// in a form of provider/model
	Model       *string
	Temperature *float64
	MaxTokens   *int64 `toml:"max_tokens"`
	// Go durations, e.g. "1s", "500ms"
	Delay    *string
	Cooldown *string
}

type PricingConfig struct {
	InputPer1K  *float64 `toml:"input_per_1k"`
	OutputPer1K *float64 `toml:"output_per_1k"`
}

type ProviderConfig struct {
	Name      string
	BaseURL   *string `toml:"base_url"`
	APIKey    *string `toml:"api_key"`
	APIKeyEnv *string `toml:"api_key_env"`
}

// ConfigError reports a missing or invalid setting. It is raised before any
// network activity.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

const (
	DefaultModel       = "openai/gpt-4o"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
	DefaultDelay       = time.Second
	DefaultCooldown    = 5 * time.Second
)

func defaultConfig() Config {
	return Config{
		ConfigFile: &ConfigFile{
			General: GeneralConfig{
				Model:       utils.StringPtr(DefaultModel),
				Temperature: utils.Float64Ptr(DefaultTemperature),
				MaxTokens:   utils.Int64Ptr(DefaultMaxTokens),
			},
			Providers: []*ProviderConfig{
				{
					Name:      "openai",
					BaseURL:   utils.StringPtr("https://api.openai.com/v1"),
					APIKeyEnv: utils.StringPtr("OPENAI_API_KEY"),
				},
				{
					Name:      "google",
					BaseURL:   utils.StringPtr("https://generativelanguage.googleapis.com/v1beta/openai"),
					APIKeyEnv: utils.StringPtr("GOOGLE_API_KEY"),
				},
				{
					// the anthropic SDK knows its own base URL
					Name:      "anthropic",
					APIKeyEnv: utils.StringPtr("ANTHROPIC_API_KEY"),
				},
			},
		},
	}
}

// LoadEnv loads variables from .env files into the process environment.
// Missing files are ignored, variables already set are kept.
func LoadEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

func (cfg *Config) GetProviderByName(name string) *ProviderConfig {
	for _, provider := range cfg.Providers {
		if provider.Name == name {
			return provider
		}
	}
	return nil
}

func (cfg *Config) GetModel() string {
	if cfg.OverrideModel != nil {
		return *cfg.OverrideModel
	}
	if cfg.ConfigFile == nil {
		return DefaultModel
	}
	return utils.DefaultString(cfg.General.Model, DefaultModel)
}

func (cfg *Config) GetTemperature() float64 {
	if cfg.ConfigFile == nil {
		return DefaultTemperature
	}
	return utils.DefaultFloat64(cfg.General.Temperature, DefaultTemperature)
}

func (cfg *Config) GetMaxTokens() int64 {
	if cfg.ConfigFile == nil {
		return DefaultMaxTokens
	}
	return utils.DefaultInt64(cfg.General.MaxTokens, DefaultMaxTokens)
}

func (cfg *Config) GetDelay() (time.Duration, error) {
	if cfg.ConfigFile == nil {
		return DefaultDelay, nil
	}
	return parseDuration("general.delay", cfg.General.Delay, DefaultDelay)
}

func (cfg *Config) GetCooldown() (time.Duration, error) {
	if cfg.ConfigFile == nil {
		return DefaultCooldown, nil
	}
	return parseDuration("general.cooldown", cfg.General.Cooldown, DefaultCooldown)
}

func parseDuration(key string, value *string, defaultValue time.Duration) (time.Duration, error) {
	if value == nil {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return 0, &ConfigError{Key: key, Err: err}
	}
	if d < 0 {
		return 0, &ConfigError{Key: key, Err: errors.New("must not be negative")}
	}
	return d, nil
}

// GetRates returns the default cost estimation rates with any pricing
// overrides from the config file applied.
func (cfg *Config) GetRates() estimate.Rates {
	rates := estimate.DefaultRates
	if cfg.ConfigFile == nil {
		return rates
	}
	rates.InputPer1K = utils.DefaultFloat64(cfg.Pricing.InputPer1K, rates.InputPer1K)
	rates.OutputPer1K = utils.DefaultFloat64(cfg.Pricing.OutputPer1K, rates.OutputPer1K)
	return rates
}

// GetClientOptions resolves a provider/model string into everything needed to
// build a client, including the API key.
func (cfg *Config) GetClientOptions(modelStr string) (*client.ClientOptions, error) {
	providerName, modelName, err := client.ParseModelString(modelStr)
	if err != nil {
		return nil, &ConfigError{Key: "model", Err: err}
	}

	var provider *ProviderConfig
	if cfg.ConfigFile != nil {
		provider = cfg.GetProviderByName(providerName)
	}
	if provider == nil {
		return nil, &ConfigError{Key: "providers", Err: errors.New("provider " + providerName + " not found")}
	}

	apiKey, err := provider.GetAPIKey()
	if err != nil {
		return nil, err
	}

	return &client.ClientOptions{
		ProviderName: providerName,
		ModelName:    modelName,
		BaseURL:      utils.DefaultString(provider.BaseURL, ""),
		APIKey:       *apiKey,
	}, nil
}

func (cfg *Config) Merge(other *Config) error {
	if other == nil {
		return nil
	}

	if other.OverrideModel != nil {
		cfg.OverrideModel = other.OverrideModel
	}

	if other.ConfigFile == nil {
		return nil
	}
	if cfg.ConfigFile == nil {
		cfg.ConfigFile = &ConfigFile{}
	}

	err := cfg.General.Merge(&other.General)
	if err != nil {
		return err
	}

	err = cfg.Pricing.Merge(&other.Pricing)
	if err != nil {
		return err
	}

	for _, overrideProvider := range other.Providers {
		existingProvider := cfg.GetProviderByName(overrideProvider.Name)
		if existingProvider == nil {
			cfg.Providers = append(cfg.Providers, overrideProvider)
		} else {
			err := existingProvider.Merge(overrideProvider)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (prov *ProviderConfig) Merge(other *ProviderConfig) error {
	if other == nil {
		return nil
	}
	if prov.Name != other.Name {
		return errors.New("cannot merge provider configs with different names")
	}
	if other.BaseURL != nil {
		prov.BaseURL = other.BaseURL
	}
	if other.APIKey != nil {
		prov.APIKey = other.APIKey
	}
	if other.APIKeyEnv != nil {
		prov.APIKeyEnv = other.APIKeyEnv
	}
	return nil
}

func (prov *ProviderConfig) GetAPIKey() (*string, error) {
	if prov.APIKey != nil && *prov.APIKey != "" {
		return prov.APIKey, nil
	}
	if prov.APIKeyEnv != nil {
		if value, exists := os.LookupEnv(*prov.APIKeyEnv); exists && value != "" {
			return &value, nil
		}
		return nil, &ConfigError{
			Key: *prov.APIKeyEnv,
			Err: errors.New("environment variable is not set, please set it in your .env file"),
		}
	}
	return nil, &ConfigError{
		Key: "providers." + prov.Name,
		Err: errors.New("no API key or environment variable specified"),
	}
}

func (cfg *GeneralConfig) Merge(other *GeneralConfig) error {
	if other == nil {
		return nil
	}
	if other.Model != nil {
		cfg.Model = other.Model
	}
	if other.Temperature != nil {
		cfg.Temperature = other.Temperature
	}
	if other.MaxTokens != nil {
		cfg.MaxTokens = other.MaxTokens
	}
	if other.Delay != nil {
		cfg.Delay = other.Delay
	}
	if other.Cooldown != nil {
		cfg.Cooldown = other.Cooldown
	}
	return nil
}

func (p *PricingConfig) Merge(other *PricingConfig) error {
	if other == nil {
		return nil
	}
	if other.InputPer1K != nil {
		p.InputPer1K = other.InputPer1K
	}
	if other.OutputPer1K != nil {
		p.OutputPer1K = other.OutputPer1K
	}
	return nil
}

// EnsureConfig reads the TOML file at configFilePath (the default location
// when empty) and merges it over the built-in defaults. A missing file is not
// an error.
func EnsureConfig(configFilePath *string) (*Config, error) {
	path := GetDefaultConfigPath()
	if configFilePath != nil && *configFilePath != "" {
		path = *configFilePath
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, &ConfigError{Key: path, Err: err}
	}

	var configFile ConfigFile
	err = toml.Unmarshal(data, &configFile)
	if err != nil {
		return nil, &ConfigError{Key: path, Err: err}
	}

	cfg := defaultConfig()
	err = cfg.Merge(&Config{ConfigFile: &configFile})
	return &cfg, err
}
