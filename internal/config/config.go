package config

import (
	"log"

	"gopkg.in/yaml.v3"

	"creatorpulse/pkg/config"
)

type Config struct {
	DB       config.DBConfig       `yaml:"db"`
	Redis    config.RedisConfig    `yaml:"redis"`
	Server   config.ServerConfig   `yaml:"server"`
	LLM      config.LLMConfig      `yaml:"llm"`
	Resend   config.ResendConfig   `yaml:"resend"`
	Delivery config.DeliveryConfig `yaml:"delivery"`
}

// Load builds the typed service config from the layered config files, then
// applies environment variable overrides on top.
func Load() *Config {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	cfgData, err := yaml.Marshal(cfgMap)
	if err != nil {
		log.Fatalf("failed to marshal config: %v", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideLLMFromEnv(&cfg.LLM)
	config.OverrideResendFromEnv(&cfg.Resend)

	return &cfg
}
