package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"` // empty disables the catalog cache
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	TTLSecond int    `yaml:"ttl_seconds"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

// DiscountRuleConfig mirrors pricing.DiscountRule. Amounts are minor units.
type DiscountRuleConfig struct {
	OrderType   string `yaml:"order_type"`
	MinSubtotal int64  `yaml:"min_subtotal"`
	Flat        int64  `yaml:"flat"`
	Percent     int64  `yaml:"percent"`
}

type PricingConfig struct {
	Discounts []DiscountRuleConfig `yaml:"discounts"`
}

// Load reads the YAML config, applying defaults before parsing and
// validating the required fields after.
func Load(path string) (Config, error) {
	cfg := Config{
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable", MaxConns: 10},
		RabbitMQ: RabbitMQConfig{Port: 5672, VHost: "/"},
		Redis:    RedisConfig{TTLSecond: 60},
		HTTP:     HTTPConfig{Port: 3000},
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "" {
		return Config{}, fmt.Errorf("database config incomplete")
	}
	if cfg.RabbitMQ.Host == "" || cfg.RabbitMQ.User == "" {
		return Config{}, fmt.Errorf("rabbitmq config incomplete")
	}
	return cfg, nil
}
