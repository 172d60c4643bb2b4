// Package config provides configuration management for the Redsys order payment service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
	"time"
)

// Config holds all configuration for the service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug bool `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	Listen  struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5100"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	// Merchant values apply to every store scope unless overridden in the merchant_config collection.
	Merchant struct {
		Secret              string `yaml:"secret" env:"MERCHANT_SECRET" env-default:""`
		Code                string `yaml:"code" env:"MERCHANT_CODE" env-default:""`
		Name                string `yaml:"name" env:"MERCHANT_NAME" env-default:""`
		Terminal            string `yaml:"terminal" env:"MERCHANT_TERMINAL" env-default:""`
		TransactionType     string `yaml:"transaction_type" env:"MERCHANT_TRANSACTION_TYPE" env-default:"0"`
		PayMethods          string `yaml:"pay_methods" env:"MERCHANT_PAY_METHODS" env-default:""`
		Locale              string `yaml:"locale" env:"MERCHANT_LOCALE" env-default:""`
		CancelPendingOrders bool   `yaml:"cancel_pending_orders" env:"MERCHANT_CANCEL_PENDING" env-default:"false"`
		RequestUrl          string `yaml:"request_url" env:"MERCHANT_REQUEST_URL" env-default:"https://sis-t.redsys.es:25443/sis/realizarPago"`
		BaseUrl             string `yaml:"base_url" env:"MERCHANT_BASE_URL" env-default:"http://localhost:5100"`
	} `yaml:"merchant"`
	Scheduler struct {
		Enabled        bool          `yaml:"enabled" env:"SCHEDULER_ENABLED" env-default:"true"`
		Interval       time.Duration `yaml:"interval" env:"SCHEDULER_INTERVAL" env-default:"5m"`
		StaleThreshold time.Duration `yaml:"stale_threshold" env:"SCHEDULER_STALE_THRESHOLD" env-default:"10m"`
		BatchLimit     int64         `yaml:"batch_limit" env:"SCHEDULER_BATCH_LIMIT" env-default:"100"`
		PoolSize       int           `yaml:"pool_size" env:"SCHEDULER_POOL_SIZE" env-default:"4"`
		Scopes         []string      `yaml:"scopes" env:"SCHEDULER_SCOPES" env-default:"default"`
	} `yaml:"scheduler"`
	Telegram struct {
		Token  string `yaml:"token" env:"TELEGRAM_TOKEN" env-default:""`
		ChatId int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID" env-default:"0"`
	} `yaml:"telegram"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// This function uses a singleton pattern and only loads the config once.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = ReadConfig(path)
	})
	return instance, err
}

// ReadConfig reads a configuration file without touching the singleton.
func ReadConfig(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("load config: %w; %s", err, desc)
	}
	return conf, nil
}
