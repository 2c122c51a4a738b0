package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	APIBaseURL         string `envconfig:"KICKSHOP_API_URL"     default:"http://localhost:8000/api"`
	HTTPTimeoutSeconds int    `envconfig:"HTTP_TIMEOUT_SECONDS" default:"10"`
	TokenFile          string `envconfig:"TOKEN_FILE"`
	LogLevel           string `envconfig:"LOG_LEVEL"            default:"info"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		if config.TokenFile == "" {
			config.TokenFile = defaultTokenFile(logger)
		}

		logger.Infof("Configuration loaded: API=%s, Timeout=%ds, TokenFile=%s, LogLevel=%s",
			config.APIBaseURL, config.HTTPTimeoutSeconds, config.TokenFile, config.LogLevel)
	})
	return &config
}

func defaultTokenFile(logger *logrus.Logger) string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warnf("Could not determine home directory, keeping token in the working directory: %v", err)
		return ".kickshop_token"
	}
	return filepath.Join(home, ".kickshop", "token")
}
