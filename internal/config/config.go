package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Proxy      ProxyConfig
	Log        LogConfig
	Transcript TranscriptConfig
}

// ServerConfig holds the conversation service listen address
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// BackendConfig points at the assistant backend origin
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ProxyConfig holds the reverse-proxy routing configuration
type ProxyConfig struct {
	Listen      string `mapstructure:"listen"`
	BackendURL  string `mapstructure:"backend_url"`
	FrontendURL string `mapstructure:"frontend_url"`
	APIPrefix   string `mapstructure:"api_prefix"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// TranscriptConfig holds the optional transcript sink configuration
type TranscriptConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// Load loads the configuration from config.yaml in the working directory,
// or from the file named by CONFIG_PATH when set.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	}

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("backend.base_url", "http://localhost:8000")
	viper.SetDefault("proxy.listen", ":8081")
	viper.SetDefault("proxy.backend_url", "http://localhost:8080")
	viper.SetDefault("proxy.frontend_url", "http://localhost:3001")
	viper.SetDefault("proxy.api_prefix", "/api")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("transcript.db_path", "transcript.db")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
