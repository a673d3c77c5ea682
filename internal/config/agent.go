package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AgentConfig holds the companion agent configuration. Values come from a
// config file in the agent's data directory, overridable via environment
// variables prefixed with CROWDTRUTH_.
type AgentConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	DataDir        string        `mapstructure:"data_dir"`
	SocketPath     string        `mapstructure:"socket_path"`
	LogLevel       string        `mapstructure:"log_level"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// LoadAgent reads the agent configuration from the given directory. A
// missing config file is not an error; defaults and environment variables
// still apply.
func LoadAgent(dir string) (AgentConfig, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("agent")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("CROWDTRUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("socket_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("cache_ttl", 24*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return AgentConfig{}, fmt.Errorf("read agent config: %w", err)
		}
	}

	var cfg AgentConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AgentConfig{}, fmt.Errorf("decode agent config: %w", err)
	}

	if cfg.SocketPath == "" {
		cfg.SocketPath = filepath.Join(cfg.DataDir, "agent.sock")
	}
	return cfg, nil
}

func defaultDataDir() string {
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, "crowdtruth")
	}
	return "./crowdtruth-data"
}
