package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`

	OpenAPI openAPIConfig `koanf:"openapi"`
}

type openAPIConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PublicHost string `koanf:"public_host"`
	PublicPath string `koanf:"public_path"`
}

type storageConfig struct {
	DataDir  string `koanf:"data_dir"`
	InMemory bool   `koanf:"in_memory"`
}

type gitAuthConfig struct {
	SSH   gitSSHAuthConfig   `koanf:"ssh"`
	HTTPS gitHTTPSAuthConfig `koanf:"https"`
}

type gitSSHAuthConfig struct {
	DefaultPrivateKey string `koanf:"default_private_key"`
}

type gitHTTPSAuthConfig struct {
	DefaultToken    string `koanf:"default_token"`
	DefaultUsername string `koanf:"default_username"`
}

type gitConfig struct {
	Timeout       time.Duration `koanf:"timeout"`
	DefaultRemote string        `koanf:"default_remote"`
	Auth          gitAuthConfig `koanf:"auth"`
}

type credentialsConfig struct {
	PromptTimeout time.Duration `koanf:"prompt_timeout"`
}

type watcherConfig struct {
	Debounce    time.Duration `koanf:"debounce"`
	IgnorePaths []string      `koanf:"ignore_paths"`
}

type reviewConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
}

type repositoriesConfig struct {
	Open         []string      `koanf:"open"`
	LogLimit     int           `koanf:"log_limit"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage      storageConfig      `koanf:"storage"`
	Git          gitConfig          `koanf:"git"`
	Credentials  credentialsConfig  `koanf:"credentials"`
	Watcher      watcherConfig      `koanf:"watcher"`
	Review       reviewConfig       `koanf:"review"`
	Repositories repositoriesConfig `koanf:"repositories"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
			OpenAPI: openAPIConfig{
				Enabled: true,
			},
		},

		Storage: storageConfig{
			DataDir: "./data",
		},

		Git: gitConfig{
			Timeout:       2 * time.Minute,
			DefaultRemote: "origin",
		},

		Credentials: credentialsConfig{
			PromptTimeout: 2 * time.Minute,
		},

		Watcher: watcherConfig{
			Debounce:    250 * time.Millisecond,
			IgnorePaths: []string{"node_modules", ".DS_Store"},
		},

		Repositories: repositoriesConfig{
			Open:         []string{},
			LogLimit:     500,
			QueryTimeout: 30 * time.Second,
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
