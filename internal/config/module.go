package config

import (
	"github.com/apiarycd/reposync/internal/credentials"
	"github.com/apiarycd/reposync/internal/git"
	"github.com/apiarycd/reposync/internal/repository"
	"github.com/apiarycd/reposync/internal/review"
	"github.com/apiarycd/reposync/internal/watcher"
	"github.com/apiarycd/reposync/pkg/badgerfx"
	"github.com/apiarycd/reposync/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) openapifx.Config {
			return openapifx.Config{
				Enabled:    cfg.HTTP.OpenAPI.Enabled,
				PublicHost: cfg.HTTP.OpenAPI.PublicHost,
				PublicPath: cfg.HTTP.OpenAPI.PublicPath,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir:      cfg.Storage.DataDir,
				InMemory: cfg.Storage.InMemory,
			}
		}),
		fx.Provide(func(cfg Config) git.Config {
			return git.Config{
				Timeout:       cfg.Git.Timeout,
				DefaultRemote: cfg.Git.DefaultRemote,
				Auth: git.AuthConfig{
					SSH: git.SSHAuthConfig{
						DefaultPrivateKey: cfg.Git.Auth.SSH.DefaultPrivateKey,
					},
					HTTPS: git.HTTPSAuthConfig{
						DefaultToken:    cfg.Git.Auth.HTTPS.DefaultToken,
						DefaultUsername: cfg.Git.Auth.HTTPS.DefaultUsername,
					},
				},
			}
		}),
		fx.Provide(func(cfg Config) credentials.Config {
			return credentials.Config{
				PromptTimeout: cfg.Credentials.PromptTimeout,
			}
		}),
		fx.Provide(func(cfg Config) watcher.Config {
			return watcher.Config{
				Debounce:    cfg.Watcher.Debounce,
				IgnorePaths: cfg.Watcher.IgnorePaths,
			}
		}),
		fx.Provide(func(cfg Config) repository.Config {
			return repository.Config{
				Open:         cfg.Repositories.Open,
				LogLimit:     cfg.Repositories.LogLimit,
				QueryTimeout: cfg.Repositories.QueryTimeout,
				Review: review.Config{
					Enabled: cfg.Review.Enabled,
					URL:     cfg.Review.URL,
				},
			}
		}),
	)
}
