package telegram

import (
	"time"

	coreconfig "github.com/m3rciful/profilebot/core/config"
	"github.com/m3rciful/profilebot/core/telegram/middleware"
)

// DefaultMiddlewares builds the chain applied to every update: panic
// recovery first, optional per-user throttling, then request logging and
// send metrics. Exclusion kinds in cfg are already normalized to lower case.
func DefaultMiddlewares(cfg *coreconfig.Config) []Middleware {
	chain := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		chain = append(chain, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	return append(chain,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}
