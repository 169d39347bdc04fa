package cmd

import (
	"time"

	"MePlay/cache"
	"MePlay/client"
	"MePlay/config"
	"MePlay/core/auth"
	"MePlay/core/library"
	"MePlay/logger"
)

// newRemote builds the API client. Without API_TOKEN a token is minted from
// JWT_SECRET and USER_ID when both are known.
func newRemote(cfg *config.Config) *client.Client {
	c := client.NewClient(cfg)
	if cfg.APIToken == "" && cfg.JWTSecret != "" && cfg.UserID > 0 {
		token, err := auth.GenerateToken(cfg.JWTSecret, cfg.UserID, "", 24*time.Hour)
		if err != nil {
			logger.Warn("could not mint api token", logger.ErrorField(err))
		} else {
			c.SetToken(token)
		}
	}
	return c
}

// newLocalStore returns the Redis-backed like snapshot store, or nil when it
// is disabled or Redis is unreachable. The returned func releases it.
func newLocalStore(cfg *config.Config) (library.LocalStore, func()) {
	if !cfg.LikeCacheEnabled {
		return nil, func() {}
	}
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("like cache disabled", logger.ErrorField(err))
		return nil, func() {}
	}
	store := cache.NewLikeCache(cache.RedisClient, cfg.LikeCacheTTL).ForUser(cfg.UserID)
	return store, func() { cache.CloseRedis() }
}
