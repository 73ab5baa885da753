package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumacast/lumacast/internal/config"
	"github.com/lumacast/lumacast/internal/db"
	"github.com/lumacast/lumacast/internal/http/api"
	adminapi "github.com/lumacast/lumacast/internal/http/api/admin/endpoints"
	displayapi "github.com/lumacast/lumacast/internal/http/api/display/endpoints"
	"github.com/lumacast/lumacast/internal/mqtt"
	"github.com/lumacast/lumacast/internal/redis"
	"github.com/lumacast/lumacast/internal/storage"
)

// registerRoutes sets up all application routes
func registerRoutes(
	r *gin.Engine,
	cfg *config.Config,
	store db.Store,
	cache *redis.Cache,
	broker *mqtt.Client,
	uploads storage.Storage,
) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"ETag",
		},
		AllowCredentials: false,
	}))

	// local uploads are served straight off disk; Spaces serves via CDN
	if !cfg.UseSpaces {
		r.Static("/uploads", "./uploads")
	}

	notifier := adminapi.NewScreenNotifier(store, cache, broker)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		adminapi.AuthSessionModule(cfg.JWTSecret, store),
		adminapi.MediaModule(store, uploads),
		adminapi.PlaylistModule(store, notifier),
		adminapi.ScreenModule(store, cache, notifier),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/display",
		Auth:   false,
	},
		displayapi.FeedModule(store, cache),
		displayapi.SessionModule(store),
	)
}
