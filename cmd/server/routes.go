package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sushant-kumar17/yt-streamer/internal/auth"
	"github.com/sushant-kumar17/yt-streamer/internal/cache"
	"github.com/sushant-kumar17/yt-streamer/internal/db"
	"github.com/sushant-kumar17/yt-streamer/internal/http/api"
	"github.com/sushant-kumar17/yt-streamer/internal/http/api/schedules/endpoints"
	"github.com/sushant-kumar17/yt-streamer/internal/notify"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	store db.Store,
	verifier auth.TokenVerifier,
	scheduleCache *cache.ScheduleCache,
	events *notify.Publisher,
) {
	// CORS is fully open: the calendar frontend may be served from anywhere
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: false,
	}))

	// public calendar read
	api.MountGroup(r, api.GroupConfig{}, endpoints.QueryModule(store, scheduleCache))

	// authenticated schedule management
	api.MountGroup(r, api.GroupConfig{
		Auth:     true,
		Verifier: verifier,
	},
		endpoints.ControlModule(store, scheduleCache, events),
	)
}
