package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/auth"
	"github.com/sushant-kumar17/yt-streamer/internal/http/middleware"
)

// Module is a pluggable feature that attaches its endpoints to a Controller (a gin group).
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc lets you define a Module with a simple function.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// Controller wraps the gin group a module mounts onto.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h gin.HandlerFunc)    { c.Group.GET(path, h) }
func (c *Controller) POST(path string, h gin.HandlerFunc)   { c.Group.POST(path, h) }
func (c *Controller) PUT(path string, h gin.HandlerFunc)    { c.Group.PUT(path, h) }
func (c *Controller) DELETE(path string, h gin.HandlerFunc) { c.Group.DELETE(path, h) }

// GroupConfig tells the api package how to mount a group.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	Verifier   auth.TokenVerifier // required if Auth == true
	Middleware []gin.HandlerFunc  // optional additional middleware
}

// MountGroup mounts one or more Modules under a prefix with optional auth.
func MountGroup(parent gin.IRoutes, cfg GroupConfig, modules ...Module) {
	var grp *gin.RouterGroup

	switch v := parent.(type) {
	case *gin.Engine:
		grp = v.Group(cfg.Prefix)
	case *gin.RouterGroup:
		if cfg.Prefix != "" {
			grp = v.Group(cfg.Prefix)
		} else {
			grp = v
		}
	default:
		log.Fatal().Str("type", fmt.Sprintf("%T", parent)).Msg("api.MountGroup: unsupported router type")
	}

	// Apply middleware in a deterministic order.
	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}
	if cfg.Auth {
		if cfg.Verifier == nil {
			log.Fatal().Msg("api.MountGroup: Auth enabled but Verifier is nil")
		}
		grp.Use(middleware.TokenAuth(cfg.Verifier))
	}

	controller := &Controller{Group: grp}

	for _, m := range modules {
		m.Mount(controller)
	}
}
