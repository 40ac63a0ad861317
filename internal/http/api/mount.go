package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/http/middleware"
)

// Module is one resource of the fancard API registering its endpoints on a
// Controller.
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc adapts a closure over a resource controller to Module.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig describes one route prefix. Artist-facing groups set Auth so
// every request carries the JWT of the album owner.
type GroupConfig struct {
	Prefix     string
	Auth       bool
	SecretKey  string                // JWT signing secret, Auth only
	Users      middleware.UserLookup // resolves the token subject, Auth only
	Middleware []gin.HandlerFunc     // runs before auth
}

// MountGroup mounts modules under cfg.Prefix. /healthz mounts with an empty
// config.
func MountGroup(parent gin.IRouter, cfg GroupConfig, modules ...Module) {
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

	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}
	if cfg.Auth {
		if cfg.SecretKey == "" || cfg.Users == nil {
			log.Fatal().Msg("api.MountGroup: Auth enabled but SecretKey or Users is missing")
		}
		grp.Use(middleware.JWTMiddleware(cfg.SecretKey, cfg.Users))
	}

	controller := &Controller{Group: grp}

	for _, m := range modules {
		m.Mount(controller)
	}
	log.Debug().Str("prefix", cfg.Prefix).Bool("auth", cfg.Auth).Int("modules", len(modules)).Msg("[api] group mounted")
}
