package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/fancard/internal/config"
	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	adminapi "github.com/Nixie-Tech-LLC/fancard/internal/http/api/admin/endpoints"
	publicapi "github.com/Nixie-Tech-LLC/fancard/internal/http/api/public/endpoints"
	"github.com/Nixie-Tech-LLC/fancard/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, pages *gateway.Gateway, storageSystem storage.Storage) {
	// CORS
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
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     store,
	},
		adminapi.LandingModule(store, pages),
		adminapi.MediaModule(store),
		adminapi.AssetModule(storageSystem),
		adminapi.EditorModule(store, pages, editorOrigin(cfg)),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/public",
	},
		publicapi.PublishedModule(store, pages),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/p",
	},
		publicapi.PageModule(store, pages),
	)

	api.MountGroup(r, api.GroupConfig{}, publicapi.HealthModule(store))

	// Static content
	if !cfg.UseSpaces {
		r.Static(uploadsRoute, cfg.UploadDir)
	}
}

// editorOrigin relaxes the websocket origin check while developing against a
// separately served frontend.
func editorOrigin(cfg *config.Config) func(*http.Request) bool {
	if cfg.Development() {
		return func(*http.Request) bool { return true }
	}
	return nil
}
