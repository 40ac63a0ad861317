package endpoints

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
	"github.com/Nixie-Tech-LLC/fancard/internal/render"
)

type PublicController struct {
	store db.Store
	pages *gateway.Gateway
}

func newPublicController(store db.Store, pages *gateway.Gateway) *PublicController {
	return &PublicController{store: store, pages: pages}
}

// PageModule serves published landing pages as HTML, mounted under /p
func PageModule(store db.Store, pages *gateway.Gateway) api.Module {
	ctl := newPublicController(store, pages)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/:albumId", ctl.servePage)
	})
}

// PublishedModule serves published landing pages as JSON, mounted under /api/public
func PublishedModule(store db.Store, pages *gateway.Gateway) api.Module {
	ctl := newPublicController(store, pages)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/albums/:albumId/landing-page", ctl.getPublished)
	})
}

// HealthModule reports whether the database is reachable
func HealthModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/healthz", func(ctx *gin.Context) (any, *api.APIError) {
			if err := store.Ping(ctx.Request.Context()); err != nil {
				log.Error().Err(err).Msg("[health] database ping failed")
				return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "database unavailable"}
			}
			return packets.HealthResponse{Status: "ok"}, nil
		})
	})
}

// publishedPage is what a fan may see for one album.
type publishedPage struct {
	doc    model.Document
	tracks []model.Track
	videos []model.Video
}

func (p *publishedPage) media() render.Media { return render.NewMedia(p.tracks, p.videos) }

// published returns the album's published page and its media, or nil when
// there is nothing a fan may see. Malformed ids are treated the same as
// unknown albums.
func (c *PublicController) published(ctx context.Context, rawAlbumID string) (*publishedPage, error) {
	albumID, err := uuid.Parse(rawAlbumID)
	if err != nil {
		return nil, nil
	}

	doc, err := c.pages.LoadPublished(ctx, albumID.String())
	if err != nil || doc == nil {
		return nil, err
	}

	album, err := c.store.GetAlbumByID(ctx, doc.AlbumID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tracks, err := c.store.ListAlbumTracks(ctx, album.ID)
	if err != nil {
		return nil, err
	}
	videos, err := c.store.ListArtistVideos(ctx, album.ArtistID)
	if err != nil {
		return nil, err
	}
	return &publishedPage{doc: *doc, tracks: tracks, videos: videos}, nil
}

func (c *PublicController) servePage(ctx *gin.Context) (any, *api.APIError) {
	page, err := c.published(ctx.Request.Context(), ctx.Param("albumId"))
	if err != nil {
		log.Error().Err(err).Str("album_id", ctx.Param("albumId")).Msg("[public] servePage failed")
		return nil, api.FromError(err)
	}
	if page == nil {
		return api.HTML{Status: http.StatusNotFound, Body: render.NotAvailable()}, nil
	}
	return api.HTML{Body: render.Page(page.doc, page.media(), render.ModePreview, "")}, nil
}

func (c *PublicController) getPublished(ctx *gin.Context) (any, *api.APIError) {
	page, err := c.published(ctx.Request.Context(), ctx.Param("albumId"))
	if err != nil {
		log.Error().Err(err).Str("album_id", ctx.Param("albumId")).Msg("[public] getPublished failed")
		return nil, api.FromError(err)
	}
	if page == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "landing page not available"}
	}
	return packets.PublishedPageResponse{
		Document: page.doc,
		Tracks:   page.tracks,
		Videos:   page.videos,
	}, nil
}
