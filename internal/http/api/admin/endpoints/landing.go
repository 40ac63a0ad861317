package endpoints

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
	"github.com/Nixie-Tech-LLC/fancard/internal/render"
)

const maxDocumentBytes = 1 << 20

type LandingController struct {
	store db.Store
	pages *gateway.Gateway
}

func newLandingController(store db.Store, pages *gateway.Gateway) *LandingController {
	return &LandingController{store: store, pages: pages}
}

// LandingModule mounts the authenticated landing page builder endpoints
func LandingModule(store db.Store, pages *gateway.Gateway) api.Module {
	ctl := newLandingController(store, pages)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/palette", ctl.palette)
		c.GET("/albums/:albumId/landing-page", ctl.getLandingPage)
		c.PUT("/albums/:albumId/landing-page", ctl.saveLandingPage)
		c.POST("/albums/:albumId/landing-page/preview", ctl.previewLandingPage)
		c.PUT("/landing-pages/:id/published", ctl.setPublished)
	})
}

func (c *LandingController) palette(_ *gin.Context, _ *model.User) (any, *api.APIError) {
	return packets.PaletteResponse{Elements: builder.Palette()}, nil
}

// defaultTitle names a page that has never been saved.
func defaultTitle(album *model.Album) string {
	return album.Title + " Landing Page"
}

// loadOrDefault returns the stored document, or a fresh one for the album.
func loadOrDefault(ctx *gin.Context, pages *gateway.Gateway, album *model.Album) (model.Document, bool, error) {
	doc, err := pages.Load(ctx.Request.Context(), album.ID)
	if err != nil {
		return model.Document{}, false, err
	}
	if doc == nil {
		return model.NewDocument(album.ID, defaultTitle(album)), false, nil
	}
	return *doc, true, nil
}

func (c *LandingController) getLandingPage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	album, apiErr := ownedAlbum(ctx, c.store, user)
	if apiErr != nil {
		return nil, apiErr
	}
	doc, persisted, err := loadOrDefault(ctx, c.pages, album)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.LandingPageResponse{Document: doc, Persisted: persisted}, nil
}

// bindDocument reads a schema-checked document for the album in the path.
func bindDocument(ctx *gin.Context, album *model.Album) (model.Document, *api.APIError) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxDocumentBytes+1))
	if err != nil {
		return model.Document{}, &api.APIError{Code: http.StatusBadRequest, Message: "could not read body"}
	}
	if len(body) > maxDocumentBytes {
		return model.Document{}, &api.APIError{Code: http.StatusRequestEntityTooLarge, Message: "document too large"}
	}
	if err := model.ValidateDocumentJSON(body); err != nil {
		log.Warn().Err(err).Str("album_id", album.ID).Msg("[landing] rejected document")
		return model.Document{}, api.FromError(err)
	}

	var doc model.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.Document{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if doc.AlbumID != album.ID {
		return model.Document{}, &api.APIError{Code: http.StatusBadRequest, Message: "album_id does not match path"}
	}
	return doc, nil
}

func (c *LandingController) saveLandingPage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	album, apiErr := ownedAlbum(ctx, c.store, user)
	if apiErr != nil {
		return nil, apiErr
	}
	doc, apiErr := bindDocument(ctx, album)
	if apiErr != nil {
		return nil, apiErr
	}

	if doc.ID != "" {
		existing, err := c.store.FindLandingPageByID(ctx.Request.Context(), doc.ID)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load landing page"}
		}
		if existing != nil && existing.AlbumID != album.ID {
			return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
		}
	}

	id, err := c.pages.Save(ctx.Request.Context(), doc)
	if err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Str("album_id", album.ID).Str("id", id).Int("elements", len(doc.Elements)).Msg("[landing] saved")
	return packets.SaveLandingPageResponse{ID: id}, nil
}

// previewLandingPage renders an unsaved document exactly as fans would see it.
// ?mode=editor renders the canvas with its editing affordances instead.
func (c *LandingController) previewLandingPage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	album, apiErr := ownedAlbum(ctx, c.store, user)
	if apiErr != nil {
		return nil, apiErr
	}
	doc, apiErr := bindDocument(ctx, album)
	if apiErr != nil {
		return nil, apiErr
	}
	media, err := albumMedia(ctx.Request.Context(), c.store, album)
	if err != nil {
		log.Error().Err(err).Str("album_id", album.ID).Msg("[landing] preview media lookup failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list media"}
	}

	mode := render.ModePreview
	if ctx.Query("mode") == "editor" {
		mode = render.ModeEditor
	}
	idx := render.NewMedia(media.Tracks, media.Videos)
	return api.HTML{Body: render.Page(doc, idx, mode, ctx.Query("selected"))}, nil
}

func (c *LandingController) setPublished(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	docID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.SetPublishedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	doc, err := c.store.FindLandingPageByID(ctx.Request.Context(), docID.String())
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load landing page"}
	}
	if doc == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	album, err := c.store.GetAlbumByID(ctx.Request.Context(), doc.AlbumID)
	if err != nil {
		return nil, api.FromError(err)
	}
	if album.ArtistID != user.ID {
		log.Warn().Int("owner", album.ArtistID).Int("user", user.ID).Msg("[landing] forbidden setPublished")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}

	if err := c.pages.SetPublished(ctx.Request.Context(), doc.ID, *req.IsPublished); err != nil {
		return nil, api.FromError(err)
	}
	return packets.SetPublishedResponse{ID: doc.ID, IsPublished: *req.IsPublished}, nil
}
