package endpoints

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/db"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// ownedAlbum resolves :albumId and checks that user is the album's artist.
func ownedAlbum(ctx *gin.Context, store db.Store, user *model.User) (*model.Album, *api.APIError) {
	albumID, err := uuid.Parse(ctx.Param("albumId"))
	if err != nil {
		log.Warn().Str("album_id", ctx.Param("albumId")).Msg("[landing] invalid album id")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid album id"}
	}

	album, err := store.GetAlbumByID(ctx.Request.Context(), albumID.String())
	if errors.Is(err, model.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "album not found"}
	}
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load album"}
	}

	if album.ArtistID != user.ID {
		log.Warn().Int("owner", album.ArtistID).Int("user", user.ID).Msg("[landing] forbidden album access")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return album, nil
}

// albumMedia lists the tracks of the album and the videos of its artist.
func albumMedia(ctx context.Context, store db.Store, album *model.Album) (builder.MediaOptions, error) {
	tracks, err := store.ListAlbumTracks(ctx, album.ID)
	if err != nil {
		return builder.MediaOptions{}, err
	}
	videos, err := store.ListArtistVideos(ctx, album.ArtistID)
	if err != nil {
		return builder.MediaOptions{}, err
	}
	return builder.MediaOptions{Tracks: tracks, Videos: videos}, nil
}

type MediaController struct {
	store db.Store
}

func newMediaController(store db.Store) *MediaController {
	return &MediaController{store: store}
}

// MediaModule mounts the read-only media listings used by the property pickers
func MediaModule(store db.Store) api.Module {
	ctl := newMediaController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/albums/:albumId/media", ctl.listMedia)
	})
}

func (c *MediaController) listMedia(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	album, apiErr := ownedAlbum(ctx, c.store, user)
	if apiErr != nil {
		return nil, apiErr
	}
	media, err := albumMedia(ctx.Request.Context(), c.store, album)
	if err != nil {
		log.Error().Err(err).Str("album_id", album.ID).Msg("[media] listMedia failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list media"}
	}
	return packets.MediaResponse{Tracks: media.Tracks, Videos: media.Videos}, nil
}
