package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/http/api"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/api/admin/packets"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
	"github.com/Nixie-Tech-LLC/fancard/internal/storage"
)

const maxAssetBytes = 10 << 20

type AssetController struct {
	storage storage.Storage
}

// AssetModule mounts the image upload used by image elements
func AssetModule(storage storage.Storage) api.Module {
	ctl := &AssetController{storage: storage}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/assets", ctl.uploadAsset)
	})
}

func (c *AssetController) uploadAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("[assets] uploadAsset: missing file")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}
	if fileHeader.Size > maxAssetBytes {
		return nil, &api.APIError{Code: http.StatusRequestEntityTooLarge, Message: "file too large"}
	}

	url, err := c.storage.SaveImage(ctx.Request.Context(), fileHeader)
	if errors.Is(err, storage.ErrUnsupportedType) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err != nil {
		log.Error().Err(err).Int("user", user.ID).Msg("[assets] uploadAsset: save failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}
	return packets.AssetResponse{URL: url}, nil
}
