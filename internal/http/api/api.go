package api

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// HTML is a handler result written as a text/html page instead of JSON.
type HTML struct {
	Status int
	Body   template.HTML
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// StreamFuncWithAuth owns the response itself, e.g. after a websocket upgrade.
type StreamFuncWithAuth func(ctx *gin.Context, user *model.User)

// FromError maps domain errors onto HTTP statuses.
func FromError(err error) *APIError {
	var v *builder.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &v):
		return &APIError{Code: http.StatusBadRequest, Message: v.Error()}
	case errors.Is(err, model.ErrInvalidDocument):
		return &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, builder.ErrUnknownElementType):
		return &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, model.ErrNotFound), errors.Is(err, builder.ErrElementNotFound):
		return &APIError{Code: http.StatusNotFound, Message: "not found"}
	case errors.Is(err, builder.ErrSaveInFlight):
		return &APIError{Code: http.StatusConflict, Message: err.Error()}
	case gateway.IsGatewayError(err):
		return &APIError{Code: http.StatusBadGateway, Message: "storage unavailable, please retry"}
	default:
		return &APIError{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

func write(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if page, ok := result.(HTML); ok {
		status := page.Status
		if status == 0 {
			status = http.StatusOK
		}
		ctx.Data(status, "text/html; charset=utf-8", []byte(page.Body))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		result, apiErr := h(ctx, user)
		write(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		write(ctx, result, apiErr)
	}
}

func ResolveStreamWithAuth(h StreamFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		h(ctx, user)
	}
}

// Controller is the gin group a Module registers its endpoints on.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) STREAM(path string, h StreamFuncWithAuth) {
	c.Group.GET(path, ResolveStreamWithAuth(h))
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}
