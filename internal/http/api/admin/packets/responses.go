package packets

import (
	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// LandingPageResponse carries the stored document, or a fresh default one
// when Persisted is false.
type LandingPageResponse struct {
	Document  model.Document `json:"document"`
	Persisted bool           `json:"persisted"`
}

type SaveLandingPageResponse struct {
	ID string `json:"id"`
}

type SetPublishedResponse struct {
	ID          string `json:"id"`
	IsPublished bool   `json:"is_published"`
}

type MediaResponse struct {
	Tracks []model.Track `json:"tracks"`
	Videos []model.Video `json:"videos"`
}

type AssetResponse struct {
	URL string `json:"url"`
}

type PaletteResponse struct {
	Elements []builder.PaletteEntry `json:"elements"`
}

// Editor websocket server messages.
const (
	EditorState     = "state"
	EditorSaved     = "saved"
	EditorPublished = "published"
	EditorCapture   = "capture"
	EditorError     = "error"
)

// EditorEvent is one server message on the editor websocket.
type EditorEvent struct {
	Type        string            `json:"type"`
	State       *builder.Snapshot `json:"state,omitempty"`
	Fields      []builder.Field   `json:"fields,omitempty"`
	HTML        string            `json:"html,omitempty"`
	ID          string            `json:"id,omitempty"`
	IsPublished *bool             `json:"is_published,omitempty"`
	Capture     *bool             `json:"capture,omitempty"`
	Error       string            `json:"error,omitempty"`
	Field       string            `json:"field,omitempty"`
}
