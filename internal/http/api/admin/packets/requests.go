package packets

import (
	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// SetPublishedRequest toggles public visibility of a landing page.
type SetPublishedRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

// EditorMessage is one client event on the editor websocket. Only the fields
// relevant to Type are read.
type EditorMessage struct {
	Type        string            `json:"type"         binding:"required,oneof=pointer_down pointer_move pointer_up click add_element edit_property resize delete_element set_title set_theme save publish"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	ElementType model.ElementType `json:"element_type"`
	ID          string            `json:"id"`
	Key         string            `json:"key"`
	Value       string            `json:"value"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	Title       string            `json:"title"`
	Theme       *model.Theme      `json:"theme"`
	IsPublished *bool             `json:"is_published"`
}

func (m EditorMessage) Point() builder.Point { return builder.Point{X: m.X, Y: m.Y} }
