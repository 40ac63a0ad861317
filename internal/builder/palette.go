package builder

import "github.com/Nixie-Tech-LLC/fancard/internal/model"

// PaletteEntry describes one placeable element type.
type PaletteEntry struct {
	Type        model.ElementType `json:"type"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
}

var palette = []PaletteEntry{
	{Type: model.ElementText, Label: "Text", Description: "Add a heading or paragraph"},
	{Type: model.ElementImage, Label: "Image", Description: "Show a picture or artwork"},
	{Type: model.ElementMusicPlayer, Label: "Music Player", Description: "Play a track from this album"},
	{Type: model.ElementVideo, Label: "Video", Description: "Embed one of your videos"},
	{Type: model.ElementButton, Label: "Button", Description: "Link fans to a store, ticket or profile"},
}

// Palette returns the catalog of element types in display order.
func Palette() []PaletteEntry {
	return append([]PaletteEntry(nil), palette...)
}

// AddElement returns a copy of doc with a new element of type t on top.
func AddElement(doc model.Document, t model.ElementType) (model.Document, model.Element, error) {
	el, err := CreateElement(t)
	if err != nil {
		return doc, model.Element{}, err
	}
	out := doc
	out.Elements = model.AppendElement(doc.Elements, el)
	return out, el, nil
}
