package builder

import (
	"fmt"

	"github.com/Nixie-Tech-LLC/fancard/internal/id"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

const elementIDPrefix = "el"

var (
	DefaultPosition = model.Position{X: 50, Y: 50}
	DefaultSize     = model.Size{Width: 200, Height: 100}
)

// DefaultProperties returns the properties a freshly placed element of type t starts with.
func DefaultProperties(t model.ElementType) (model.Properties, error) {
	switch t {
	case model.ElementText:
		return model.TextProperties{Content: "Enter your text", FontSize: 16, FontWeight: model.FontWeightNormal}, nil
	case model.ElementImage:
		return model.ImageProperties{Src: "", Alt: "Image"}, nil
	case model.ElementMusicPlayer:
		return model.MusicPlayerProperties{TrackID: ""}, nil
	case model.ElementVideo:
		return model.VideoProperties{VideoID: ""}, nil
	case model.ElementButton:
		return model.ButtonProperties{Text: "Click me", Link: ""}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownElementType, t)
	}
}

// CreateElement builds a new element with a fresh id and type defaults.
func CreateElement(t model.ElementType) (model.Element, error) {
	props, err := DefaultProperties(t)
	if err != nil {
		return model.Element{}, err
	}
	elID, err := id.Generate(elementIDPrefix)
	if err != nil {
		return model.Element{}, err
	}
	return model.Element{
		ID:         elID,
		Type:       t,
		Position:   DefaultPosition,
		Size:       DefaultSize,
		Properties: props,
	}, nil
}
