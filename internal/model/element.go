package model

import (
	"encoding/json"
	"fmt"
)

// ElementType is the discriminant of a placeable landing-page block.
type ElementType string

const (
	ElementText        ElementType = "text"
	ElementImage       ElementType = "image"
	ElementMusicPlayer ElementType = "music_player"
	ElementVideo       ElementType = "video"
	ElementButton      ElementType = "button"
)

// ElementTypes lists the closed set in palette order.
var ElementTypes = []ElementType{
	ElementText,
	ElementImage,
	ElementMusicPlayer,
	ElementVideo,
	ElementButton,
}

// Valid reports whether t is one of the known element types.
func (t ElementType) Valid() bool {
	for _, k := range ElementTypes {
		if k == t {
			return true
		}
	}
	return false
}

const (
	FontWeightNormal = "normal"
	FontWeightBold   = "bold"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a single block on the canvas. Properties always holds the
// variant matching Type, or UnknownProperties for types outside the set.
type Element struct {
	ID         string      `json:"id"`
	Type       ElementType `json:"type"`
	Position   Position    `json:"position"`
	Size       Size        `json:"size"`
	Properties Properties  `json:"properties"`
}

// Contains reports whether p lies inside the element box [position, position+size].
func (e Element) Contains(x, y float64) bool {
	return x >= e.Position.X && y >= e.Position.Y &&
		x <= e.Position.X+e.Size.Width && y <= e.Position.Y+e.Size.Height
}

// Properties is the per-type property bag.
type Properties interface {
	ElementType() ElementType
}

type TextProperties struct {
	Content    string  `json:"content"`
	FontSize   float64 `json:"fontSize"`
	FontWeight string  `json:"fontWeight"`
}

type ImageProperties struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type MusicPlayerProperties struct {
	TrackID string `json:"trackId"`
}

type VideoProperties struct {
	VideoID string `json:"videoId"`
}

type ButtonProperties struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// UnknownProperties keeps the raw properties of an element whose type this
// build does not know, so the element survives a load/save cycle untouched.
type UnknownProperties struct {
	Type ElementType     `json:"-"`
	Raw  json.RawMessage `json:"-"`
}

func (TextProperties) ElementType() ElementType        { return ElementText }
func (ImageProperties) ElementType() ElementType       { return ElementImage }
func (MusicPlayerProperties) ElementType() ElementType { return ElementMusicPlayer }
func (VideoProperties) ElementType() ElementType       { return ElementVideo }
func (ButtonProperties) ElementType() ElementType      { return ElementButton }
func (u UnknownProperties) ElementType() ElementType   { return u.Type }

type elementWire struct {
	ID         string          `json:"id"`
	Type       ElementType     `json:"type"`
	Position   Position        `json:"position"`
	Size       Size            `json:"size"`
	Properties json.RawMessage `json:"properties"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	var props json.RawMessage
	switch p := e.Properties.(type) {
	case nil:
		props = json.RawMessage(`{}`)
	case UnknownProperties:
		props = p.Raw
		if len(props) == 0 {
			props = json.RawMessage(`{}`)
		}
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal %s properties: %w", e.Type, err)
		}
		props = b
	}
	return json.Marshal(elementWire{
		ID:         e.ID,
		Type:       e.Type,
		Position:   e.Position,
		Size:       e.Size,
		Properties: props,
	})
}

func (e *Element) UnmarshalJSON(b []byte) error {
	var w elementWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	// A known type whose payload does not fit its variant is kept verbatim
	// as unknown data so one damaged element cannot fail the whole page.
	props, err := DecodeProperties(w.Type, w.Properties)
	if err != nil {
		props = UnknownProperties{Type: w.Type, Raw: append(json.RawMessage(nil), w.Properties...)}
	}
	*e = Element{
		ID:         w.ID,
		Type:       w.Type,
		Position:   w.Position,
		Size:       w.Size,
		Properties: props,
	}
	return nil
}

// DecodeProperties decodes raw properties into the variant for t. Unknown
// types never fail; their payload is kept as-is.
func DecodeProperties(t ElementType, raw json.RawMessage) (Properties, error) {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage(`{}`)
	}
	var (
		p   Properties
		err error
	)
	switch t {
	case ElementText:
		var v TextProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case ElementImage:
		var v ImageProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case ElementMusicPlayer:
		var v MusicPlayerProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case ElementVideo:
		var v VideoProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case ElementButton:
		var v ButtonProperties
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		return UnknownProperties{Type: t, Raw: cp}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s properties: %w", t, err)
	}
	return p, nil
}
