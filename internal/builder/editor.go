package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

var validate = validator.New()

type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldNumber   FieldKind = "number"
	FieldSelect   FieldKind = "select"
	FieldURL      FieldKind = "url"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one control of a property form. Empty is set on pickers
// whose option list is empty and holds the message to show instead.
type Field struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Kind    FieldKind `json:"kind"`
	Value   string    `json:"value"`
	Options []Option  `json:"options,omitempty"`
	Empty   string    `json:"empty,omitempty"`
}

// MediaOptions carries the read-only listings used by the track and video pickers.
type MediaOptions struct {
	Tracks []model.Track `json:"tracks"`
	Videos []model.Video `json:"videos"`
}

// PropertyEditor is the form for one element type.
type PropertyEditor interface {
	Fields(el model.Element, media MediaOptions) []Field
	// Set returns a full copy of the element's properties with key replaced.
	Set(el model.Element, key, value string) (model.Properties, error)
}

var editors = map[model.ElementType]PropertyEditor{
	model.ElementText:        textEditor{},
	model.ElementImage:       imageEditor{},
	model.ElementMusicPlayer: musicPlayerEditor{},
	model.ElementVideo:       videoEditor{},
	model.ElementButton:      buttonEditor{},
}

// EditorFor dispatches on the element type.
func EditorFor(t model.ElementType) (PropertyEditor, error) {
	ed, ok := editors[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownElementType, t)
	}
	return ed, nil
}

// Edit applies a single field change right away through onUpdate.
func Edit(el model.Element, key, value string, onUpdate UpdateFunc) error {
	ed, err := EditorFor(el.Type)
	if err != nil {
		return err
	}
	props, err := ed.Set(el, key, value)
	if err != nil {
		return err
	}
	onUpdate(el.ID, model.ElementUpdate{Properties: props})
	return nil
}

// Resize changes the element box. Both sides must stay positive.
func Resize(el model.Element, width, height float64, onUpdate UpdateFunc) error {
	if width <= 0 {
		return invalid("width", "must be greater than 0")
	}
	if height <= 0 {
		return invalid("height", "must be greater than 0")
	}
	onUpdate(el.ID, model.ElementUpdate{Size: &model.Size{Width: width, Height: height}})
	return nil
}

func unknownField(t model.ElementType, key string) error {
	return invalid(key, "not a property of %s elements", t)
}

func checkURL(key, value string) error {
	if err := validate.Var(value, "omitempty,url"); err != nil {
		return invalid(key, "must be a valid URL")
	}
	return nil
}

// current returns the element's properties as P, falling back to the type
// defaults when the element carries a mismatched variant.
func current[P model.Properties](el model.Element) P {
	if p, ok := el.Properties.(P); ok {
		return p
	}
	def, _ := DefaultProperties(el.Type)
	p, _ := def.(P)
	return p
}

type textEditor struct{}

func (textEditor) Fields(el model.Element, _ MediaOptions) []Field {
	p := current[model.TextProperties](el)
	return []Field{
		{Key: "content", Label: "Text", Kind: FieldTextarea, Value: p.Content},
		{Key: "fontSize", Label: "Font size", Kind: FieldNumber, Value: strconv.FormatFloat(p.FontSize, 'f', -1, 64)},
		{Key: "fontWeight", Label: "Font weight", Kind: FieldSelect, Value: p.FontWeight, Options: []Option{
			{Value: model.FontWeightNormal, Label: "Normal"},
			{Value: model.FontWeightBold, Label: "Bold"},
		}},
	}
}

func (textEditor) Set(el model.Element, key, value string) (model.Properties, error) {
	p := current[model.TextProperties](el)
	switch key {
	case "content":
		p.Content = value
	case "fontSize":
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || n <= 0 {
			return nil, invalid(key, "must be a positive number")
		}
		p.FontSize = n
	case "fontWeight":
		if value != model.FontWeightNormal && value != model.FontWeightBold {
			return nil, invalid(key, "must be %q or %q", model.FontWeightNormal, model.FontWeightBold)
		}
		p.FontWeight = value
	default:
		return nil, unknownField(el.Type, key)
	}
	return p, nil
}

type imageEditor struct{}

func (imageEditor) Fields(el model.Element, _ MediaOptions) []Field {
	p := current[model.ImageProperties](el)
	return []Field{
		{Key: "src", Label: "Image URL", Kind: FieldURL, Value: p.Src},
		{Key: "alt", Label: "Alt text", Kind: FieldText, Value: p.Alt},
	}
}

func (imageEditor) Set(el model.Element, key, value string) (model.Properties, error) {
	p := current[model.ImageProperties](el)
	switch key {
	case "src":
		if err := checkURL(key, value); err != nil {
			return nil, err
		}
		p.Src = value
	case "alt":
		p.Alt = value
	default:
		return nil, unknownField(el.Type, key)
	}
	return p, nil
}

type musicPlayerEditor struct{}

func (musicPlayerEditor) Fields(el model.Element, media MediaOptions) []Field {
	p := current[model.MusicPlayerProperties](el)
	f := Field{Key: "trackId", Label: "Track", Kind: FieldSelect, Value: p.TrackID}
	for _, t := range media.Tracks {
		f.Options = append(f.Options, Option{Value: t.ID, Label: t.Title})
	}
	if len(f.Options) == 0 {
		f.Empty = "No tracks available"
	}
	return []Field{f}
}

// Set accepts ids outside the current listing; the renderer shows them as not found.
func (musicPlayerEditor) Set(el model.Element, key, value string) (model.Properties, error) {
	p := current[model.MusicPlayerProperties](el)
	if key != "trackId" {
		return nil, unknownField(el.Type, key)
	}
	p.TrackID = value
	return p, nil
}

type videoEditor struct{}

func (videoEditor) Fields(el model.Element, media MediaOptions) []Field {
	p := current[model.VideoProperties](el)
	f := Field{Key: "videoId", Label: "Video", Kind: FieldSelect, Value: p.VideoID}
	for _, v := range media.Videos {
		f.Options = append(f.Options, Option{Value: v.ID, Label: v.Title})
	}
	if len(f.Options) == 0 {
		f.Empty = "No videos available"
	}
	return []Field{f}
}

func (videoEditor) Set(el model.Element, key, value string) (model.Properties, error) {
	p := current[model.VideoProperties](el)
	if key != "videoId" {
		return nil, unknownField(el.Type, key)
	}
	p.VideoID = value
	return p, nil
}

type buttonEditor struct{}

func (buttonEditor) Fields(el model.Element, _ MediaOptions) []Field {
	p := current[model.ButtonProperties](el)
	return []Field{
		{Key: "text", Label: "Button text", Kind: FieldText, Value: p.Text},
		{Key: "link", Label: "Link", Kind: FieldURL, Value: p.Link},
	}
}

func (buttonEditor) Set(el model.Element, key, value string) (model.Properties, error) {
	p := current[model.ButtonProperties](el)
	switch key {
	case "text":
		p.Text = value
	case "link":
		if err := checkURL(key, value); err != nil {
			return nil, err
		}
		p.Link = value
	default:
		return nil, unknownField(el.Type, key)
	}
	return p, nil
}
