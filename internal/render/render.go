// Package render turns landing-page documents into HTML. The editor canvas
// and the public page share every element template; the editor only adds
// selection and drag affordances around them.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlaceholderImage is shown by image elements with no source.
const PlaceholderImage = "data:image/svg+xml;charset=utf-8,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 200 100'%3E%3Crect width='200' height='100' fill='%23e5e7eb'/%3E%3Cpath d='M70 70l20-24 14 16 10-12 16 20z' fill='%239ca3af'/%3E%3C/svg%3E"

const minCanvasHeight = 600

// Mode selects which affordances surround each element.
type Mode int

const (
	ModePreview Mode = iota
	ModeEditor
)

var (
	validate = validator.New()
	tmpl     = template.Must(template.New("render").Funcs(template.FuncMap{
		"px":     px,
		"weight": weight,
	}).ParseFS(templateFS, "templates/*.html"))
)

// Media resolves track and video ids against the album's listings.
type Media struct {
	tracks map[string]model.Track
	videos map[string]model.Video
}

func NewMedia(tracks []model.Track, videos []model.Video) Media {
	m := Media{
		tracks: make(map[string]model.Track, len(tracks)),
		videos: make(map[string]model.Video, len(videos)),
	}
	for _, t := range tracks {
		m.tracks[t.ID] = t
	}
	for _, v := range videos {
		m.videos[v.ID] = v
	}
	return m
}

func (m Media) Track(id string) (model.Track, bool) {
	t, ok := m.tracks[id]
	return t, ok
}

func (m Media) Video(id string) (model.Video, bool) {
	v, ok := m.videos[id]
	return v, ok
}

// cssTheme is a Theme whose colors have been checked and can be emitted into
// style attributes as-is.
type cssTheme struct {
	BackgroundColor template.CSS
	TextColor       template.CSS
	AccentColor     template.CSS
}

func themeCSS(t model.Theme) cssTheme {
	def := model.DefaultTheme()
	return cssTheme{
		BackgroundColor: color(t.BackgroundColor, def.BackgroundColor),
		TextColor:       color(t.TextColor, def.TextColor),
		AccentColor:     color(t.AccentColor, def.AccentColor),
	}
}

func color(c, fallback string) template.CSS {
	c = strings.TrimSpace(c)
	if validate.Var(c, "required,iscolor") != nil {
		c = fallback
	}
	return template.CSS(c)
}

func px(v float64) template.CSS {
	return template.CSS(strconv.FormatFloat(v, 'f', -1, 64) + "px")
}

func weight(w string) template.CSS {
	if w == model.FontWeightBold {
		return template.CSS(model.FontWeightBold)
	}
	return template.CSS(model.FontWeightNormal)
}

type contentData struct {
	Theme   cssTheme
	Type    model.ElementType
	Props   model.Properties
	Src     any
	Track   *model.Track
	Video   *model.Video
	Message string
}

// Content renders the inner markup of one element. It never fails: missing
// media and unknown types render as visible placeholders.
func Content(el model.Element, theme model.Theme, media Media) template.HTML {
	data := contentData{Theme: themeCSS(theme), Type: el.Type, Props: el.Properties}
	name := "unknown"

	switch p := el.Properties.(type) {
	case model.TextProperties:
		name = "text"
	case model.ImageProperties:
		name = "image"
		data.Src = p.Src
		if strings.TrimSpace(p.Src) == "" {
			data.Src = template.URL(PlaceholderImage)
		}
	case model.MusicPlayerProperties:
		name = "music_player"
		switch t, ok := media.Track(p.TrackID); {
		case p.TrackID == "":
			data.Message = "No track selected"
		case !ok:
			data.Message = "Track not found"
		default:
			data.Track = &t
		}
	case model.VideoProperties:
		name = "video"
		switch v, ok := media.Video(p.VideoID); {
		case p.VideoID == "":
			data.Message = "No video selected"
		case !ok:
			data.Message = "Video not found"
		default:
			data.Video = &v
		}
	case model.ButtonProperties:
		name = "button"
	}
	if name != "unknown" && model.ElementType(name) != el.Type {
		name = "unknown"
	}
	return execute(name, data)
}

type blockData struct {
	ID       string
	X, Y     float64
	Width    float64
	Height   float64
	Editor   bool
	Selected bool
	Content  template.HTML
}

// Block renders el absolutely positioned on the canvas.
func Block(el model.Element, theme model.Theme, media Media, mode Mode, selected bool) template.HTML {
	return execute("block", blockData{
		ID:       el.ID,
		X:        el.Position.X,
		Y:        el.Position.Y,
		Width:    el.Size.Width,
		Height:   el.Size.Height,
		Editor:   mode == ModeEditor,
		Selected: mode == ModeEditor && selected,
		Content:  Content(el, theme, media),
	})
}

type canvasData struct {
	Theme  cssTheme
	Editor bool
	Empty  bool
	Height float64
	Blocks []template.HTML
}

// Canvas renders every element of doc in order, last on top, inside a
// background in the theme color. selectedID is ignored in preview mode.
func Canvas(doc model.Document, media Media, mode Mode, selectedID string) template.HTML {
	data := canvasData{
		Theme:  themeCSS(doc.Theme),
		Editor: mode == ModeEditor,
		Empty:  len(doc.Elements) == 0,
		Height: minCanvasHeight,
		Blocks: make([]template.HTML, 0, len(doc.Elements)),
	}
	for _, el := range doc.Elements {
		data.Height = max(data.Height, el.Position.Y+el.Size.Height)
		data.Blocks = append(data.Blocks, Block(el, doc.Theme, media, mode, el.ID == selectedID))
	}
	return execute("canvas", data)
}

// Page renders doc as a standalone HTML document.
func Page(doc model.Document, media Media, mode Mode, selectedID string) template.HTML {
	return execute("page", struct {
		Title  string
		Canvas template.HTML
	}{doc.Title, Canvas(doc, media, mode, selectedID)})
}

// NotAvailable is the public page for albums without a published landing page.
func NotAvailable() template.HTML {
	return execute("not_available", nil)
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("[render] template execution failed")
		return template.HTML(`<div class="fc-placeholder">Unknown element</div>`)
	}
	return template.HTML(buf.String())
}
