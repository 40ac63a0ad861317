package model

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Theme is the three-color palette applied to the page and every element.
type Theme struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	AccentColor     string `json:"accentColor"`
}

func DefaultTheme() Theme {
	return Theme{
		BackgroundColor: "#ffffff",
		TextColor:       "#111111",
		AccentColor:     "#6366f1",
	}
}

// Document is the landing page of one album. Elements are ordered back to
// front: the last element is drawn on top.
type Document struct {
	ID          string     `db:"id"           json:"id,omitempty"`
	AlbumID     string     `db:"album_id"     json:"album_id"`
	Title       string     `db:"title"        json:"title"`
	Elements    []Element  `db:"-"            json:"elements"`
	Theme       Theme      `db:"-"            json:"theme"`
	IsPublished bool       `db:"is_published" json:"is_published"`
	CreatedAt   *time.Time `db:"created_at"   json:"created_at,omitempty"`
	UpdatedAt   *time.Time `db:"updated_at"   json:"updated_at,omitempty"`
}

// NewDocument returns the unsaved default document for an album.
func NewDocument(albumID, title string) Document {
	return Document{
		AlbumID:  albumID,
		Title:    title,
		Theme:    DefaultTheme(),
		Elements: []Element{},
	}
}

// Persisted reports whether the document has been saved at least once.
func (d Document) Persisted() bool { return d.ID != "" }

// Clone returns a copy whose Elements slice is not shared with d.
func (d Document) Clone() Document {
	out := d
	out.Elements = append([]Element(nil), d.Elements...)
	if out.Elements == nil {
		out.Elements = []Element{}
	}
	return out
}

// ElementUpdate is a partial update; nil fields are left untouched.
type ElementUpdate struct {
	Position   *Position
	Size       *Size
	Properties Properties
}

// Apply returns e with the update applied.
func (u ElementUpdate) Apply(e Element) Element {
	if u.Position != nil {
		e.Position = *u.Position
	}
	if u.Size != nil {
		e.Size = *u.Size
	}
	if u.Properties != nil {
		e.Properties = u.Properties
	}
	return e
}

// FindElement returns the element with id and its index, or -1.
func FindElement(elems []Element, id string) (Element, int) {
	for i, e := range elems {
		if e.ID == id {
			return e, i
		}
	}
	return Element{}, -1
}

// ReplaceElement returns a new slice where the element with id has the
// update applied. The input slice is never written to.
func ReplaceElement(elems []Element, id string, u ElementUpdate) ([]Element, bool) {
	_, idx := FindElement(elems, id)
	if idx < 0 {
		return elems, false
	}
	out := make([]Element, len(elems))
	copy(out, elems)
	out[idx] = u.Apply(elems[idx])
	return out, true
}

// AppendElement returns a new slice with e on top.
func AppendElement(elems []Element, e Element) []Element {
	out := make([]Element, 0, len(elems)+1)
	out = append(out, elems...)
	return append(out, e)
}

// RemoveElement returns a new slice without the element with id.
func RemoveElement(elems []Element, id string) ([]Element, bool) {
	_, idx := FindElement(elems, id)
	if idx < 0 {
		return elems, false
	}
	out := make([]Element, 0, len(elems)-1)
	out = append(out, elems[:idx]...)
	return append(out, elems[idx+1:]...), true
}
