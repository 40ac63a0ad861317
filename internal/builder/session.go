package builder

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// Gateway is the persistence side the editor session saves through.
type Gateway interface {
	Save(ctx context.Context, doc model.Document) (string, error)
	SetPublished(ctx context.Context, documentID string, value bool) error
}

// Snapshot is a consistent view of a session at one point in time.
type Snapshot struct {
	Document model.Document `json:"document"`
	Selected string         `json:"selected_id,omitempty"`
	State    string         `json:"state"`
	Saving   bool           `json:"saving"`
}

// Session is the in-memory editing state of one album's landing page.
//
// Pointer and edit calls are expected to come from a single event loop.
// Save and Publish may run on another goroutine; the document is
// snapshotted before the gateway is called so edits keep flowing while a
// save is pending.
type Session struct {
	mu     sync.Mutex
	doc    model.Document
	engine *Engine
	media  MediaOptions
	gw     Gateway

	saving atomic.Bool

	// last publish state known to be stored, valid only when publishKnown
	publishKnown     bool
	publishPersisted bool
}

// sessionView is the engine's element source; it is only read while the
// session lock is held.
type sessionView struct{ s *Session }

func (v sessionView) Elements() []model.Element { return v.s.doc.Elements }

func NewSession(doc model.Document, media MediaOptions, gw Gateway, binder InputBinder) *Session {
	s := &Session{
		doc:              doc.Clone(),
		media:            media,
		gw:               gw,
		publishKnown:     doc.Persisted(),
		publishPersisted: doc.IsPublished,
	}
	s.engine = NewEngine(sessionView{s}, s.updateLocked, binder)
	return s
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Document: s.doc.Clone(),
		Selected: s.engine.Selected(),
		State:    s.engine.State().String(),
		Saving:   s.saving.Load(),
	}
}

func (s *Session) Media() MediaOptions { return s.media }

// UpdateElement replaces the element with id by its updated copy.
func (s *Session) UpdateElement(id string, u model.ElementUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(id, u)
}

func (s *Session) updateLocked(id string, u model.ElementUpdate) { s.replace(id, u) }

func (s *Session) replace(id string, u model.ElementUpdate) bool {
	elems, ok := model.ReplaceElement(s.doc.Elements, id, u)
	if ok {
		s.doc.Elements = elems
	}
	return ok
}

func (s *Session) PointerDown(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.PointerDown(p)
}

func (s *Session) PointerMove(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.PointerMove(p)
}

func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.PointerUp()
}

func (s *Session) Click(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Click(p)
}

// AddElement places a new element of type t on top and selects it.
func (s *Session) AddElement(t model.ElementType) (model.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, el, err := AddElement(s.doc, t)
	if err != nil {
		return model.Element{}, err
	}
	s.doc = doc
	s.engine.Select(el.ID)
	return el, nil
}

func (s *Session) DeleteElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	elems, ok := model.RemoveElement(s.doc.Elements, id)
	if !ok {
		return ErrElementNotFound
	}
	s.doc.Elements = elems
	s.engine.Forget(id)
	return nil
}

func (s *Session) element(id string) (model.Element, error) {
	el, idx := model.FindElement(s.doc.Elements, id)
	if idx < 0 {
		return model.Element{}, ErrElementNotFound
	}
	return el, nil
}

// Fields returns the property form for the element with id.
func (s *Session) Fields(id string) ([]Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.element(id)
	if err != nil {
		return nil, err
	}
	ed, err := EditorFor(el.Type)
	if err != nil {
		return nil, err
	}
	return ed.Fields(el, s.media), nil
}

func (s *Session) EditProperty(id, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.element(id)
	if err != nil {
		return err
	}
	return Edit(el, key, value, s.updateLocked)
}

func (s *Session) Resize(id string, width, height float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.element(id)
	if err != nil {
		return err
	}
	return Resize(el, width, height, s.updateLocked)
}

func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Title = title
}

func (s *Session) SetTheme(theme model.Theme) error {
	for field, c := range map[string]string{
		"backgroundColor": theme.BackgroundColor,
		"textColor":       theme.TextColor,
		"accentColor":     theme.AccentColor,
	} {
		if err := validate.Var(strings.TrimSpace(c), "required,iscolor"); err != nil {
			return invalid(field, "must be a color")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Theme = theme
	return nil
}

// Save persists the current document. Only one save runs at a time; on
// failure nothing in memory changes so the artist can retry.
func (s *Session) Save(ctx context.Context) (string, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return "", ErrSaveInFlight
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	snap := s.doc.Clone()
	s.mu.Unlock()

	docID, err := s.gw.Save(ctx, snap)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.doc.ID = docID
	// only an insert writes the flag; updates leave it to Publish
	if !snap.Persisted() {
		s.publishKnown = true
		s.publishPersisted = snap.IsPublished
	}
	s.mu.Unlock()
	return docID, nil
}

// Publish sets the public visibility flag. A never-saved document is saved
// first; asking for the state already stored is a no-op.
func (s *Session) Publish(ctx context.Context, value bool) error {
	s.mu.Lock()
	persisted := s.doc.Persisted()
	s.mu.Unlock()

	if !persisted {
		if _, err := s.Save(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	docID := s.doc.ID
	unchanged := s.publishKnown && s.publishPersisted == value
	s.mu.Unlock()

	if !unchanged {
		if err := s.gw.SetPublished(ctx, docID, value); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.doc.IsPublished = value
	s.publishKnown = true
	s.publishPersisted = value
	s.mu.Unlock()
	return nil
}
