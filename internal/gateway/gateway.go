// Package gateway is the only path between landing-page editing and the
// persistence collaborator.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/builder"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// Persistence is the storage collaborator for landing pages.
type Persistence interface {
	// FindLandingPageByAlbum returns nil, nil when the album has no page.
	FindLandingPageByAlbum(ctx context.Context, albumID string) (*model.Document, error)
	// UpsertLandingPage updates by id, or inserts when doc has none, and
	// returns the stored id.
	UpsertLandingPage(ctx context.Context, doc model.Document) (string, error)
	// SetLandingPagePublished returns the album id of the document, or
	// model.ErrNotFound.
	SetLandingPagePublished(ctx context.Context, documentID string, value bool) (string, error)
	// FindPublishedLandingPage returns nil, nil unless a published page exists.
	FindPublishedLandingPage(ctx context.Context, albumID string) (*model.Document, error)
}

// Cache holds published pages for the public route.
type Cache interface {
	GetPublished(ctx context.Context, albumID string) (*model.Document, bool, error)
	PutPublished(ctx context.Context, doc model.Document) error
	Invalidate(ctx context.Context, albumID string) error
}

// Notifier is told whenever a page changes visibility.
type Notifier interface {
	LandingPagePublished(ctx context.Context, albumID, documentID string, published bool) error
}

// Error wraps any failure of the persistence collaborator.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("landing page %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// IsGatewayError reports whether err came from the persistence collaborator.
func IsGatewayError(err error) bool {
	var g *Error
	return errors.As(err, &g)
}

type Option func(*Gateway)

func WithCache(c Cache) Option       { return func(g *Gateway) { g.cache = c } }
func WithNotifier(n Notifier) Option { return func(g *Gateway) { g.notifier = n } }

type Gateway struct {
	store    Persistence
	cache    Cache
	notifier Notifier
}

func New(store Persistence, opts ...Option) *Gateway {
	g := &Gateway{store: store}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Load returns the album's landing page, or nil when none has been saved.
func (g *Gateway) Load(ctx context.Context, albumID string) (*model.Document, error) {
	doc, err := g.store.FindLandingPageByAlbum(ctx, albumID)
	if err != nil {
		log.Error().Err(err).Str("album_id", albumID).Msg("[landing] failed to load landing page")
		return nil, &Error{Op: "load", Err: err}
	}
	return doc, nil
}

// Save validates and stores doc and returns its id. Nothing is sent to the
// store when validation fails.
func (g *Gateway) Save(ctx context.Context, doc model.Document) (string, error) {
	if strings.TrimSpace(doc.AlbumID) == "" {
		return "", &builder.ValidationError{Field: "album_id", Message: "is required"}
	}
	if strings.TrimSpace(doc.Title) == "" {
		return "", &builder.ValidationError{Field: "title", Message: "is required"}
	}
	if doc.Elements == nil {
		doc.Elements = []model.Element{}
	}

	id, err := g.store.UpsertLandingPage(ctx, doc)
	if err != nil {
		log.Error().Err(err).Str("album_id", doc.AlbumID).Msg("[landing] failed to save landing page")
		return "", &Error{Op: "save", Err: err}
	}
	g.invalidate(ctx, doc.AlbumID)
	return id, nil
}

// SetPublished flips public visibility. Setting the current value again is
// harmless.
func (g *Gateway) SetPublished(ctx context.Context, documentID string, value bool) error {
	if strings.TrimSpace(documentID) == "" {
		return &builder.ValidationError{Field: "id", Message: "is required"}
	}
	albumID, err := g.store.SetLandingPagePublished(ctx, documentID, value)
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err != nil {
		log.Error().Err(err).Str("document_id", documentID).Msg("[landing] failed to set published")
		return &Error{Op: "set published", Err: err}
	}
	g.invalidate(ctx, albumID)

	if g.notifier != nil {
		if err := g.notifier.LandingPagePublished(ctx, albumID, documentID, value); err != nil {
			log.Warn().Err(err).Str("album_id", albumID).Msg("[landing] publish notification failed")
		}
	}
	return nil
}

// LoadPublished backs the public route. It returns nil when the album has no
// published page.
func (g *Gateway) LoadPublished(ctx context.Context, albumID string) (*model.Document, error) {
	if g.cache != nil {
		doc, ok, err := g.cache.GetPublished(ctx, albumID)
		if err != nil {
			log.Warn().Err(err).Str("album_id", albumID).Msg("[landing] cache lookup failed")
		} else if ok {
			return doc, nil
		}
	}

	doc, err := g.store.FindPublishedLandingPage(ctx, albumID)
	if err != nil {
		log.Error().Err(err).Str("album_id", albumID).Msg("[landing] failed to load published page")
		return nil, &Error{Op: "load published", Err: err}
	}
	if doc == nil || !doc.IsPublished {
		return nil, nil
	}

	if g.cache != nil {
		return g.fill(ctx, albumID, doc)
	}
	return doc, nil
}

// fill caches doc, then reads the store again. A save or unpublish that
// landed between the first read and the cache write would otherwise leave a
// stale page cached, so any difference drops the entry.
func (g *Gateway) fill(ctx context.Context, albumID string, doc *model.Document) (*model.Document, error) {
	if err := g.cache.PutPublished(ctx, *doc); err != nil {
		log.Warn().Err(err).Str("album_id", albumID).Msg("[landing] cache store failed")
		return doc, nil
	}

	current, err := g.store.FindPublishedLandingPage(ctx, albumID)
	if err != nil {
		g.invalidate(ctx, albumID)
		log.Error().Err(err).Str("album_id", albumID).Msg("[landing] failed to recheck published page")
		return nil, &Error{Op: "load published", Err: err}
	}
	if current == nil || !current.IsPublished {
		g.invalidate(ctx, albumID)
		return nil, nil
	}
	if current.ID != doc.ID || !sameTime(current.UpdatedAt, doc.UpdatedAt) {
		g.invalidate(ctx, albumID)
	}
	return current, nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (g *Gateway) invalidate(ctx context.Context, albumID string) {
	if g.cache == nil || albumID == "" {
		return
	}
	if err := g.cache.Invalidate(ctx, albumID); err != nil {
		log.Warn().Err(err).Str("album_id", albumID).Msg("[landing] cache invalidation failed")
	}
}

var _ builder.Gateway = (*Gateway)(nil)
