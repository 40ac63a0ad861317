package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// landingRow is the table shape; elements and theme are JSONB columns.
type landingRow struct {
	ID          string    `db:"id"`
	AlbumID     string    `db:"album_id"`
	Title       string    `db:"title"`
	Elements    []byte    `db:"elements"`
	Theme       []byte    `db:"theme"`
	IsPublished bool      `db:"is_published"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r landingRow) document() (*model.Document, error) {
	doc := model.Document{
		ID:          r.ID,
		AlbumID:     r.AlbumID,
		Title:       r.Title,
		IsPublished: r.IsPublished,
		CreatedAt:   &r.CreatedAt,
		UpdatedAt:   &r.UpdatedAt,
		Theme:       model.DefaultTheme(),
	}
	if err := json.Unmarshal(r.Elements, &doc.Elements); err != nil {
		return nil, fmt.Errorf("decode elements of landing page %s: %w", r.ID, err)
	}
	if doc.Elements == nil {
		doc.Elements = []model.Element{}
	}
	if len(r.Theme) > 0 {
		if err := json.Unmarshal(r.Theme, &doc.Theme); err != nil {
			return nil, fmt.Errorf("decode theme of landing page %s: %w", r.ID, err)
		}
	}
	return &doc, nil
}

const landingColumns = `id, album_id, title, elements, theme, is_published, created_at, updated_at`

func (s *pgStore) findLanding(ctx context.Context, query string, args ...any) (*model.Document, error) {
	var row landingRow
	err := s.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.document()
}

// fetches the album's landing page. returns nil, nil if none was saved.
func (s *pgStore) FindLandingPageByAlbum(ctx context.Context, albumID string) (*model.Document, error) {
	doc, err := s.findLanding(ctx, `
	SELECT `+landingColumns+`
	FROM landing_pages
	WHERE album_id = $1;`, albumID)
	if err != nil {
		log.Error().Err(err).Str("album_id", albumID).Msg("[db] failed to get landing page by album")
	}
	return doc, err
}

// fetches a landing page by its own id. returns nil, nil if none exists.
func (s *pgStore) FindLandingPageByID(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.findLanding(ctx, `
	SELECT `+landingColumns+`
	FROM landing_pages
	WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("[db] failed to get landing page by id")
	}
	return doc, err
}

// fetches the album's landing page only when it is published.
func (s *pgStore) FindPublishedLandingPage(ctx context.Context, albumID string) (*model.Document, error) {
	doc, err := s.findLanding(ctx, `
	SELECT `+landingColumns+`
	FROM landing_pages
	WHERE album_id = $1 AND is_published;`, albumID)
	if err != nil {
		log.Error().Err(err).Str("album_id", albumID).Msg("[db] failed to get published landing page")
	}
	return doc, err
}

// stores doc and returns its id. a document with an id is updated in place;
// without one, the album's existing row is overwritten or a new row inserted.
// the published flag is only changed by SetLandingPagePublished.
func (s *pgStore) UpsertLandingPage(ctx context.Context, doc model.Document) (string, error) {
	elements := doc.Elements
	if elements == nil {
		elements = []model.Element{}
	}
	elemJSON, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("encode elements: %w", err)
	}
	themeJSON, err := json.Marshal(doc.Theme)
	if err != nil {
		return "", fmt.Errorf("encode theme: %w", err)
	}

	var id string
	if doc.ID != "" {
		err = s.db.QueryRowContext(ctx, `
		UPDATE landing_pages
		SET album_id = $2,
		title = $3,
		elements = $4,
		theme = $5,
		updated_at = now()
		WHERE id = $1
		RETURNING id;`,
			doc.ID, doc.AlbumID, doc.Title, string(elemJSON), string(themeJSON),
		).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("id", doc.ID).Msg("[db] failed to update landing page")
			return "", err
		}
	}

	err = s.db.QueryRowContext(ctx, `
	INSERT INTO landing_pages (album_id, title, elements, theme, is_published, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, now(), now())
	ON CONFLICT (album_id) DO UPDATE
	SET title = EXCLUDED.title,
	elements = EXCLUDED.elements,
	theme = EXCLUDED.theme,
	updated_at = now()
	RETURNING id;`,
		doc.AlbumID, doc.Title, string(elemJSON), string(themeJSON), doc.IsPublished,
	).Scan(&id)
	if err != nil {
		log.Error().Err(err).Str("album_id", doc.AlbumID).Msg("[db] failed to insert landing page")
		return "", err
	}
	return id, nil
}

// sets is_published and returns the page's album id, or model.ErrNotFound.
func (s *pgStore) SetLandingPagePublished(ctx context.Context, documentID string, value bool) (string, error) {
	var albumID string
	err := s.db.QueryRowContext(ctx, `
	UPDATE landing_pages
	SET is_published = $2,
	updated_at = CASE WHEN is_published = $2 THEN updated_at ELSE now() END
	WHERE id = $1
	RETURNING album_id;`, documentID, value).Scan(&albumID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("id", documentID).Msg("[db] failed to set landing page published")
		return "", err
	}
	return albumID, nil
}
