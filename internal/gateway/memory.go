package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// MemoryStore is a Persistence kept in process memory, one page per album.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]model.Document
	byAlbum map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]model.Document),
		byAlbum: make(map[string]string),
	}
}

func (m *MemoryStore) FindLandingPageByAlbum(_ context.Context, albumID string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byAlbum[albumID]
	if !ok {
		return nil, nil
	}
	doc := m.byID[id].Clone()
	return &doc, nil
}

func (m *MemoryStore) FindLandingPageByID(_ context.Context, id string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	doc = doc.Clone()
	return &doc, nil
}

func (m *MemoryStore) UpsertLandingPage(_ context.Context, doc model.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if doc.ID == "" {
		doc.ID = m.byAlbum[doc.AlbumID]
	}
	if prev, ok := m.byID[doc.ID]; ok {
		doc.CreatedAt = prev.CreatedAt
		doc.IsPublished = prev.IsPublished
		if prev.AlbumID != doc.AlbumID {
			delete(m.byAlbum, prev.AlbumID)
		}
	} else {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		doc.CreatedAt = &now
	}
	doc.UpdatedAt = &now

	m.byID[doc.ID] = doc.Clone()
	m.byAlbum[doc.AlbumID] = doc.ID
	return doc.ID, nil
}

func (m *MemoryStore) SetLandingPagePublished(_ context.Context, documentID string, value bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.byID[documentID]
	if !ok {
		return "", model.ErrNotFound
	}
	doc.IsPublished = value
	m.byID[documentID] = doc
	return doc.AlbumID, nil
}

func (m *MemoryStore) FindPublishedLandingPage(ctx context.Context, albumID string) (*model.Document, error) {
	doc, err := m.FindLandingPageByAlbum(ctx, albumID)
	if err != nil || doc == nil || !doc.IsPublished {
		return nil, err
	}
	return doc, nil
}

var _ Persistence = (*MemoryStore)(nil)
