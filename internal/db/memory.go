package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// MemoryStore is a Store kept in process memory, for handler tests and local
// runs without PostgreSQL.
type MemoryStore struct {
	*gateway.MemoryStore

	mu     sync.RWMutex
	users  map[int]*model.User
	albums map[string]*model.Album
	tracks map[string][]model.Track
	videos map[int][]model.Video
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		MemoryStore: gateway.NewMemoryStore(),
		users:       make(map[int]*model.User),
		albums:      make(map[string]*model.Album),
		tracks:      make(map[string][]model.Track),
		videos:      make(map[int][]model.Video),
	}
}

func (m *MemoryStore) AddUser(id int, email string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u := &model.User{ID: id, Email: email, CreatedAt: now, UpdatedAt: now}
	m.users[id] = u
	return u
}

// AddAlbum creates an album owned by artistID and returns it.
func (m *MemoryStore) AddAlbum(artistID int, title string) *model.Album {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &model.Album{ID: uuid.NewString(), ArtistID: artistID, Title: title, CreatedAt: time.Now().UTC()}
	m.albums[a.ID] = a
	return a
}

func (m *MemoryStore) AddTrack(albumID string, t model.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks[albumID] = append(m.tracks[albumID], t)
}

func (m *MemoryStore) AddVideo(artistID int, v model.Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[artistID] = append(m.videos[artistID], v)
}

func (m *MemoryStore) GetUserByID(_ context.Context, id int) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetAlbumByID(_ context.Context, id string) (*model.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.albums[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) ListAlbumTracks(_ context.Context, albumID string) ([]model.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Track{}, m.tracks[albumID]...), nil
}

func (m *MemoryStore) ListArtistVideos(_ context.Context, artistID int) ([]model.Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Video{}, m.videos[artistID]...), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
