// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

type Store interface {
	gateway.Persistence
	FindLandingPageByID(ctx context.Context, id string) (*model.Document, error)

	// user functions
	GetUserByID(ctx context.Context, id int) (*model.User, error)

	// album and media functions
	GetAlbumByID(ctx context.Context, id string) (*model.Album, error)
	ListAlbumTracks(ctx context.Context, albumID string) ([]model.Track, error)
	ListArtistVideos(ctx context.Context, artistID int) ([]model.Video, error)

	Ping(ctx context.Context) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
