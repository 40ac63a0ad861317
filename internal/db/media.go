package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

// fetches the user by ID. returns nil, model.ErrNotFound if not found.
func (s *pgStore) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	err := s.db.GetContext(ctx, &u, `
	SELECT id, email, name, created_at, updated_at
	FROM users
	WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Int("user_id", id).Msg("[db] failed to get user by id")
		return nil, err
	}
	return &u, nil
}

// fetches the album by ID. returns nil, model.ErrNotFound if not found.
func (s *pgStore) GetAlbumByID(ctx context.Context, id string) (*model.Album, error) {
	var a model.Album
	err := s.db.GetContext(ctx, &a, `
	SELECT id, artist_id, title, created_at
	FROM albums
	WHERE id = $1;`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("album_id", id).Msg("[db] failed to get album by id")
		return nil, err
	}
	return &a, nil
}

// lists the album's tracks in track order.
func (s *pgStore) ListAlbumTracks(ctx context.Context, albumID string) ([]model.Track, error) {
	tracks := []model.Track{}
	err := s.db.SelectContext(ctx, &tracks, `
	SELECT id, title, file_url
	FROM tracks
	WHERE album_id = $1
	ORDER BY position, created_at;`, albumID)
	if err != nil {
		log.Error().Err(err).Str("album_id", albumID).Msg("[db] failed to list album tracks")
		return nil, err
	}
	return tracks, nil
}

// lists videos owned by the artist, newest first.
func (s *pgStore) ListArtistVideos(ctx context.Context, artistID int) ([]model.Video, error) {
	videos := []model.Video{}
	err := s.db.SelectContext(ctx, &videos, `
	SELECT id, title, file_url
	FROM videos
	WHERE owner_id = $1
	ORDER BY created_at DESC;`, artistID)
	if err != nil {
		log.Error().Err(err).Int("artist_id", artistID).Msg("[db] failed to list artist videos")
		return nil, err
	}
	return videos, nil
}
