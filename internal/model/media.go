package model

import "time"

// Album is the project a landing page belongs to.
type Album struct {
	ID        string    `db:"id"         json:"id"`
	ArtistID  int       `db:"artist_id"  json:"artist_id"`
	Title     string    `db:"title"      json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Track is a playable audio file of an album.
type Track struct {
	ID      string `db:"id"       json:"id"`
	Title   string `db:"title"    json:"title"`
	FileURL string `db:"file_url" json:"file_url"`
}

// Video belongs to the album owner, not the album itself.
type Video struct {
	ID      string `db:"id"       json:"id"`
	Title   string `db:"title"    json:"title"`
	FileURL string `db:"file_url" json:"file_url"`
}
