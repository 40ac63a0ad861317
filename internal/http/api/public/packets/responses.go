package packets

import "github.com/Nixie-Tech-LLC/fancard/internal/model"

// RESPONSES FOR /api/public/*

// PublishedPageResponse is a published landing page plus the media its
// players resolve against.
type PublishedPageResponse struct {
	Document model.Document `json:"document"`
	Tracks   []model.Track  `json:"tracks"`
	Videos   []model.Video  `json:"videos"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
