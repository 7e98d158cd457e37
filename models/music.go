package models

import "time"

// Domain types: music catalog

type Artist struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

type Release struct {
	ID          string     `json:"id"`
	ArtistID    string     `json:"artist_id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	UPC         *string    `json:"upc,omitempty"`
	Genre       string     `json:"genre"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Track struct {
	ID              string  `json:"id"`
	ReleaseID       string  `json:"release_id"`
	Title           string  `json:"title"`
	Position        int     `json:"position"`
	DurationSeconds int     `json:"duration_seconds"`
	ISRC            *string `json:"isrc,omitempty"`
	AudioURL        *string `json:"audio_url,omitempty"`
	Explicit        bool    `json:"explicit"`
}

type DistributionChannel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
}

type DistributionRelease struct {
	ReleaseID   string     `json:"release_id"`
	ChannelID   string     `json:"channel_id"`
	ChannelName string     `json:"channel_name,omitempty"`
	Status      string     `json:"status"`
	ExternalID  *string    `json:"external_id,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Request types

type UpsertArtistRequest struct {
	UserID  *string `json:"user_id,omitempty"`
	Name    string  `json:"name"`
	Bio     string  `json:"bio"`
	Country string  `json:"country"`
}

type UpsertReleaseRequest struct {
	ArtistID    string     `json:"artist_id"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	UPC         *string    `json:"upc,omitempty"`
	Genre       string     `json:"genre"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CoverURL    *string    `json:"cover_url,omitempty"`
}

type UpsertTrackRequest struct {
	Title           string  `json:"title"`
	Position        int     `json:"position"`
	DurationSeconds int     `json:"duration_seconds"`
	ISRC            *string `json:"isrc,omitempty"`
	AudioURL        *string `json:"audio_url,omitempty"`
	Explicit        bool    `json:"explicit"`
}

type UpsertChannelRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Status string `json:"status,omitempty"`
}

type DistributeRequest struct {
	ChannelIDs []string `json:"channel_ids"`
}

type UpdateDistributionRequest struct {
	Status     string  `json:"status"`
	ExternalID *string `json:"external_id,omitempty"`
}

// Response types

type TrackAnalysis struct {
	TrackID      string  `json:"track_id"`
	LoudnessLUFS float64 `json:"loudness_lufs"`
	TempoBPM     float64 `json:"tempo_bpm"`
	Energy       float64 `json:"energy"`
	Placeholder  bool    `json:"placeholder"`
}
