package domain

import "time"

// Game is an uploaded Unity WebGL build shown in the game player.
type Game struct {
	ID           string
	Title        string
	Description  string
	Category     string
	BuildPath    *string
	ThumbnailURL *string
	CreatedAt    time.Time
}

// GameInput carries the text fields of a game upload.
type GameInput struct {
	Title        string
	Description  string
	Category     string
	ThumbnailURL *string
}
