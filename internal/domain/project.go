package domain

import "time"

// Project is an entry of the project gallery.
type Project struct {
	ID           string
	Title        string
	Description  string
	Category     string
	ImageURL     *string
	Technologies []string
	Platform     *string
	Date         string
	CreatedAt    time.Time
}

type ProjectInput struct {
	Title        string
	Description  string
	Category     string
	ImageURL     *string
	Technologies []string
	Platform     *string
	Date         string
}
