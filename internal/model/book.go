package model

import "time"

// Book is a catalog entry.
//
// PublishedDate is a calendar date with no time component, carried as a
// "YYYY-MM-DD" string on the wire and in storage. The service layer
// validates the format on writes.
//
// On reads the repository joins the authors table and fills Author, so API
// responses nest the complete author object rather than just its id.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AuthorID      string    `json:"author_id"`
	Author        *Author   `json:"author,omitempty"`
	Description   string    `json:"description,omitempty"`
	PublishedDate string    `json:"published_date"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
