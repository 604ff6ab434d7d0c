// Package model defines the data structures used throughout the application.
package model

import "time"

// Author is a book author. An author owns zero or more books; deleting an
// author cascades to its books at the storage layer.
type Author struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Biography string    `json:"biography,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
