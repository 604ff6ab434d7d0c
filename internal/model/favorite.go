package model

import "time"

// UserFavorite marks a book as a favorite of a user. The (UserID, BookID)
// pair is unique — a user cannot favorite the same book twice. Favorites
// exist only to be excluded from that user's recommendations.
type UserFavorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	CreatedAt time.Time `json:"createdAt"`
}
