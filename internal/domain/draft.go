package domain

import "time"

// Draft is a named, immutable snapshot of an in-progress cart. Total is frozen
// at save time so the list view does not depend on live prices.
type Draft struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Cart    Cart      `json:"cart"`
	Total   int64     `json:"total"`
	SavedAt time.Time `json:"savedAt"`
}
