package model

// Item is a todo entry as the server returns it.
// The server assigns ID; items are never edited in place.
type Item struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewItem is the create payload for POST /api/todos.
type NewItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
