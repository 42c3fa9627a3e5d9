package domain

// Post is an append-only timestamp record. IDs are assigned by the store
// and strictly increase with insertion order.
type Post struct {
	ID        int   `json:"id"        example:"2"`
	Timestamp int64 `json:"timestamp" example:"1760652000"`
}

// SeedPosts returns the posts the store is initialized with on process start.
func SeedPosts() []Post {
	return []Post{
		{ID: 0, Timestamp: 12},
		{ID: 1, Timestamp: 10},
	}
}
