package models

// Suggestion is the sole persistent entity: one anonymous text submission
// with a read/unread flag. JSON field names match the on-disk document and
// the public API payloads.
type Suggestion struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	// CreatedAt is an RFC3339 UTC timestamp, set once at creation.
	CreatedAt string `json:"createdAt"`
	IsRead    bool   `json:"isRead"`
}
