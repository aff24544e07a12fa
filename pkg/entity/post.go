package entity

import "time"

// Post is owned and mutated exclusively by the post service.
// Other services learn about it only through events.
type Post struct {
	Id        string    `bson:"_id" json:"id,omitempty"`
	UserId    string    `bson:"user_id" json:"user_id,omitempty"` // Author's ID.
	Content   string    `bson:"content" json:"content,omitempty"`
	MediaIds  []string  `bson:"media_ids" json:"media_ids,omitempty"` // Soft references to media records, by ID only.
	CreatedAt time.Time `bson:"created_at" json:"created_at,omitempty"`
}
