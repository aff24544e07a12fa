package entity

// SearchDoc is a denormalized projection of a post kept by the search service.
// Unique on (PostId, UserId), full-text indexed on Content.
type SearchDoc struct {
	PostId  string `bson:"post_id" json:"post_id,omitempty"`
	UserId  string `bson:"user_id" json:"user_id,omitempty"`
	Content string `bson:"content" json:"content,omitempty"`
}
