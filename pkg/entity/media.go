package entity

import "time"

// Media is owned by the media service. The binary itself lives in an external
// blob store, referenced by BlobId.
type Media struct {
	Id           string    `bson:"_id" json:"id,omitempty"`
	UserId       string    `bson:"user_id" json:"user_id,omitempty"` // Uploader's ID.
	BlobId       string    `bson:"blob_id" json:"blob_id,omitempty"`
	OriginalName string    `bson:"original_name" json:"original_name,omitempty"`
	MimeType     string    `bson:"mime_type" json:"mime_type,omitempty"`
	Url          string    `bson:"url" json:"url,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at,omitempty"`
}
