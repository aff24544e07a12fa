package event

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload marks an event whose payload is missing required fields.
// Such events are logged and dropped, never retried.
var ErrInvalidPayload = errors.New("invalid event payload")

// PostCreatedPayload is the body of a post.created event.
type PostCreatedPayload struct {
	PostId  string `json:"postId"`
	UserId  string `json:"userId"`
	Content string `json:"content"`
}

func (p PostCreatedPayload) Validate() error {
	switch {
	case p.PostId == "":
		return fmt.Errorf("%w: missing postId", ErrInvalidPayload)
	case p.UserId == "":
		return fmt.Errorf("%w: missing userId", ErrInvalidPayload)
	case p.Content == "":
		return fmt.Errorf("%w: missing content", ErrInvalidPayload)
	}
	return nil
}

// PostDeletedPayload is the body of a post.deleted event. It carries the IDs
// of dependent media records since the producer's own record is gone by the
// time consumers see the event.
type PostDeletedPayload struct {
	PostId    string   `json:"postId"`
	UserId    string   `json:"userId"`
	MediaIds  []string `json:"mediaIds"`
	Timestamp string   `json:"timestamp"`
}

func (p PostDeletedPayload) Validate() error {
	switch {
	case p.PostId == "":
		return fmt.Errorf("%w: missing postId", ErrInvalidPayload)
	case p.UserId == "":
		return fmt.Errorf("%w: missing userId", ErrInvalidPayload)
	case p.MediaIds == nil:
		return fmt.Errorf("%w: missing mediaIds", ErrInvalidPayload)
	}
	return nil
}
