package gentest

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/event"
)

func RandomString(length int) string {
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	v := make([]rune, length)
	for i := range v {
		v[i] = letters[rand.Intn(len(letters))]
	}
	return string(v)
}

// RandomPost panics on hardware error.
// It should be used ONLY for testing.
func RandomPost(mediaCount int) entity.Post {
	id := uuid.Must(uuid.NewV4())
	userId := uuid.Must(uuid.NewV4())

	mediaIds := make([]string, mediaCount)
	for i := range mediaIds {
		mediaIds[i] = uuid.Must(uuid.NewV4()).String()
	}

	return entity.Post{
		Id:        id.String(),
		UserId:    userId.String(),
		Content:   RandomString(10),
		MediaIds:  mediaIds,
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

// RandomPostCreatedEvent returns a valid post.created event and its payload.
// It panics on error and should be used ONLY for testing.
func RandomPostCreatedEvent() (event.Event, event.PostCreatedPayload) {
	payload := event.PostCreatedPayload{
		PostId:  uuid.Must(uuid.NewV4()).String(),
		UserId:  uuid.Must(uuid.NewV4()).String(),
		Content: RandomString(10),
	}

	e, err := event.MakeEvent(event.PostCreated, payload)
	if err != nil {
		panic(err)
	}
	return e, payload
}

// RandomPostDeletedEvent returns a valid post.deleted event and its payload.
// It panics on error and should be used ONLY for testing.
func RandomPostDeletedEvent(mediaCount int) (event.Event, event.PostDeletedPayload) {
	mediaIds := make([]string, mediaCount)
	for i := range mediaIds {
		mediaIds[i] = uuid.Must(uuid.NewV4()).String()
	}

	payload := event.PostDeletedPayload{
		PostId:    uuid.Must(uuid.NewV4()).String(),
		UserId:    uuid.Must(uuid.NewV4()).String(),
		MediaIds:  mediaIds,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	e, err := event.MakeEvent(event.PostDeleted, payload)
	if err != nil {
		panic(err)
	}
	return e, payload
}

// MustMarshal marshals v to JSON and panics on error.
// It should be used ONLY for testing.
func MustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
