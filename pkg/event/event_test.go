package event

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakeEvent(t *testing.T) {
	payload := PostCreatedPayload{
		PostId:  "p1",
		UserId:  "u1",
		Content: "hello",
	}

	e, err := MakeEvent(PostCreated, payload)
	if err != nil {
		t.Fatalf("MakeEvent() error = %v", err)
	}

	if e.Id == "" {
		t.Errorf("MakeEvent() did not assign an ID")
	}
	if e.Type != PostCreated {
		t.Errorf("MakeEvent() type = %v, want %v", e.Type, PostCreated)
	}
	if e.Timestamp.IsZero() {
		t.Errorf("MakeEvent() did not assign a timestamp")
	}

	var got PostCreatedPayload
	if err := json.Unmarshal(e.Body, &got); err != nil {
		t.Fatalf("Failed to unmarshal event body, err: %v", err)
	}
	if !cmp.Equal(got, payload) {
		t.Errorf("Event body does not match payload, got = %+v, want = %+v", got, payload)
	}

	e2, err := MakeEvent(PostCreated, payload)
	if err != nil {
		t.Fatalf("MakeEvent() error = %v", err)
	}
	if e.Id == e2.Id {
		t.Errorf("MakeEvent() assigned the same ID twice")
	}
}

func TestPostCreatedPayloadValidate(t *testing.T) {
	testCases := []struct {
		desc    string
		payload PostCreatedPayload
		wantErr bool
	}{
		{
			desc:    "Test if a complete payload is valid",
			payload: PostCreatedPayload{PostId: "p1", UserId: "u1", Content: "hello"},
		},
		{
			desc:    "Test if a missing postId is rejected",
			payload: PostCreatedPayload{UserId: "u1", Content: "hello"},
			wantErr: true,
		},
		{
			desc:    "Test if a missing userId is rejected",
			payload: PostCreatedPayload{PostId: "p1", Content: "hello"},
			wantErr: true,
		},
		{
			desc:    "Test if missing content is rejected",
			payload: PostCreatedPayload{PostId: "p1", UserId: "u1"},
			wantErr: true,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			err := tC.payload.Validate()
			if (err != nil) != tC.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tC.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Validate() error = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestPostDeletedPayloadValidate(t *testing.T) {
	testCases := []struct {
		desc    string
		payload PostDeletedPayload
		wantErr bool
	}{
		{
			desc:    "Test if a complete payload is valid",
			payload: PostDeletedPayload{PostId: "p1", UserId: "u1", MediaIds: []string{"m1"}},
		},
		{
			desc:    "Test if an empty media list is valid",
			payload: PostDeletedPayload{PostId: "p1", UserId: "u1", MediaIds: []string{}},
		},
		{
			desc:    "Test if a missing media list is rejected",
			payload: PostDeletedPayload{PostId: "p1", UserId: "u1"},
			wantErr: true,
		},
		{
			desc:    "Test if a missing postId is rejected",
			payload: PostDeletedPayload{UserId: "u1", MediaIds: []string{"m1"}},
			wantErr: true,
		},
		{
			desc:    "Test if a missing userId is rejected",
			payload: PostDeletedPayload{PostId: "p1", MediaIds: []string{"m1"}},
			wantErr: true,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			err := tC.payload.Validate()
			if (err != nil) != tC.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tC.wantErr)
			}
		})
	}
}
