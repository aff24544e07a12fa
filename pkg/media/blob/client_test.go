package blob_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pulse-social/pulse/pkg/media"
	"github.com/pulse-social/pulse/pkg/media/blob"
)

func TestStore(t *testing.T) {
	t.Run("Test if the binary is posted as multipart and the response is decoded", func(t *testing.T) {
		want := media.Blob{Id: "b1", Url: "https://blobs/b1"}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/blobs" {
				t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("Missing or wrong Authorization header: %q", r.Header.Get("Authorization"))
			}

			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("Failed to parse multipart form, err: %v", err)
			}
			if got := r.FormValue("mime_type"); got != "image/png" {
				t.Errorf("mime_type = %q, want %q", got, "image/png")
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("Missing file part, err: %v", err)
			}
			defer file.Close()
			if header.Filename != "cat.png" {
				t.Errorf("Filename = %q, want %q", header.Filename, "cat.png")
			}

			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(map[string]string{"id": want.Id, "url": want.Url}); err != nil {
				t.Errorf("Failed to encode response, err: %v", err)
			}
		}))
		defer server.Close()

		client := blob.NewClient(server.URL, "test-key")

		got, err := client.Store(context.Background(), "cat.png", "image/png", []byte("image bytes"))
		if err != nil {
			t.Fatalf("Store() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("Store():\n%s", cmp.Diff(got, want))
		}
	})

	t.Run("Test if a server error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := blob.NewClient(server.URL, "test-key")

		if _, err := client.Store(context.Background(), "cat.png", "image/png", nil); err == nil {
			t.Errorf("Store() error = nil, want an error")
		}
	})
}

func TestDelete(t *testing.T) {
	testCases := []struct {
		desc    string
		status  int
		wantErr bool
	}{
		{
			desc:   "Test if a successful delete returns no error",
			status: http.StatusNoContent,
		},
		{
			desc:   "Test if an absent blob counts as deleted",
			status: http.StatusNotFound,
		},
		{
			desc:    "Test if a server error surfaces",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/blobs/b1" {
					t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tC.status)
			}))
			defer server.Close()

			client := blob.NewClient(server.URL, "test-key")

			err := client.Delete(context.Background(), "b1")
			if (err != nil) != tC.wantErr {
				t.Errorf("Delete() error = %v, wantErr = %v", err, tC.wantErr)
			}
		})
	}
}
