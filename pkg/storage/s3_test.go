package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Store_PutStreamsUnseekableBody(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotBody     string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath = r.URL.Path
		gotBody = string(body)
		contentType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), Config{
		S3Bucket:       "studio",
		S3Region:       "us-east-1",
		S3Endpoint:     srv.URL,
		S3AccessKey:    "key",
		S3SecretKey:    "secret",
		S3UsePathStyle: true,
		PublicBaseURL:  "https://cdn.example.com/",
	})
	require.NoError(t, err)

	// a download body: no Seek, no known length
	body := io.NopCloser(strings.NewReader("png-bytes"))
	url, err := store.Put(context.Background(), "media/user_1/a.png", "image/png", body)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/user_1/a.png", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/studio/media/user_1/a.png", gotPath)
	assert.Equal(t, "png-bytes", gotBody)
	assert.Equal(t, "image/png", contentType)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), Config{Driver: "s3"})
	assert.ErrorContains(t, err, "S3_BUCKET")
}
