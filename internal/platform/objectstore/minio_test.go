package objectstore

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

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Endpoint: "localhost:9000"}.Enabled())
	assert.True(t, Config{Endpoint: "localhost:9000", Bucket: "quotations"}.Enabled())
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "quotations/lead-1.pdf", ObjectName("lead-1"))
}

func TestArchive_NilIsInert(t *testing.T) {
	var a *Archive
	assert.NoError(t, a.StorePDF(context.Background(), "lead-1", []byte("pdf")))
}

type fakeS3 struct {
	mu      sync.Mutex
	puts    map[string][]byte
	types   map[string]string
	buckets map[string]bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, object, _ := strings.Cut(path, "/")
	switch {
	case r.Method == http.MethodHead && object == "":
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && object == "":
		f.buckets[bucket] = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.puts[path] = body
		f.types[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func TestArchive_StorePDF(t *testing.T) {
	fake := &fakeS3{puts: map[string][]byte{}, types: map[string]string{}, buckets: map[string]bool{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	archive, err := New(context.Background(), Config{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "archive",
	})
	require.NoError(t, err)
	assert.True(t, fake.buckets["archive"])

	require.NoError(t, archive.StorePDF(context.Background(), "lead-1", []byte("%PDF-1.7")))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Contains(t, fake.puts, "archive/quotations/lead-1.pdf")
	assert.Contains(t, string(fake.puts["archive/quotations/lead-1.pdf"]), "%PDF-1.7")
	assert.Equal(t, "application/pdf", fake.types["archive/quotations/lead-1.pdf"])
}
