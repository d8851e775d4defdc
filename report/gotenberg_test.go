package report

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RenderHTML_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(10<<20))

		file, header, err := r.FormFile("files")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "index.html", header.Filename)
		html, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Contains(t, string(html), "QUOTATION")

		assert.Equal(t, "8.27", r.FormValue("paperWidth"))
		assert.Equal(t, "11.7", r.FormValue("paperHeight"))
		assert.Equal(t, "true", r.FormValue("printBackground"))

		_, _ = w.Write([]byte("MOCK-PDF"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second).WithHTTPClient(srv.Client())
	pdf, err := client.RenderHTML(context.Background(), "<h1>QUOTATION</h1>")

	require.NoError(t, err)
	assert.Equal(t, "MOCK-PDF", string(pdf))
}

func TestClient_RenderHTML_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).RenderHTML(context.Background(), "<p/>")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "chromium crashed")
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", 0).RenderHTML(context.Background(), "<p/>")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, NewClient("", 0).Ping(context.Background()), ErrNotConfigured)
}

func TestHandler_Ping(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	h := NewHandler(NewClient(srv.URL, time.Second), slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	h.MountRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	healthy = false
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
