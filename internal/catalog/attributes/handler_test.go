package attributes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo, nil))

	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.Route("/attributes", h.MountRoutes)
	return r, repo
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandlerCreateAndShow(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/attributes/", map[string]string{
		"type": "Color", "value": "Red",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[Attribute](t, rec)
	assert.Equal(t, "Color", created.Type)
	assert.Equal(t, "Red", created.Value)
	require.NotZero(t, created.ID)

	rec = doJSON(t, router, http.MethodGet, "/attributes/1/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[Attribute](t, rec)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestHandlerCreateValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/attributes/", map[string]string{"type": "Color"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "value")
	assert.NotContains(t, errs, "type")
}

func TestHandlerListFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, seed := range []map[string]string{
		{"type": "Color", "value": "Red"},
		{"type": "Color", "value": "Blue"},
		{"type": "Size", "value": "XL"},
	} {
		rec := doJSON(t, router, http.MethodPost, "/attributes/", seed)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/attributes/?type=Size", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	attrs := decodeBody[[]Attribute](t, rec)
	require.Len(t, attrs, 1)
	assert.Equal(t, "XL", attrs[0].Value)

	// An unrecognized query key is ignored, not an error.
	rec = doJSON(t, router, http.MethodGet, "/attributes/?type2=Size", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	attrs = decodeBody[[]Attribute](t, rec)
	assert.Len(t, attrs, 3)
}

func TestHandlerShowNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/attributes/42/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/attributes/abc/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerUpdate(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/attributes/", map[string]string{
		"type": "Color", "value": "Red",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/attributes/1/", map[string]string{
		"type": "Color", "value": "Green",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[Attribute](t, rec)
	assert.Equal(t, "Green", updated.Value)
}

func TestHandlerUpdateInvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/attributes/", map[string]string{
		"type": "Color", "value": "Red",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/attributes/1/", bytes.NewReader([]byte("{not json")))
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusBadRequest, out.Code)
}

func TestHandlerDelete(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/attributes/", map[string]string{
		"type": "Color", "value": "Red",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/attributes/1/delete/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "deleted", body["status"])

	rec = doJSON(t, router, http.MethodPost, "/attributes/1/delete/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
