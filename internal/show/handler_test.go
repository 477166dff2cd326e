package show

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendashows/service/internal/response"
)

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/shows", h.ListPublic)
	r.Get("/admin/shows", h.ListAdmin)
	r.Post("/admin/shows", h.Create)
	r.Put("/admin/shows/{id}", h.Update)
	r.Delete("/admin/shows/{id}", h.Delete)
	return r
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody(fields map[string]string) *multipartBody {
	b := &multipartBody{}
	b.writer = multipart.NewWriter(&b.buf)
	for k, v := range fields {
		_ = b.writer.WriteField(k, v)
	}
	return b
}

func (b *multipartBody) addFile(t *testing.T, field, filename, contentType string, content []byte) {
	t.Helper()
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := b.writer.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
}

func (b *multipartBody) request(method, target string) *http.Request {
	_ = b.writer.Close()
	req := httptest.NewRequest(method, target, &b.buf)
	req.Header.Set("Content-Type", b.writer.FormDataContentType())
	return req
}

func TestHandler_CreateShow(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	body := newMultipartBody(map[string]string{
		"artista":     "Banda X",
		"data_inicio": "2025-06-01",
		"local":       "Clube Y",
		"cidade":      "Cidade Z",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(http.MethodPost, "/admin/shows"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Data    Show `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "Banda X", env.Data.Artista)
	assert.Nil(t, env.Data.Flyer)
	assert.Len(t, store.rows, 1)
}

func TestHandler_CreateMissingFieldIs400(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	body := newMultipartBody(map[string]string{
		"artista":     "Banda X",
		"data_inicio": "2025-06-01",
		"local":       "Clube Y",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(http.MethodPost, "/admin/shows"))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Contains(t, env.Error, "cidade")
	assert.Empty(t, store.rows)
}

func TestHandler_CreateRejectsNonImageFile(t *testing.T) {
	svc, _, objects, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	body := newMultipartBody(map[string]string{
		"artista":     "Banda X",
		"data_inicio": "2025-06-01",
		"local":       "Clube Y",
		"cidade":      "Cidade Z",
	})
	body.addFile(t, "flyer", "notes.txt", "text/plain", []byte("not an image"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, body.request(http.MethodPost, "/admin/shows"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, objects.uploaded, "rejected file must never be uploaded")
}

type closeSpy struct {
	*bytes.Reader
	closed bool
}

func (c *closeSpy) Close() error {
	c.closed = true
	return nil
}

func TestCloseUpload_ClosesBackingFile(t *testing.T) {
	spy := &closeSpy{Reader: bytes.NewReader([]byte("img"))}

	closeUpload(&Upload{Filename: "f.jpg", Reader: spy})
	assert.True(t, spy.closed)

	closeUpload(nil) // must not panic
	closeUpload(&Upload{Filename: "f.jpg", Reader: bytes.NewReader(nil)})
}

func TestHandler_DeleteWithoutConfirmIs400(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	store.rows["s1"] = Show{ID: "s1", Artista: "Banda X", DataInicio: "2025-06-01", Local: "L", Cidade: "C"}
	router := newTestRouter(NewHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/shows/s1", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, store.rows, "s1")
}

func TestHandler_DeleteConfirmed(t *testing.T) {
	svc, store, _, _, _ := newTestService()
	store.rows["s1"] = Show{ID: "s1", Artista: "Banda X", DataInicio: "2025-06-01", Local: "L", Cidade: "C"}
	router := newTestRouter(NewHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/shows/s1?confirm=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, store.rows, "s1")
}

func TestHandler_DeleteUnknownShowIs404(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	router := newTestRouter(NewHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/shows/nope?confirm=true", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_AdminListDegradesToEmptyOnError(t *testing.T) {
	log := &callLog{}
	store := newFakeStore(log)
	store.listErr = assert.AnError
	svc := NewService(store, &fakeObjects{log: log}, &fakeMarker{log: log})
	router := newTestRouter(NewHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/shows", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool   `json:"success"`
		Data    []Show `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
}

func TestHandler_PublicListingSurfacesReadFailure(t *testing.T) {
	log := &callLog{}
	store := newFakeStore(log)
	store.listErr = assert.AnError
	svc := NewService(store, &fakeObjects{log: log}, &fakeMarker{log: log})
	router := newTestRouter(NewHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shows", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
