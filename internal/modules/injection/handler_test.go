package injection

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/code-injection/core/internal/middleware"
	"github.com/code-injection/core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(store *fakeStore, settings *fakeSettings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine, _ := newTestEngine(store, settings)
	r := gin.New()
	passthrough := func(c *gin.Context) { c.Next() }
	NewHandler(engine).RegisterRoutes(r.Group(""), middleware.OptionalAuth(), passthrough)
	return r
}

func TestInjectEndpointSuccess(t *testing.T) {
	store := &fakeStore{entities: []*models.CodeModel{published("1", "code-1", "<b>hi</b>")}}
	router := testRouter(store, &fakeSettings{maxAge: 60})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/inject/code-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<b>hi</b>", w.Body.String())
}

func TestInjectEndpointRejectionRendersEmpty(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeSettings{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/inject/missing", nil))

	// A broken injection must not break the embedding page.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRawEndpointSuccess(t *testing.T) {
	entity := published("1", "code-1", "body { color: red }")
	entity.PubliclyQueryable = true
	entity.ContentType = "text/css"
	store := &fakeStore{entities: []*models.CodeModel{entity}}
	router := testRouter(store, &fakeSettings{maxAge: 84600})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/raw?id=code-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body { color: red }", w.Body.String())
	assert.Equal(t, "text/css; charset=UTF-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=84600, public, no-transform", w.Header().Get("Cache-Control"))
}

func TestRawEndpointNoCacheHeaders(t *testing.T) {
	entity := published("1", "code-1", "x")
	entity.PubliclyQueryable = true
	entity.NoCache = true
	store := &fakeStore{entities: []*models.CodeModel{entity}}
	router := testRouter(store, &fakeSettings{maxAge: 84600})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/raw?id=code-1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
	assert.Equal(t, "Sat, 26 Jul 1997 05:00:00 GMT", w.Header().Get("Expires"))
}

func TestRawEndpointRejectionsAre404(t *testing.T) {
	private := published("1", "code-private", "x")
	private.State = models.StatePrivate
	private.PubliclyQueryable = true
	notQueryable := published("2", "code-hidden", "x")
	store := &fakeStore{entities: []*models.CodeModel{private, notQueryable}}
	router := testRouter(store, &fakeSettings{})

	for _, target := range []string{"missing", "code-private", "code-hidden"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/raw?id="+target, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestRawEndpointLegacyParam(t *testing.T) {
	entity := published("1", "code-1", "x")
	entity.PubliclyQueryable = true
	store := &fakeStore{entities: []*models.CodeModel{entity}}
	router := testRouter(store, &fakeSettings{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/raw?raw=code-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnsafeEndpoint(t *testing.T) {
	router := testRouter(&fakeStore{}, &fakeSettings{execEnabled: true, keys: []string{"key-1"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/unsafe", strings.NewReader(`{"body":"echo(\"hi\")","key":"key-1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/unsafe", strings.NewReader(`{"body":"echo(\"hi\")","key":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
