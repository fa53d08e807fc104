package kernel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/honeyshop/app/routes"
	"github.com/shashiranjanraj/honeyshop/pkg/auth"
	"github.com/shashiranjanraj/honeyshop/pkg/reqid"
	"github.com/shashiranjanraj/honeyshop/pkg/storage"
)

func testRouter(t *testing.T) (http.Handler, *storage.LocalDisk) {
	t.Helper()
	disk, err := storage.NewLocalDisk(t.TempDir(), "http://localhost/storage")
	require.NoError(t, err)

	r := NewRouter(routes.API{
		Tokens:  auth.NewIssuer("k", 0),
		GraphQL: http.NotFoundHandler(),
	}, disk)
	return r.Handler(), disk
}

func TestNewRouter_MetricsAndRequestID(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "honeyshop_http_requests_in_flight")
	assert.NotEmpty(t, rec.Header().Get(reqid.Header))
}

func TestNewRouter_KeepsUpstreamRequestID(t *testing.T) {
	h, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(reqid.Header, "abc123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc123", rec.Header().Get(reqid.Header))
}

func TestNewRouter_ServesLocalStorage(t *testing.T) {
	h, disk := testRouter(t)
	require.NoError(t, disk.Put(context.Background(), "products/a.txt", strings.NewReader("honey"), "text/plain"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/storage/products/a.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "honey", rec.Body.String())
}

func TestNewRouter_ProtectedRoutesNeedToken(t *testing.T) {
	h, _ := testRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAllowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ws/orders", nil)
	assert.True(t, allowedOrigin(req))

	req.Header.Set("Origin", "https://shop.example.com")
	assert.True(t, allowedOrigin(req), "default origin list is *")
}
