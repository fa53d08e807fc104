package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/products/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/products/{slug}", "418"))
	for _, slug := range []string{"clover", "wildflower"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/"+slug, nil))
	}
	after := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/products/{slug}", "418"))
	assert.Equal(t, before+2, after)
}

func TestHandlerExposesShopCounters(t *testing.T) {
	OrdersCreated.Inc()
	RecordQueueJob("order.confirmation", errors.New("smtp down"))
	RecordCache(true)

	rec := httptest.NewRecorder()
	Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, "honeyshop_shop_orders_created_total")
	assert.Contains(t, body, `honeyshop_queue_jobs_processed_total{job_type="order.confirmation",status="failed"}`)
}
