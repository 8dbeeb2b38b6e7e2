package middlewarectx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subscription_tracker_http_requests_total",
		Help: "Количество HTTP-запросов по методу, пути и коду ответа.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "subscription_tracker_http_request_duration_seconds",
		Help:    "Длительность обработки HTTP-запросов.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// MetricsMiddleware собирает счётчик и гистограмму длительности по каждому запросу.
// В качестве пути используется шаблон маршрута chi, а не сырой URL,
// чтобы не плодить метки на каждый идентификатор.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		routePath := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePath = rctx.RoutePattern()
		}

		requestsTotal.WithLabelValues(r.Method, routePath, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, routePath).Observe(time.Since(start).Seconds())
	})
}
