// Package metrics contains middlewares and counters for metrics gathering.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP Requests total counter
var totalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP Requests.",
	},
	[]string{"method", "path", "status"},
)

// HTTP Response duration
var duration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_duration_seconds",
		Help: "HTTP Requests Duration",
	},
	[]string{"method", "path"},
)

// Appointments created, by status
var appointmentsCreated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "clinic_appointments_created_total",
		Help: "Appointments created.",
	},
	[]string{"status"},
)

// Appointments refused by the doctor's availability, by reason
var appointmentsRejected = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "clinic_appointments_rejected_total",
		Help: "Appointments rejected by the doctor's availability.",
	},
	[]string{"reason"},
)

func init() {
	prometheus.MustRegister(totalRequests, duration, appointmentsCreated, appointmentsRejected)
}

// routePattern returns the chi route pattern that served the request, so URL parameters don't
// explode the label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// PrometheusMiddleware instruments the given request and register metrics.
func PrometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		path := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		totalRequests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// AppointmentCreated counts a created appointment.
func AppointmentCreated(status string) {
	appointmentsCreated.WithLabelValues(status).Inc()
}

// AppointmentRejected counts an appointment refused because of the doctor's availability.
func AppointmentRejected(reason string) {
	appointmentsRejected.WithLabelValues(reason).Inc()
}
