package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusMiddleware(t *testing.T) {
	router := chi.NewRouter()
	router.Use(PrometheusMiddleware)
	router.Get("/api/v1/doctors/{doctorUUID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(totalRequests.WithLabelValues("GET", "/api/v1/doctors/{doctorUUID}", "404"))
	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest("GET", "/api/v1/doctors/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	after := testutil.ToFloat64(totalRequests.WithLabelValues("GET", "/api/v1/doctors/{doctorUUID}", "404"))
	if after-before != 2 {
		t.Errorf("requests counted by route pattern = %v, want 2", after-before)
	}
}

func TestAppointmentCounters(t *testing.T) {
	before := testutil.ToFloat64(appointmentsCreated.WithLabelValues("pending"))
	AppointmentCreated("pending")
	if got := testutil.ToFloat64(appointmentsCreated.WithLabelValues("pending")) - before; got != 1 {
		t.Errorf("created appointments = %v, want 1", got)
	}
	before = testutil.ToFloat64(appointmentsRejected.WithLabelValues("doctor does not work this day"))
	AppointmentRejected("doctor does not work this day")
	if got := testutil.ToFloat64(appointmentsRejected.WithLabelValues("doctor does not work this day")) - before; got != 1 {
		t.Errorf("rejected appointments = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	AppointmentCreated("confirmed")
	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("response status is incorrect, got %d, want %d", recorder.Code, http.StatusOK)
	}
	if !strings.Contains(recorder.Body.String(), "clinic_appointments_created_total") {
		t.Errorf("metrics output does not expose the appointments counter")
	}
}
