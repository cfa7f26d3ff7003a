package appointments

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/configs"
	"clinic-booking/internal/database"
	"clinic-booking/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type httpHandler struct {
	service Service
	logger  zerolog.Logger
}

// Setup setups the routes handled by appointments context.
func Setup(router chi.Router, logger zerolog.Logger, authorizer auth.Authorizer, locator clinics.Locator, config configs.Config, dbConn database.Connection) error {
	service, err := NewService(config, dbConn)
	if err != nil {
		return err
	}
	handler := &httpHandler{logger: logger, service: service}

	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(clinics.ClinicContext(locator, logger))
		group.Get("/api/v1/appointments", handler.ListAppointments)
		group.Post("/api/v1/appointments", handler.CreateAppointment)
	})
	return nil
}

func (h httpHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clinic, found := clinics.FromContext(ctx)
	if !found {
		_ = json.NewEncoder(w).Encode([]EntryView{})
		return
	}
	entries, err := h.service.List(ctx, clinic)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(entries)
}

func (h httpHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	request := new(AppointmentRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	appointment, err := h.service.Create(ctx, *request)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(appointment.View())
}
