package doctors

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/database"
	"clinic-booking/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type httpHandler struct {
	authorizer auth.Authorizer
	service    Service
	logger     zerolog.Logger
}

// Setup setups the routes handled by doctors context.
func Setup(router chi.Router, logger zerolog.Logger, authorizer auth.Authorizer, locator clinics.Locator, dbConn database.Connection) {
	handler := &httpHandler{logger: logger, authorizer: authorizer, service: NewService(dbConn)}

	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(clinics.ClinicContext(locator, logger))
		group.Get("/api/v1/doctors", handler.ListDoctors)
		group.Post("/api/v1/doctors", handler.CreateDoctor)
		group.Put("/api/v1/doctors/{doctorUUID}", handler.UpdateDoctor)
	})
}

// views converts the doctors to their client representation.
func views(doctors []*Doctor) []DoctorView {
	result := make([]DoctorView, 0, len(doctors))
	for _, doctor := range doctors {
		result = append(result, doctor.View())
	}
	return result
}

func (h httpHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clinic, found := clinics.FromContext(ctx)
	if !found {
		_ = json.NewEncoder(w).Encode([]DoctorView{})
		return
	}
	doctors, err := h.service.List(ctx, clinic)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(views(doctors))
}

func (h httpHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	request := new(DoctorRequest)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	clinic, err := clinics.Required(ctx)
	if err != nil {
		apierrors.Write(w, err)
		return
	}
	doctor, err := h.service.Create(ctx, user, clinic, *request)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(doctor.View())
}

func (h httpHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doctorUUID, err := uuid.Parse(chi.URLParam(r, "doctorUUID"))
	if err != nil {
		apierrors.Write(w, apierrors.NewAPIError(apierrors.WithDetail(ErrInvalidIdentifier), apierrors.WithHTTPStatusCode(http.StatusBadRequest)))
		return
	}
	request := new(DoctorRequest)
	if err = json.NewDecoder(r.Body).Decode(request); err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	clinic, err := clinics.Required(ctx)
	if err != nil {
		apierrors.Write(w, err)
		return
	}
	doctor, err := h.service.Update(ctx, clinic, doctorUUID, *request)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(doctor.View())
}
