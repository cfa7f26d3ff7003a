package patients

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
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type httpHandler struct {
	authorizer auth.Authorizer
	service    Service
	logger     zerolog.Logger
}

// Setup setups the routes handled by patients context.
func Setup(router chi.Router, logger zerolog.Logger, authorizer auth.Authorizer, locator clinics.Locator, config configs.Config, dbConn database.Connection) {
	handler := &httpHandler{logger: logger, authorizer: authorizer, service: NewService(config, dbConn)}

	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(clinics.ClinicContext(locator, logger))
		group.Get("/api/v1/patients", handler.ListPatients)
		group.Post("/api/v1/patients", handler.CreatePatient)
		group.Put("/api/v1/patients/{patientUUID}", handler.UpdatePatient)
		group.Delete("/api/v1/patients/{patientUUID}", handler.DeletePatient)
	})
}

// parsePatientUUID parses the patientUUID URL parameter.
func parsePatientUUID(r *http.Request) (uuid.UUID, error) {
	patientUUID, err := uuid.Parse(chi.URLParam(r, "patientUUID"))
	if err != nil {
		return uuid.Nil, apierrors.NewAPIError(apierrors.WithDetail(ErrInvalidIdentifier), apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	return patientUUID, nil
}

func (h httpHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clinic, found := clinics.FromContext(ctx)
	if !found {
		_ = json.NewEncoder(w).Encode([]PatientView{})
		return
	}
	patients, err := h.service.List(ctx, clinic)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	result := make([]PatientView, 0, len(patients))
	for _, patient := range patients {
		result = append(result, patient.View())
	}
	_ = json.NewEncoder(w).Encode(result)
}

func (h httpHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	request := new(PatientRequest)
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
	patient, err := h.service.Create(ctx, user, clinic, *request)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(patient.View())
}

func (h httpHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientUUID, err := parsePatientUUID(r)
	if err != nil {
		apierrors.Write(w, err)
		return
	}
	request := new(PatientRequest)
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
	patient, err := h.service.Update(ctx, clinic, patientUUID, *request)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(patient.View())
}

func (h httpHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientUUID, err := parsePatientUUID(r)
	if err != nil {
		apierrors.Write(w, err)
		return
	}
	clinic, err := clinics.Required(ctx)
	if err != nil {
		apierrors.Write(w, err)
		return
	}
	if err = h.service.Delete(ctx, clinic, patientUUID); err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
