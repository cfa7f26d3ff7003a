package clinics

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/database"
	"clinic-booking/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type httpHandler struct {
	authorizer auth.Authorizer
	service    Service
	logger     zerolog.Logger
}

// Setup setups the routes handled by clinics context and returns the service, which also works as
// the Locator of the other contexts.
func Setup(router chi.Router, logger zerolog.Logger, authorizer auth.Authorizer, dbConn database.Connection) Service {
	service := NewService(dbConn)
	setupRoutes(router, logger, authorizer, service)
	return service
}

func setupRoutes(router chi.Router, logger zerolog.Logger, authorizer auth.Authorizer, service Service) {
	handler := &httpHandler{logger: logger, authorizer: authorizer, service: service}

	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Get("/api/v1/clinics", handler.ListClinics)
		group.Post("/api/v1/clinics", handler.CreateClinic)
	})
}

func (h httpHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.authorizer.GetAuthenticatedUser(ctx)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	clinics, err := h.service.List(ctx, user)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(clinics)
}

func (h httpHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	request := new(ClinicRequest)
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
	clinic, err := h.service.Create(ctx, user, *request)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(clinic)
}
