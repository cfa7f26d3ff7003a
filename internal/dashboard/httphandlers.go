package dashboard

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/database"
	"clinic-booking/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type httpHandler struct {
	service Service
	logger  zerolog.Logger
}

// Setup setups the routes handled by dashboard context.
func Setup(router chi.Router, logger zerolog.Logger, authorizer auth.Authorizer, locator clinics.Locator, dbConn database.Connection) {
	handler := &httpHandler{logger: logger, service: NewService(dbConn)}

	router.Group(func(group chi.Router) {
		group.Use(auth.JwtValidator(authorizer))
		group.Use(clinics.ClinicContext(locator, logger))
		group.Get("/api/v1/dashboard", handler.GetSummary)
	})
}

func (h httpHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clinic, found := clinics.FromContext(ctx)
	if !found {
		_ = json.NewEncoder(w).Encode(emptySummary())
		return
	}
	summary, err := h.service.Summarize(ctx, clinic)
	if err != nil {
		logging.RequestError(h.logger, r, err)
		apierrors.Write(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(summary)
}
