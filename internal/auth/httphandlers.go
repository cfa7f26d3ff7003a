package auth

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/apierrors"
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

// Setup setups the routes handled by auth context.
func Setup(router chi.Router, logger zerolog.Logger, config configs.Config, dbConn database.Connection) {
	setupRoutes(router, logger, config, NewService(config, dbConn))
}

func setupRoutes(router chi.Router, logger zerolog.Logger, config configs.Config, service Service) {
	handler := &httpHandler{logger: logger, service: service}
	limiter := NewRateLimiter(config.LoginRatePerMinute())

	// public routes
	router.Group(func(group chi.Router) {
		group.Post("/api/v1/auth/signup", handler.SignUp)
		group.With(limiter.Middleware).Post("/api/v1/auth/login", handler.Authenticate)
		group.Put("/api/v1/auth/token", handler.RefreshToken)
	})

	// protected routes
	router.Group(func(group chi.Router) {
		group.Use(JwtValidator(handler.service))
		group.Get("/api/v1/auth/me", handler.GetAuthenticatedUser)
	})
}

// writeError answers the request accordingly the given error.
func (h httpHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logging.RequestError(h.logger, r, err)
	if _, isUnauthorized := err.(*UnauthorizedError); isUnauthorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	apierrors.Write(w, err)
}

// SignUp handles the request to register a new user.
func (h httpHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	signUp := new(SignUp)
	if err := json.NewDecoder(r.Body).Decode(signUp); err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	user, err := h.service.SignUp(r.Context(), *signUp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(user)
}

// Authenticate handles the request to authenticate a user.
func (h httpHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	credentials := new(Credentials)
	if err := json.NewDecoder(r.Body).Decode(credentials); err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	tokens, err := h.service.Authenticate(r.Context(), *credentials)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(tokens)
}

// RefreshToken handles the request to return a new refresh token to the authenticated user.
func (h httpHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	tokens := new(Tokens)
	if err := json.NewDecoder(r.Body).Decode(tokens); err != nil {
		logging.RequestError(h.logger, r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	refreshed, err := h.service.RefreshTokens(r.Context(), *tokens)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(refreshed)
}

// GetAuthenticatedUser handles the request to return data about the authenticated user.
func (h httpHandler) GetAuthenticatedUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetAuthenticatedUser(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(user)
}
