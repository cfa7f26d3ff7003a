package clinics

import (
	"context"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/logging"

	"github.com/rs/zerolog"
)

type ctxKeyClinic string

const ClinicContextKey ctxKeyClinic = "clinic"

// ClinicContext middleware resolves the clinic of the authenticated user and associates it in the
// request's context with the key ClinicContextKey. It must run after auth.JwtValidator.
//
// Users without a clinic are let through with no clinic in the context, each handler decides what
// that means.
func ClinicContext(locator Locator, logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			user, isUser := ctx.Value(auth.UserContextKey).(auth.User)
			if !isUser {
				writer.WriteHeader(http.StatusUnauthorized)
				return
			}
			clinic, err := locator.FindUserClinic(ctx, user)
			if err != nil {
				logging.RequestError(logger, request, err)
				writer.WriteHeader(http.StatusInternalServerError)
				return
			}
			if clinic != nil {
				ctx = WithClinic(ctx, *clinic)
			}
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// WithClinic returns a copy of ctx carrying the given clinic.
func WithClinic(ctx context.Context, clinic Clinic) context.Context {
	return context.WithValue(ctx, ClinicContextKey, clinic)
}

// FromContext gets the clinic associated to the context, if any.
func FromContext(ctx context.Context) (Clinic, bool) {
	clinic, found := ctx.Value(ClinicContextKey).(Clinic)
	return clinic, found
}

// Required gets the clinic associated to the context, failing with a 400 if the user has none.
func Required(ctx context.Context) (Clinic, error) {
	clinic, found := FromContext(ctx)
	if !found {
		return Clinic{}, apierrors.NewAPIError(apierrors.WithDetail(ErrNoClinic), apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	return clinic, nil
}
