package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestJwtValidator(t *testing.T) {
	type args struct {
		service    Authorizer
		authHeader string
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{
			name: "should allow the request and return status 200",
			args: args{
				service: mockAuthorizer{
					mockValidateToken: func(ctx context.Context, token string) (*User, error) {
						return &User{Email: "owner@clinic.com"}, nil
					},
				},
				authHeader: "Bearer testing",
			},
			want: http.StatusOK,
		},
		{
			name: "should not allow the request and return status 401 due to a invalid header",
			args: args{
				service: mockAuthorizer{
					mockValidateToken: func(ctx context.Context, token string) (*User, error) {
						return &User{Email: "owner@clinic.com"}, nil
					},
				},
				authHeader: "Basic dGVzdDp0ZXN0",
			},
			want: http.StatusUnauthorized,
		},
		{
			name: "should not allow the request and return status 401 due to missing user",
			args: args{
				service: mockAuthorizer{
					mockValidateToken: func(ctx context.Context, token string) (*User, error) {
						return nil, NewUnauthorizedError()
					},
				},
				authHeader: "Bearer testing",
			},
			want: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := chi.NewRouter()
			router.Use(JwtValidator(tt.args.service))
			router.Get("/", func(w http.ResponseWriter, r *http.Request) {
				if _, isUser := r.Context().Value(UserContextKey).(User); !isUser {
					w.WriteHeader(http.StatusInternalServerError)
				}
			})

			req, _ := http.NewRequest("GET", "/", nil)
			req.Header.Add("Authorization", tt.args.authHeader)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			response := recorder.Result()

			if response.StatusCode != tt.want {
				t.Errorf("response status is incorrect, got %d, want %d", recorder.Code, tt.want)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2)
	router := chi.NewRouter()
	router.Use(limiter.Middleware)
	router.Post("/", func(w http.ResponseWriter, r *http.Request) {})

	send := func(remoteAddr string) int {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = remoteAddr
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder.Code
	}

	for i := 0; i < 2; i++ {
		if got := send("10.0.0.1:5000"); got != http.StatusOK {
			t.Fatalf("request %d status is incorrect, got %d, want %d", i, got, http.StatusOK)
		}
	}
	if got := send("10.0.0.1:5001"); got != http.StatusTooManyRequests {
		t.Errorf("exhausted client status is incorrect, got %d, want %d", got, http.StatusTooManyRequests)
	}
	if got := send("10.0.0.2:5000"); got != http.StatusOK {
		t.Errorf("other client status is incorrect, got %d, want %d", got, http.StatusOK)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, time.May, 13, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2)
	limiter.now = func() time.Time { return now }
	limiter.lastSweep = now

	limiter.limiter("10.0.0.1")
	limiter.limiter("10.0.0.2")

	now = now.Add(limiterIdleTTL / 2)
	limiter.limiter("10.0.0.2")

	now = now.Add(limiterIdleTTL / 2)
	limiter.limiter("10.0.0.3")

	if _, found := limiter.visitors["10.0.0.1"]; found {
		t.Error("idle client 10.0.0.1 was not evicted")
	}
	for _, key := range []string{"10.0.0.2", "10.0.0.3"} {
		if _, found := limiter.visitors[key]; !found {
			t.Errorf("active client %s was evicted", key)
		}
	}
	if len(limiter.visitors) != 2 {
		t.Errorf("tracked clients is incorrect, got %d, want 2", len(limiter.visitors))
	}
}
