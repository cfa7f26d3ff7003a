package auth

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"clinic-booking/internal/apierrors"

	"golang.org/x/time/rate"
)

type ctxKeyUser string

const UserContextKey ctxKeyUser = "user"

// JwtValidator middleware validates the Authorization header if there is one in the given request and
// associate the user in the request's context with the key UserContextKey.
//
// If no Authorization header was found or if the token is not valid, abort the request with a 401 status.
func JwtValidator(service Authorizer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writer.WriteHeader(http.StatusUnauthorized)
				return
			}
			user, err := service.ValidateToken(ctx, authHeader)
			if err != nil {
				writer.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx = context.WithValue(ctx, UserContextKey, *user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// WithUser returns a copy of ctx carrying the given user, as JwtValidator does.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// limiterIdleTTL is how long a client may stay silent before its bucket is dropped.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client address. Buckets of clients idle for longer than
// limiterIdleTTL are evicted, at most once per limiterIdleTTL.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing perMinute requests per client, with a burst of
// the same size. Zero disables the limit.
func NewRateLimiter(perMinute int) *RateLimiter {
	limiter := &RateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Inf,
		lastSweep: time.Now(),
		now:       time.Now,
	}
	if perMinute > 0 {
		limiter.limit = rate.Every(time.Minute / time.Duration(perMinute))
		limiter.burst = perMinute
	}
	return limiter
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) >= limiterIdleTTL {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// clientAddress strips the port of the remote address, already rewritten by the RealIP middleware.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware aborts the request with a 429 status once the client runs out of tokens.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientAddress(r)).Allow() {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(apierrors.NewAPIError(apierrors.WithDetail(ErrTooManyAttempts), apierrors.WithHTTPStatusCode(http.StatusTooManyRequests)))
			return
		}
		next.ServeHTTP(w, r)
	})
}
