package authhandlers

import (
	"context"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	authdomain "github.com/Black-And-White-Club/golf-tournament/app/modules/auth/domain"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/Black-And-White-Club/golf-tournament/app/shared/session"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	sweepAt = 500
	idleTTL = 10 * time.Minute
)

type bucket struct {
	*rate.Limiter
	seen time.Time
}

// ClientLimiter keeps one token bucket per client address. Once the table
// passes sweepAt entries, buckets idle for longer than idleTTL are dropped.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewClientLimiter allows perSecond requests per client with the given burst.
func NewClientLimiter(perSecond float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow spends one token from client's bucket.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.buckets) > sweepAt {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > idleTTL {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[client]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[client] = b
	}
	b.seen = now
	return b.AllowN(now, 1)
}

// Clients reports how many clients currently hold a bucket.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Throttle answers 429 once a client has spent its burst. Clients are keyed
// by the host part of RemoteAddr, which chi's RealIP only rewrites when the
// server runs behind a trusted proxy.
func Throttle(l *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				client = r.RemoteAddr
			}
			if !l.Allow(client) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSPolicy is what cross-origin browsers are told. Authorization, JSON
// bodies and the correlation header are always allowed.
type CORSPolicy struct {
	Origins []string
	Methods []string
	Headers []string
}

func (p CORSPolicy) allowHeaders() string {
	headers := []string{"Authorization", "Content-Type", attr.CorrelationIDHeader}
	for _, h := range p.Headers {
		if !slices.ContainsFunc(headers, func(have string) bool { return strings.EqualFold(have, h) }) {
			headers = append(headers, h)
		}
	}
	return strings.Join(headers, ", ")
}

// CORS tags responses for allowed origins and answers their preflight
// requests. With no origins configured it only passes requests through.
func CORS(p CORSPolicy) func(http.Handler) http.Handler {
	methods := strings.Join(p.Methods, ", ")
	headers := p.allowHeaders()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || !slices.Contains(p.Origins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CorrelationIDMiddleware carries the request's correlation ID into the
// context, minting one when the header is absent, and echoes it back.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(attr.CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(attr.CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(attr.WithCorrelationID(r.Context(), id)))
	})
}

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Session, error)
}

// SessionMiddleware attaches the caller's session. Requests without a token
// continue as anonymous viewers; an invalid token is rejected.
func SessionMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), session.Session{Role: authdomain.RoleViewer})))
				return
			}

			sess, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// RequirePlayer rejects anonymous viewers.
func RequirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok || sess.Role == authdomain.RoleViewer || sess.Role == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without the admin capability.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !sess.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken reads the Authorization header, falling back to the
// access_token query parameter for websocket clients.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}
