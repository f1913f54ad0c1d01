package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dEvAshirvad/clashers-academy-backend/internal/api"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/auth"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/models"
	"github.com/dEvAshirvad/clashers-academy-backend/internal/session"
)

// ctxKey is an unexported type for context keys to prevent collisions.
type ctxKey string

const userKey ctxKey = "user"

type Auth struct {
	sessions *session.Store
	secret   []byte
	cookies  auth.CookieSettings
	logger   *zap.Logger
}

func NewAuth(sessions *session.Store, secret []byte, cookies auth.CookieSettings, logger *zap.Logger) *Auth {
	return &Auth{sessions: sessions, secret: secret, cookies: cookies, logger: logger}
}

// Deserialize reads the auth cookie pair, checks the session still
// exists, and slides both the cookies and the session forward. It never
// blocks the request: a missing or invalid session just leaves the
// request unauthenticated for RequireUser to reject.
func (a *Auth) Deserialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCookie, tErr := r.Cookie(auth.AccessTokenCookie)
		sessionCookie, sErr := r.Cookie(auth.SessionIDCookie)
		if tErr != nil || sErr != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := auth.Verify(tokenCookie.Value, a.secret)
		if err != nil {
			auth.ClearAuthCookies(w, a.cookies)
			next.ServeHTTP(w, r)
			return
		}

		_, ok, err := a.sessions.Get(r.Context(), sessionCookie.Value)
		if err != nil {
			a.logger.Error("session lookup failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			auth.ClearAuthCookies(w, a.cookies)
			next.ServeHTTP(w, r)
			return
		}

		// Re-issue a fresh 5 minute token and slide the session with it.
		if token, err := auth.Sign(user, a.secret, auth.AccessTokenTTL); err == nil {
			if err := a.sessions.Refresh(r.Context(), sessionCookie.Value, auth.AccessTokenTTL); err != nil {
				a.logger.Warn("session refresh failed", zap.Error(err))
			}
			auth.SetAuthCookies(w, a.cookies, token, sessionCookie.Value)
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects unauthenticated requests. Must run after
// Deserialize in the chain.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			api.WriteError(w, a.logger, api.ErrSessionInvalidated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext extracts the authenticated identity, if any.
func UserFromContext(ctx context.Context) (models.AuthUser, bool) {
	user, ok := ctx.Value(userKey).(models.AuthUser)
	return user, ok
}

// WithUser returns a context carrying the identity. Used by tests to
// call handlers without running the full middleware chain.
func WithUser(ctx context.Context, user models.AuthUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}
