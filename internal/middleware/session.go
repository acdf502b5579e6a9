package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/liamwears/moviecards/internal/controller"
	"github.com/liamwears/moviecards/internal/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SessionIDContextKey is the key for storing the session ID in context
	SessionIDContextKey ContextKey = "sessionID"
	// ControllerContextKey is the key for storing the session's controller in context
	ControllerContextKey ContextKey = "controller"
	// NewSessionContextKey marks a request whose session was started by that same request
	NewSessionContextKey ContextKey = "newSession"
)

// SessionMiddleware binds every request to a session and its controller
type SessionMiddleware struct {
	store        *session.Store
	cookieName   string
	isProduction bool
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(store *session.Store, cookieName string, isProduction bool) *SessionMiddleware {
	if cookieName == "" {
		cookieName = "session"
	}
	return &SessionMiddleware{
		store:        store,
		cookieName:   cookieName,
		isProduction: isProduction,
	}
}

// Attach loads the session named by the cookie, starting a new one when it is missing or expired
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ctrl, ok := m.lookup(r)
		if !ok {
			id, ctrl = m.store.Create()
			m.SetSessionCookie(w, id.String())
		}

		ctx := context.WithValue(r.Context(), SessionIDContextKey, id)
		ctx = context.WithValue(ctx, ControllerContextKey, ctrl)
		ctx = context.WithValue(ctx, NewSessionContextKey, !ok)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) lookup(r *http.Request) (uuid.UUID, *controller.Controller, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return uuid.Nil, nil, false
	}

	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil, nil, false
	}

	ctrl, ok := m.store.Get(id)
	if !ok {
		return uuid.Nil, nil, false
	}

	return id, ctrl, true
}

// GetControllerFromContext retrieves the session's controller from request context
func GetControllerFromContext(ctx context.Context) (*controller.Controller, bool) {
	ctrl, ok := ctx.Value(ControllerContextKey).(*controller.Controller)
	return ctrl, ok
}

// GetSessionIDFromContext retrieves the session ID from request context
func GetSessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(SessionIDContextKey).(uuid.UUID)
	return id, ok
}

// IsNewSession reports whether the request's session was created while handling it
func IsNewSession(ctx context.Context) bool {
	created, _ := ctx.Value(NewSessionContextKey).(bool)
	return created
}

// SetSessionCookie sets a session cookie
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
