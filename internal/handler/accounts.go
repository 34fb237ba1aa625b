package handler

import (
	"net/http"

	perrors "github.com/abgdnv/glowcart/internal/errors"
	"github.com/abgdnv/glowcart/internal/platform/contextkeys"
	"github.com/abgdnv/glowcart/internal/service"
)

// Register creates a user account.
func (a *API) Register(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var dto service.RegisterDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	u, err := a.accounts.Register(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Failed to register user")
		return
	}
	respondJSON(w, mLogger, http.StatusCreated, u)
}

// Login opens a session and returns its token.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var dto service.LoginDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	sess, err := a.accounts.Login(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Failed to log in")
		return
	}
	respondJSON(w, mLogger, http.StatusCreated, sess)
}

// Logout closes the caller's session.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if u, ok := contextkeys.GetUser(r.Context()); ok {
		a.accounts.Logout(r.Context(), u.Token)
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequireSession rejects requests without a valid session token and stores
// the session user in the request context.
func (a *API) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mLogger := loggerWithReqID(r, a)
		token := r.Header.Get(SessionHeader)
		if token == "" {
			respondServiceError(w, r, mLogger, perrors.ErrSessionNotFound, "Missing session token")
			return
		}
		u, err := a.accounts.Session(r.Context(), token)
		if err != nil {
			respondServiceError(w, r, mLogger, err, "Invalid session token")
			return
		}
		ctx := contextkeys.WithUser(r.Context(), contextkeys.User{Token: token, Username: u.Username, IsStaff: u.IsStaff})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff rejects requests whose session user is not staff.
// It must run after RequireSession.
func (a *API) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := contextkeys.GetUser(r.Context())
		if !ok || !u.IsStaff {
			respondServiceError(w, r, loggerWithReqID(r, a), perrors.ErrForbidden, "Staff access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
