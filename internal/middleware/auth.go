// Package middleware provides the HTTP middleware chain: authentication,
// authorization policies, rate limiting and CORS.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/domain/user"
	"github.com/ombrage/campground/internal/app/storage"
	"github.com/ombrage/campground/internal/auth"
	apperrors "github.com/ombrage/campground/internal/errors"
	"github.com/ombrage/campground/pkg/logger"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller attached to the request context.
// Staff principals carry the loaded user; guest principals carry the
// booking they authenticated with.
type Principal struct {
	Guest      bool
	User       user.User
	BookingID  string
	CampsiteID string
}

// IsAdmin reports whether the principal is a staff admin.
func (p Principal) IsAdmin() bool {
	return !p.Guest && p.User.Role == user.RoleAdmin
}

// FromContext returns the principal attached by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Authenticator verifies tokens and attaches principals to requests.
type Authenticator struct {
	tokens *auth.TokenIssuer
	users  storage.UserStore
	logger *logger.Logger
}

// NewAuthenticator creates an authenticator backed by the user store.
func NewAuthenticator(tokens *auth.TokenIssuer, users storage.UserStore, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &Authenticator{tokens: tokens, users: users, logger: log}
}

// RequireStaff authenticates a staff token, loads the account and rejects
// soft-deleted users.
func (a *Authenticator) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}
		claims, err := a.tokens.ParseStaff(token)
		if err != nil {
			writeError(w, err)
			return
		}
		u, err := a.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, apperrors.Unauthorized("unknown account"))
			return
		}
		if u.Deleted() {
			writeError(w, apperrors.Unauthorized("account is disabled"))
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, Principal{User: u})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireGuest authenticates a guest token. Tokens without the guest scope
// are rejected with 403.
func (a *Authenticator) RequireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, err)
			return
		}
		claims, err := a.tokens.ParseGuest(token)
		if err != nil {
			writeError(w, err)
			return
		}
		if claims.Scope != auth.ScopeGuest {
			writeError(w, apperrors.Forbidden("guest scope required"))
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, Principal{
			Guest:      true,
			BookingID:  claims.BookingID,
			CampsiteID: claims.CampsiteID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-admin principals with 403. It must run after
// RequireStaff.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			writeError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		if !p.IsAdmin() {
			writeError(w, apperrors.Forbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrAdmin allows admins through unconditionally and other staff
// only when the {id} route variable matches their own account.
func RequireSelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			writeError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		if !p.IsAdmin() && mux.Vars(r)["id"] != p.User.ID {
			writeError(w, apperrors.Forbidden("access restricted to own account"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwnBooking restricts guests to the booking in their token. The
// {bookingID} route variable must match.
func RequireOwnBooking(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := FromContext(r.Context())
		if !ok {
			writeError(w, apperrors.Unauthorized("authentication required"))
			return
		}
		if p.Guest && mux.Vars(r)["bookingID"] != p.BookingID {
			writeError(w, apperrors.Forbidden("access restricted to own booking"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperrors.Unauthorized("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.Unauthorized("invalid authorization header")
	}
	return parts[1], nil
}

func writeError(w http.ResponseWriter, err error) {
	se := apperrors.GetServiceError(err)
	if se == nil {
		se = apperrors.Internal(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(se.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    se.Code,
			"message": se.Message,
		},
	})
}
