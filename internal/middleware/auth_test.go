package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/ombrage/campground/internal/app/domain/user"
	"github.com/ombrage/campground/internal/app/storage/memory"
	"github.com/ombrage/campground/internal/auth"
)

func newTestAuth(t *testing.T) (*Authenticator, *auth.TokenIssuer, *memory.Store) {
	t.Helper()
	store := memory.New()
	tokens := auth.NewTokenIssuer("staff-secret", "guest-secret", time.Hour, time.Hour)
	return NewAuthenticator(tokens, store, nil), tokens, store
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireStaff(t *testing.T) {
	authn, tokens, store := newTestAuth(t)
	handler := authn.RequireStaff(okHandler())

	u, err := store.CreateUser(context.Background(), user.User{Email: "c@example.com", Role: user.RoleAdmin})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, _, err := tokens.IssueStaff(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRequireStaffRejectsDeletedUser(t *testing.T) {
	authn, tokens, store := newTestAuth(t)
	handler := authn.RequireStaff(okHandler())

	now := time.Now().UTC()
	u, err := store.CreateUser(context.Background(), user.User{Email: "c@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u.DeleteDate = &now
	if _, err := store.UpdateUser(context.Background(), u); err != nil {
		t.Fatalf("soft delete user: %v", err)
	}
	token, _, err := tokens.IssueStaff(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", rec.Code)
	}
}

func TestRequireGuestScope(t *testing.T) {
	authn, tokens, store := newTestAuth(t)
	handler := authn.RequireGuest(okHandler())

	guestToken, _, err := tokens.IssueGuest("b1", "c1")
	if err != nil {
		t.Fatalf("issue guest token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/guest/events", nil)
	req.Header.Set("Authorization", "Bearer "+guestToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest token, got %d", rec.Code)
	}

	// Staff tokens are signed with a different secret and must not pass.
	u, err := store.CreateUser(context.Background(), user.User{Email: "c@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	staffToken, _, err := tokens.IssueStaff(u)
	if err != nil {
		t.Fatalf("issue staff token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/guest/events", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for staff token on guest route, got %d", rec.Code)
	}
}

func withPrincipal(r *http.Request, p Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(okHandler())

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/users", nil),
		Principal{User: user.User{ID: "u1", Role: user.RoleAdmin}})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}

	req = withPrincipal(httptest.NewRequest(http.MethodGet, "/api/users", nil),
		Principal{User: user.User{ID: "u2", Role: user.RoleStaff}})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", rec.Code)
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	router := mux.NewRouter()
	router.Handle("/api/users/{id}", RequireSelfOrAdmin(okHandler()))

	cases := []struct {
		name string
		p    Principal
		path string
		want int
	}{
		{"self", Principal{User: user.User{ID: "u1"}}, "/api/users/u1", http.StatusOK},
		{"other staff", Principal{User: user.User{ID: "u1"}}, "/api/users/u2", http.StatusForbidden},
		{"admin other", Principal{User: user.User{ID: "a1", Role: user.RoleAdmin}}, "/api/users/u2", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := withPrincipal(httptest.NewRequest(http.MethodGet, tc.path, nil), tc.p)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestRequireOwnBooking(t *testing.T) {
	router := mux.NewRouter()
	router.Handle("/api/guest/bookings/{bookingID}/orders", RequireOwnBooking(okHandler()))

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/api/guest/bookings/b1/orders", nil),
		Principal{Guest: true, BookingID: "b1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own booking, got %d", rec.Code)
	}

	req = withPrincipal(httptest.NewRequest(http.MethodGet, "/api/guest/bookings/b2/orders", nil),
		Principal{Guest: true, BookingID: "b1"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign booking, got %d", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	handler := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}

	// A different client has its own bucket.
	req = httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh client, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://app.example.com"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unexpected CORS header for disallowed origin")
	}
}
