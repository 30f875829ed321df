// Package auth issues and verifies the JWTs used by the API: staff tokens
// for registered users and scoped guest tokens tied to a single booking.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ombrage/campground/internal/app/domain/user"
	apperrors "github.com/ombrage/campground/internal/errors"
)

// ScopeGuest marks tokens issued through the guest login flow.
const ScopeGuest = "guest"

// StaffClaims is the payload of a staff access token.
type StaffClaims struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

// GuestClaims is the payload of a guest access token. Guests never have a
// user account; the token carries the booking they authenticated with.
type GuestClaims struct {
	Scope      string `json:"scope"`
	BookingID  string `json:"booking_id"`
	CampsiteID string `json:"campsite_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses both token kinds. Staff and guest tokens use
// separate secrets so one class can be rotated without the other.
type TokenIssuer struct {
	staffSecret []byte
	guestSecret []byte
	staffTTL    time.Duration
	guestTTL    time.Duration
}

// NewTokenIssuer builds an issuer. Zero TTLs fall back to 24h for staff and
// 12h for guests.
func NewTokenIssuer(staffSecret, guestSecret string, staffTTL, guestTTL time.Duration) *TokenIssuer {
	if staffTTL <= 0 {
		staffTTL = 24 * time.Hour
	}
	if guestTTL <= 0 {
		guestTTL = 12 * time.Hour
	}
	return &TokenIssuer{
		staffSecret: []byte(staffSecret),
		guestSecret: []byte(guestSecret),
		staffTTL:    staffTTL,
		guestTTL:    guestTTL,
	}
}

// IssueStaff signs a staff token for the given user.
func (ti *TokenIssuer) IssueStaff(u user.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(ti.staffTTL)
	claims := StaffClaims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.staffSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign staff token: %w", err)
	}
	return signed, expires, nil
}

// IssueGuest signs a guest token bound to a booking and its campsite.
func (ti *TokenIssuer) IssueGuest(bookingID, campsiteID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(ti.guestTTL)
	claims := GuestClaims{
		Scope:      ScopeGuest,
		BookingID:  bookingID,
		CampsiteID: campsiteID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   bookingID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.guestSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign guest token: %w", err)
	}
	return signed, expires, nil
}

// ParseStaff verifies a staff token and returns its claims.
func (ti *TokenIssuer) ParseStaff(tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	if err := ti.parse(tokenString, claims, ti.staffSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseGuest verifies a guest token and returns its claims.
func (ti *TokenIssuer) ParseGuest(tokenString string) (*GuestClaims, error) {
	claims := &GuestClaims{}
	if err := ti.parse(tokenString, claims, ti.guestSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ti *TokenIssuer) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return apperrors.InvalidToken(err)
	}
	if !token.Valid {
		return apperrors.InvalidToken(nil)
	}
	return nil
}
