package auth

import (
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ricepro-web/internal/config"
	"ricepro-web/internal/timeutil"
)

const profileIssuer = "ricepro-web"

// ProfileClaims identify one browser profile. The profile id keys the
// session slot; it carries no credentials.
type ProfileClaims struct {
	ProfileID string `json:"pid"`
	jwt.RegisteredClaims
}

// ProfileManager issues and validates the signed profile cookie.
type ProfileManager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
}

func NewProfileManager(cfg *config.Config) *ProfileManager {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			log.Fatalf("[Auth] Failed to generate profile secret: %v", err)
		}
	}
	ttl := cfg.Session.ProfileTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	name := cfg.Session.CookieName
	if name == "" {
		name = "ricepro_profile"
	}
	return &ProfileManager{secret: secret, cookieName: name, ttl: ttl}
}

// GenerateToken signs a profile token valid for the configured ttl
func (m *ProfileManager) GenerateToken(profileID string) (string, error) {
	now := timeutil.Now()
	claims := &ProfileClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    profileIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken verifies a profile token and returns the claims
func (m *ProfileManager) ValidateToken(tokenString string) (*ProfileClaims, error) {
	claims := &ProfileClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(profileIssuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if _, err := uuid.Parse(claims.ProfileID); err != nil {
		return nil, errors.New("invalid profile id")
	}

	return claims, nil
}

// FromRequest returns the profile id carried by the request cookie, if valid.
func (m *ProfileManager) FromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	claims, err := m.ValidateToken(c.Value)
	if err != nil {
		return "", false
	}
	return claims.ProfileID, true
}

// Ensure returns the request's profile id, issuing a new profile cookie
// when the request has none or an invalid one.
func (m *ProfileManager) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, ok := m.FromRequest(r); ok {
		return id, nil
	}
	id := uuid.NewString()
	token, err := m.GenerateToken(id)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}
