package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricepro-web/internal/config"
)

func testManager(secret string) *ProfileManager {
	cfg := &config.Config{}
	cfg.Session.Secret = secret
	cfg.Session.CookieName = "rp"
	cfg.Session.ProfileTTL = time.Hour
	return NewProfileManager(cfg)
}

func TestEnsureIssuesAndReusesProfile(t *testing.T) {
	m := testManager("s3cret")

	rec := httptest.NewRecorder()
	id, err := m.Ensure(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "rp", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	again, err := m.Ensure(rec2, req)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Empty(t, rec2.Result().Cookies())
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	token, err := testManager("one").GenerateToken("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	require.NoError(t, err)

	_, err = testManager("two").ValidateToken(token)
	assert.Error(t, err)

	claims, err := testManager("one").ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", claims.ProfileID)
}

func TestRejectsNonUUIDProfileAndOtherAlgorithms(t *testing.T) {
	m := testManager("k")
	token, err := m.GenerateToken("../../etc")
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &ProfileClaims{ProfileID: "7c9e6679-7425-40de-944b-e07fc1f90ae7"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestFromRequestWithoutCookie(t *testing.T) {
	_, ok := testManager("k").FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
