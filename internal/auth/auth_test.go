package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokens = TokenService{Secret: []byte("test-secret"), Issuer: "shicihub", Duration: time.Hour}

func TestSignAndParse(t *testing.T) {
	s, exp, err := tokens.Sign("u1", "libai")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tokens.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "libai", claims.Username)

	_, _, err = tokens.Sign(" ", "")
	assert.Error(t, err)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	other := TokenService{Secret: []byte("other"), Issuer: "shicihub", Duration: time.Hour}
	s, _, err := other.Sign("u1", "")
	require.NoError(t, err)
	_, err = tokens.Parse(s)
	assert.Error(t, err)

	wrongIssuer := TokenService{Secret: tokens.Secret, Issuer: "elsewhere", Duration: time.Hour}
	s, _, err = wrongIssuer.Sign("u1", "")
	require.NoError(t, err)
	_, err = tokens.Parse(s)
	assert.Error(t, err)

	expired := TokenService{Secret: tokens.Secret, Issuer: tokens.Issuer, Duration: -time.Minute}
	s, _, err = expired.Sign("u1", "")
	require.NoError(t, err)
	_, err = tokens.Parse(s)
	assert.Error(t, err)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(tokens))
	r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, UserID(c)) })
	r.GET("/private", RequireUser(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func do(r http.Handler, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdentityIsOptional(t *testing.T) {
	r := newRouter()
	s, _, err := tokens.Sign("u42", "")
	require.NoError(t, err)

	w := do(r, "/whoami", "Bearer "+s)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u42", w.Body.String())

	for _, h := range []string{"", "Bearer", "Bearer garbage", "Basic abc"} {
		w = do(r, "/whoami", h)
		assert.Equal(t, http.StatusOK, w.Code, h)
		assert.Empty(t, w.Body.String(), h)
	}
}

func TestRequireUser(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusUnauthorized, do(r, "/private", "").Code)

	s, _, err := tokens.Sign("u1", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(r, "/private", "bearer "+s).Code)
}
