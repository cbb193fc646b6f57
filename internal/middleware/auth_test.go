package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/service"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(ctx context.Context, token string) (*service.TokenClaims, error) {
	if token == "good" {
		return &service.TokenClaims{PlayerID: 7, Name: "luna"}, nil
	}
	return nil, apperrors.Wrap(errors.New("bad signature"), apperrors.ErrTokenInvalid)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(stubValidator{})

	r := gin.New()
	r.GET("/private", m.RequireAuth(), func(c *gin.Context) {
		id, _ := GetPlayerID(c)
		name, _ := GetPlayerName(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "name": name})
	})
	r.GET("/public", m.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"auth": IsAuthenticated(c)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no token", func(req *http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"lowercase bearer", func(req *http.Request) { req.Header.Set("Authorization", "bearer good") }, http.StatusOK},
		{"x-access-token", func(req *http.Request) { req.Header.Set("X-Access-Token", "good") }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"}) }, http.StatusOK},
		{"bad token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer bad") }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAuth_QueryToken(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?token=good", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"name":"luna"}`, w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.JSONEq(t, `{"auth":false}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public?token=bad", nil))
	assert.JSONEq(t, `{"auth":false}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public?token=good", nil))
	assert.JSONEq(t, `{"auth":true}`, w.Body.String())
}
