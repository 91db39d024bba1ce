package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vastsea/vastsea-api/internal/constants"
)

func newSessionRouter() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	r.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, uint64(42))
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	r.GET("/protected", RequireAuth(), func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	return r
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	r := newSessionRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_AllowsSessionUser(t *testing.T) {
	r := newSessionRouter()

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)

	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "42")
}

func TestGetUserID_NormalizesStoredTypes(t *testing.T) {
	cases := []struct {
		name   string
		stored interface{}
		want   uint64
		ok     bool
	}{
		{"uint64", uint64(7), 7, true},
		{"uint", uint(7), 7, true},
		{"int", int(7), 7, true},
		{"int64", int64(7), 7, true},
		{"negative int", int(-1), 0, false},
		{"string", "7", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Set(constants.ContextKeyUserID, tc.stored)

			id, ok := GetUserID(c)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, id)
		})
	}
}
