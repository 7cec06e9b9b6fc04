package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/makpal80/avtoray/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authnMock struct {
	AuthenticateFn func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *authnMock) Authenticate(ctx context.Context, token string) (*service.Claims, error) {
	return m.AuthenticateFn(ctx, token)
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer \"abc.def.ghi\"", "abc.def.ghi", true},
		{"Bearer abc.def.ghi, extra", "abc.def.ghi", true},
		{"Basic xyz", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ExtractBearerToken(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ExtractBearerToken(%q) = %q,%v want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func newEngine(authn Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(authn, zap.NewNop()), func(c *gin.Context) {
		uid, ok := service.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, uid.String())
	})
	r.GET("/admin", AuthRequired(authn, zap.NewNop()), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	uid := uuid.New()
	authn := &authnMock{AuthenticateFn: func(_ context.Context, token string) (*service.Claims, error) {
		switch token {
		case "customer":
			return &service.Claims{UserID: uid}, nil
		case "admin":
			return &service.Claims{UserID: uid, IsAdmin: true}, nil
		}
		return nil, errors.New("bad token")
	}}
	r := newEngine(authn)

	do := func(path, authz string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do("/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: %d", w.Code)
	}
	if w := do("/me", "Bearer nope"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}
	if w := do("/me", "Bearer customer"); w.Code != http.StatusOK || w.Body.String() != uid.String() {
		t.Fatalf("customer: %d %s", w.Code, w.Body.String())
	}
	if w := do("/admin", "Bearer customer"); w.Code != http.StatusForbidden {
		t.Fatalf("customer on admin: %d", w.Code)
	}
	if w := do("/admin", "Bearer admin"); w.Code != http.StatusNoContent {
		t.Fatalf("admin: %d", w.Code)
	}
}
