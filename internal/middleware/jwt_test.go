package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

const testSecret = "test-secret"

func request(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "OWNER", 5)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	rec, c := request(t, JWTAuth(testSecret), "Bearer "+tok.Token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if uid, ok := c.Get("user_id").(uint64); !ok || uid != 42 {
		t.Errorf("user_id = %v, want uint64(42)", c.Get("user_id"))
	}
	if role, ok := c.Get("role").(model.Role); !ok || role != model.RoleOwner {
		t.Errorf("role = %v, want OWNER", c.Get("role"))
	}
}

func TestJWTAuthRejects(t *testing.T) {
	valid, _ := utils.NewAccessToken("other-secret", 7, "USER", 5)
	unknownRole, _ := utils.NewAccessToken(testSecret, 7, "SUPERUSER", 5)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + valid.Token},
		{"unknown role", "Bearer " + unknownRole.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := request(t, JWTAuth(testSecret), tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    any
		allowed []model.Role
		want    int
	}{
		{"admin on admin route", model.RoleAdmin, []model.Role{model.RoleAdmin}, http.StatusOK},
		{"owner on staff route", model.RoleOwner, []model.Role{model.RoleOwner, model.RoleAdmin}, http.StatusOK},
		{"user on staff route", model.RoleUser, []model.Role{model.RoleOwner, model.RoleAdmin}, http.StatusForbidden},
		{"no role set", nil, []model.Role{model.RoleAdmin}, http.StatusForbidden},
		{"untyped role string", "ADMIN", []model.Role{model.RoleAdmin}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set("role", tc.role)
			}
			handler := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
