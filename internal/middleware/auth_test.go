package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newAuthApp() *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(testSecret))
	app.Get("/me", RequireUser(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": UserID(c)})
	})
	app.Get("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestRequireUserWithoutToken(t *testing.T) {
	app := newAuthApp()
	if resp := doRequest(t, app, "/me", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireUserWithValidToken(t *testing.T) {
	app := newAuthApp()
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "user-42"})

	if resp := doRequest(t, app, "/me", token); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireUserRejectsForgedToken(t *testing.T) {
	app := newAuthApp()
	token := signToken(t, "wrong-secret", jwt.MapClaims{"sub": "user-42"})

	if resp := doRequest(t, app, "/me", token); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAdmin(t *testing.T) {
	app := newAuthApp()

	userToken := signToken(t, testSecret, jwt.MapClaims{"sub": "user-42", "role": "candidate"})
	if resp := doRequest(t, app, "/admin", userToken); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	adminToken := signToken(t, testSecret, jwt.MapClaims{"sub": "admin-1", "role": "admin"})
	if resp := doRequest(t, app, "/admin", adminToken); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}

	if resp := doRequest(t, app, "/admin", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}
