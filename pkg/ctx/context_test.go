package ctx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appctx "github.com/shashiranjanraj/inbox/pkg/ctx"
)

func TestWrapAndJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.JSON(http.StatusOK, map[string]any{"ok": true})
	})(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestSetAndGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Set("user_id", uint(42))
		if uid := c.GetUint("user_id"); uid != 42 {
			t.Errorf("expected 42, got %d", uid)
		}
		c.Success(nil)
	})(rec, req)
}

func TestBindJSONValid(t *testing.T) {
	rec := httptest.NewRecorder()
	body := `{"name":"Chave da sala","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name     string `json:"name"     validate:"required"`
			Quantity int    `json:"quantity" validate:"required,gte=1"`
		}
		if !c.BindJSON(&input) {
			t.Error("expected BindJSON to succeed")
			return
		}
		if input.Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", input.Quantity)
		}
		c.Success(nil)
	})(rec, req)

	if rec.Code == http.StatusUnprocessableEntity {
		t.Errorf("unexpected validation failure: %s", rec.Body.String())
	}
}

func TestBindJSONInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")

	appctx.Wrap(func(c *appctx.Context) {
		var input struct {
			Name string `json:"name" validate:"required"`
		}
		if c.BindJSON(&input) {
			t.Error("expected BindJSON to fail")
		}
	})(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")

	appctx.Wrap(func(c *appctx.Context) {
		if ip := c.ClientIP(); ip != "1.2.3.4" {
			t.Errorf("expected 1.2.3.4, got %s", ip)
		}
		c.Success(nil)
	})(rec, req)
}

func TestConflictResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	appctx.Wrap(func(c *appctx.Context) {
		c.Conflict("No units available for the requested dates")
	})(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}
