package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "marketpulse/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging(), Recovery(), ErrorHandler())
	r.GET("/app-error", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrStockNotFound)
	})
	r.GET("/plain-error", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": RequestID(c)})
	})
	return r
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
	return body.Error.Code
}

func TestErrorHandler(t *testing.T) {
	r := newRouter()

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{"/app-error", http.StatusNotFound, "STOCK_NOT_FOUND"},
		{"/plain-error", http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"/panic", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if code := decodeErrorCode(t, w); code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestRequestLogging_RequestID(t *testing.T) {
	r := newRouter()

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		if w.Header().Get("X-Request-ID") == "" {
			t.Error("expected a generated request id header")
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-ID", "cron-tick-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "cron-tick-42" {
			t.Errorf("expected propagated id, got %q", got)
		}
		var body map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["request_id"] != "cron-tick-42" {
			t.Errorf("expected request id in context, got %v", body)
		}
	})
}
