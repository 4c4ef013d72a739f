package middlewares_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/campusevents/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func TestRateLimiter_PerEventKeys(t *testing.T) {
	rl := middlewares.NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.Use(middlewares.RequestID())
	r.POST("/events/:id/register", rl.RateLimiterMiddleware(middlewares.KeyByIPAndEvent), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	post := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/events/"+id+"/register", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := post("go"); w.Code != http.StatusCreated {
			t.Fatalf("request %d: got status %d, want %d", i, w.Code, http.StatusCreated)
		}
	}

	w := post("go")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "rate_limited" || env.Error.RequestID == "" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	// another event has its own window
	if w := post("teatro"); w.Code != http.StatusCreated {
		t.Fatalf("other event: got status %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, 50*time.Millisecond)

	if ok, _ := rl.Allow("k"); !ok {
		t.Fatalf("first hit should pass")
	}
	if ok, wait := rl.Allow("k"); ok || wait <= 0 {
		t.Fatalf("second hit: got ok=%v wait=%v", ok, wait)
	}

	time.Sleep(60 * time.Millisecond)
	if ok, _ := rl.Allow("k"); !ok {
		t.Fatalf("hit after the window should pass")
	}
}

func TestGuards(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.SecurityHeaders(), middlewares.CORSMiddleware([]string{"https://agenda.campus.test"}))
	r.POST("/events", middlewares.MaxBodyBytes(64), middlewares.RequireJSON(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	r.GET("/events", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		origin      string
		wantStatus  int
		wantCode    string
		wantCORS    bool
	}{
		{name: "json accepted", method: http.MethodPost, contentType: "application/json; charset=utf-8", body: `{}`, wantStatus: http.StatusCreated},
		{name: "form rejected", method: http.MethodPost, contentType: "application/x-www-form-urlencoded", body: `a=b`, wantStatus: http.StatusUnsupportedMediaType, wantCode: "unsupported_media_type"},
		{name: "oversized body", method: http.MethodPost, contentType: "application/json", body: `{"title":"` + strings.Repeat("x", 80) + `"}`, wantStatus: http.StatusRequestEntityTooLarge, wantCode: "body_too_large"},
		{name: "allowed origin", method: http.MethodGet, origin: "https://agenda.campus.test", wantStatus: http.StatusOK, wantCORS: true},
		{name: "foreign origin", method: http.MethodGet, origin: "https://evil.test", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "https://agenda.campus.test", wantStatus: http.StatusNoContent, wantCORS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if w.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Fatalf("security headers missing")
			}
			if got := w.Header().Get("Access-Control-Allow-Origin") != ""; got != tt.wantCORS {
				t.Fatalf("cors header present=%v, want %v", got, tt.wantCORS)
			}
			if tt.wantCode != "" {
				var env errorEnvelope
				if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if env.Error.Code != tt.wantCode {
					t.Fatalf("got code %q, want %q", env.Error.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestRequestID_PropagatesCallerID(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middlewares.CtxRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "req-7" || w.Header().Get("X-Request-Id") != "req-7" {
		t.Fatalf("got body %q header %q", w.Body.String(), w.Header().Get("X-Request-Id"))
	}
}
