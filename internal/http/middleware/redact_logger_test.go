package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedactingLogger_MasksAdminSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/admin", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?secret=supersecret&page=2", nil))

	out := buf.String()
	if strings.Contains(out, "supersecret") {
		t.Fatalf("admin secret leaked to log: %s", out)
	}
	if !strings.Contains(out, "%5BREDACTED%5D") && !strings.Contains(out, "[REDACTED]") {
		t.Fatalf("mask marker missing: %s", out)
	}
	if !strings.Contains(out, "page=2") {
		t.Fatalf("benign params must survive: %s", out)
	}
}

func TestRedactingLogger_RedactsSessionTokensAndEmails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/success", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/success?session_id=cs_test_a1B2c3D4&contact=buyer@example.com", nil)
	req.Header.Set("X-Debug-Info", "resume cs_live_Zz99 for buyer@example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := buf.String()
	for _, leak := range []string{"cs_test_a1B2c3D4", "cs_live_Zz99", "buyer@example.com"} {
		if strings.Contains(out, leak) {
			t.Fatalf("%q leaked to log: %s", leak, out)
		}
	}
	if !strings.Contains(out, "REDACTED:session") || !strings.Contains(out, "REDACTED:email") {
		t.Fatalf("redaction markers missing: %s", out)
	}
}

func TestRedactingLogger_MasksConfiguredHeadersAndBuiltins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{MaskHeaders: []string{"X-Api-Key"}}))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer tok_abc")
	req.Header.Set("Cookie", "sid=abc123")
	req.Header.Set("X-Api-Key", "key-55555")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := buf.String()
	for _, leak := range []string{"tok_abc", "sid=abc123", "key-55555"} {
		if strings.Contains(out, leak) {
			t.Fatalf("%q leaked to log: %s", leak, out)
		}
	}
}

func TestRedactingLogger_SeverityFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := withCapturedLogger(t)

	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/fail", func(c *gin.Context) { c.String(http.StatusBadGateway, "nope") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx not logged at error level: %s", buf.String())
	}
}
