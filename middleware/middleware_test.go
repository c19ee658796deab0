package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setGinTestMode() {
	gin.SetMode(gin.TestMode)
}

func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	setGinTestMode()

	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard allow-origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatalf("expected allow-methods header to be set")
	}
}

func TestCORSMiddleware_PreflightAborts(t *testing.T) {
	setGinTestMode()

	r := gin.New()
	r.Use(CORSMiddleware())

	handlerCalled := false
	r.OPTIONS("/test", func(c *gin.Context) {
		handlerCalled = true
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	if handlerCalled {
		t.Fatalf("expected preflight to abort before the handler")
	}
}

func TestDatabaseMiddlewareAndGetDB(t *testing.T) {
	setGinTestMode()

	r := gin.New()
	// Use a zero-value gorm.DB pointer as a placeholder
	db := &gorm.DB{}
	r.Use(DatabaseMiddleware(db))
	r.GET("/testdb", func(c *gin.Context) {
		got := GetDB(c)
		if got == nil {
			c.AbortWithStatus(500)
			return
		}
		if got != db {
			c.AbortWithStatus(500)
			return
		}
		c.Status(200)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/testdb", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200 from handler with DB set, got %d", w.Code)
	}
}

func TestGetDB_MissingReturnsNil(t *testing.T) {
	setGinTestMode()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if got := GetDB(c); got != nil {
		t.Fatalf("expected nil DB when middleware not applied, got %v", got)
	}
}
