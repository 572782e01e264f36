package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

func newContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	return c, rec
}

func TestFlashAddThenPop(t *testing.T) {
	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/login", nil))
	Add(c, Success("Welcome, Alice"))
	Add(c, Error("Oops", "second"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	c2, rec2 := newContext(req)

	messages := Pop(c2)
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(messages))
	}
	if messages[0].Text != "Welcome, Alice" || messages[0].Type != TypeSuccess {
		t.Errorf("Unexpected first message %+v", messages[0])
	}
	if messages[1].Title != "Oops" || messages[1].Type != TypeError {
		t.Errorf("Unexpected second message %+v", messages[1])
	}
	if again := Pop(c2); len(again) != 0 {
		t.Errorf("Expected messages to be consumed, got %d", len(again))
	}

	cleared := false
	for _, cookie := range rec2.Result().Cookies() {
		if cookie.Name == CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Errorf("Expected flash cookie to be cleared")
	}
}

func TestFlashPopWithinRequest(t *testing.T) {
	c, _ := newContext(httptest.NewRequest(http.MethodGet, "/", nil))
	Add(c, Success("saved"))
	if messages := Pop(c); len(messages) != 1 {
		t.Errorf("Expected 1 message, got %d", len(messages))
	}
}

func TestFlashTamperedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%not-base64"})
	c, _ := newContext(req)
	if messages := Pop(c); len(messages) != 0 {
		t.Errorf("Expected no messages from a tampered cookie, got %d", len(messages))
	}
}

func TestFlashCookieSecure(t *testing.T) {
	tests := []struct {
		name     string
		secure   bool
		expected bool
	}{
		{"proxy terminated tls", true, true},
		{"plain http", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Cookies(tt.secure))
			r.GET("/", func(c *gin.Context) {
				Add(c, Success("saved"))
				c.Status(http.StatusNoContent)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://console.test/", nil))

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Name != CookieName {
				t.Fatalf("Expected flash cookie, got %v", cookies)
			}
			if cookies[0].Secure != tt.expected {
				t.Errorf("Expected Secure=%v, got %v", tt.expected, cookies[0].Secure)
			}
		})
	}
}
