// Package flash carries one-time messages across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
)

// CookieName is the cookie holding pending messages
const CookieName = "ssm_flash"

const (
	contextKey = "flash"
	secureKey  = "flash_secure"
)

// Message types
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
)

// Message represents a flash message.
type Message struct {
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

// Success builds a success message
func Success(text string) Message { return Message{Type: TypeSuccess, Text: text} }

// Error builds an error message
func Error(title, text string) Message { return Message{Type: TypeError, Title: title, Text: text} }

// Cookies marks flash cookies Secure when secure is set. Requests that
// arrive over TLS always get Secure cookies.
func Cookies(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureKey, secure)
		c.Next()
	}
}

// Add queues msg for the next rendered page.
func Add(c *gin.Context, msg Message) {
	messages := append(current(c), msg)
	c.Set(contextKey, messages)
	setCookie(c, encodeMessages(messages), 300)
}

// Pop returns the queued messages and clears them.
func Pop(c *gin.Context) []Message {
	messages := current(c)
	c.Set(contextKey, []Message{})
	if _, err := c.Cookie(CookieName); err == nil {
		setCookie(c, "", -1)
	}
	return messages
}

func current(c *gin.Context) []Message {
	if v, ok := c.Get(contextKey); ok {
		if messages, ok := v.([]Message); ok {
			return messages
		}
	}
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	// A tampered cookie only loses its messages
	messages, _ := decodeMessages(raw)
	return messages
}

func setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", c.GetBool(secureKey) || c.Request.TLS != nil, true)
}

func encodeMessages(messages []Message) string {
	payload, err := sonic.Marshal(messages)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(payload)
}

func decodeMessages(value string) ([]Message, error) {
	if value == "" {
		return nil, nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	var messages []Message
	if err := sonic.Unmarshal(payload, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
