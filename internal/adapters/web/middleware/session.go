package middleware

import (
	"net/http"
	"net/url"

	"sitesafety/internal/adapters/backend"
	"sitesafety/internal/adapters/web/flash"
	"sitesafety/internal/application/guard"
	"sitesafety/internal/application/session"
	"sitesafety/internal/config"
	"sitesafety/internal/domain/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// EntryContextKey is the key used to store the visitor entry in gin context
	EntryContextKey = "session"

	visitorMaxAge = 365 * 24 * 60 * 60
)

// Entry is the per-visitor session state used by the console
type Entry = session.Entry[*backend.Client]

// Registry holds the entries of every visitor
type Registry = session.Registry[*backend.Client]

// Visitor identifies the browser by cookie and attaches its entry. A
// browser without a valid cookie gets a new id and an anonymous entry that
// is registered only once the id comes back.
func Visitor(reg *Registry, cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID, err := c.Cookie(cfg.CookieName)
		if err == nil {
			_, err = uuid.Parse(visitorID)
		}
		var entry *Entry
		if err != nil {
			visitorID = uuid.NewString()
			entry = reg.Fresh(visitorID)
		} else {
			entry = reg.Acquire(c.Request.Context(), visitorID)
		}
		// refresh the cookie on every request so active visitors keep it
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, visitorID, visitorMaxAge, "/", "", cfg.CookieSecure, true)

		c.Set(EntryContextKey, entry)
		c.Next()
	}
}

// RequireGroup gates a route group on the visitor session
func RequireGroup(policy auth.Policy, group auth.RouteGroup) gin.HandlerFunc {
	roles := policy.RequiredRoles(group)
	return func(c *gin.Context) {
		entry := GetEntry(c)
		if entry == nil {
			c.String(http.StatusInternalServerError, "visitor session missing")
			c.Abort()
			return
		}

		snapshot := entry.Store.Snapshot()
		decision := guard.Decide(snapshot, roles, c.Request.URL.RequestURI())
		switch decision.Outcome {
		case guard.Allow:
			c.Next()
			return
		case guard.Pending:
			c.Header("Refresh", "1")
			c.HTML(http.StatusOK, "loading.html", gin.H{"Title": "Loading"})
		case guard.RedirectToLogin:
			flash.Add(c, flash.Error("Unauthorized Access", "You must be logged in to access this page."))
			c.Redirect(http.StatusSeeOther, LoginPath(decision.From))
		case guard.DenyInPlace:
			log.Info().Str("role", string(decision.Role)).Str("group", string(group)).Msg("access denied")
			c.HTML(http.StatusForbidden, "denied.html", gin.H{
				"Title":    "Access Denied",
				"Identity": snapshot.Identity,
				"Flashes": append(flash.Pop(c), flash.Error("Access Denied",
					"Your role ("+string(decision.Role)+") is not authorized to access this section.")),
			})
		}
		c.Abort()
	}
}

// GetEntry retrieves the visitor entry from the gin context
func GetEntry(c *gin.Context) *Entry {
	if v, exists := c.Get(EntryContextKey); exists {
		if e, ok := v.(*Entry); ok {
			return e
		}
	}
	return nil
}

// LoginPath builds the login URL that returns to from afterwards
func LoginPath(from string) string {
	if from == "" {
		return "/login"
	}
	return "/login?from=" + url.QueryEscape(from)
}

// SafeReturn accepts only local absolute paths as a post-login target
func SafeReturn(from string) (string, bool) {
	if from == "" || from[0] != '/' || len(from) > 1 && (from[1] == '/' || from[1] == '\\') {
		return "", false
	}
	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return from, true
}
