package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strings"
	"time"

	"sitesafety/internal/adapters/web/flash"
	"sitesafety/internal/adapters/web/middleware"
	safetyapp "sitesafety/internal/application/safety"
	"sitesafety/internal/domain/auth"
	"sitesafety/internal/domain/safety"
	"sitesafety/internal/infrastructure/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"lower": strings.ToLower,
	}).ParseFS(templatesFS, "templates/*.html")
}

// Handler serves the console pages
type Handler struct {
	policy    auth.Policy
	forms     *validation.Forms
	sanitizer *validation.Sanitizer
	now       func() time.Time
}

// NewHandler creates a new console handler
func NewHandler(policy auth.Policy, forms *validation.Forms, sanitizer *validation.Sanitizer) *Handler {
	return &Handler{
		policy:    policy,
		forms:     forms,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// RegisterRoutes registers every console route. visitor must attach the
// session entry; apiMiddleware runs in front of the JSON endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine, visitor gin.HandlerFunc, apiMiddleware ...gin.HandlerFunc) {
	r.GET("/health", h.Health)

	site := r.Group("/", visitor)
	{
		site.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/dashboard") })
		site.GET("/login", h.LoginPage)
		site.POST("/login", h.Login)
		site.GET("/register", h.RegisterPage)
		site.POST("/register", h.Register)
		site.POST("/logout", h.Logout)

		api := site.Group("/api", apiMiddleware...)
		{
			api.GET("/session", h.Session)
		}

		admin := site.Group("/admin", middleware.RequireGroup(h.policy, auth.GroupAdmin))
		{
			admin.GET("/dashboard", h.AdminDashboard)
			admin.GET("/users", h.ListUsers)
			admin.POST("/users/:id/delete", h.DeleteUser)
			h.adminProjects().register(admin)
			h.equipment().register(admin)
			h.incidents().register(admin)
			h.hazards().register(admin)
			h.gearLogs().register(admin)
		}

		general := site.Group("/", middleware.RequireGroup(h.policy, auth.GroupGeneral))
		{
			general.GET("/dashboard", h.Dashboard)
			h.projects().register(general)
			general.GET("/recommendations", h.Recommendations)
		}
	}
}

// Health reports that the console is up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) service(c *gin.Context) *safetyapp.Service {
	return safetyapp.NewService(middleware.GetEntry(c).Client, h.forms, h.sanitizer)
}

func (h *Handler) identity(c *gin.Context) *auth.Identity {
	if entry := middleware.GetEntry(c); entry != nil {
		return entry.Store.Identity()
	}
	return nil
}

func (h *Handler) subjectID(c *gin.Context) string {
	if id := h.identity(c); id.HasSubject() {
		return id.SubjectID
	}
	return ""
}

// render adds the layout data every page needs
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Identity"] = h.identity(c)
	data["Flashes"] = flash.Pop(c)
	c.HTML(status, name, data)
}

// expired ends the session when the backend rejected its token and sends
// the visitor to the login page. It reports whether it handled err.
func (h *Handler) expired(c *gin.Context, err error) bool {
	return h.endSession(c, err, http.StatusUnauthorized)
}

// endSession logs the visitor out when the backend answered with one of
// statuses and reports whether it did
func (h *Handler) endSession(c *gin.Context, err error, statuses ...int) bool {
	var reqErr *safety.RequestError
	if !errors.As(err, &reqErr) || !slices.Contains(statuses, reqErr.Status) {
		return false
	}
	if entry := middleware.GetEntry(c); entry != nil {
		entry.Store.Logout(c.Request.Context())
	}
	from := ""
	if c.Request.Method == http.MethodGet {
		from = c.Request.URL.RequestURI()
	}
	flash.Add(c, flash.Error("Session Expired", "Please login again."))
	c.Redirect(http.StatusSeeOther, middleware.LoginPath(from))
	return true
}

// fail renders the error page for a failed backend call
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	if h.expired(c, err) {
		return
	}
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("backend call failed")
	status := http.StatusBadGateway
	var reqErr *safety.RequestError
	if errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound {
		status = http.StatusNotFound
	}
	h.render(c, status, "error.html", gin.H{"Title": "Error", "Message": requestMessage(err, fallback)})
}

func requestMessage(err error, fallback string) string {
	var reqErr *safety.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.UserMessage(fallback)
	}
	return fallback
}
