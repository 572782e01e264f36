package web

import (
	"errors"
	"net/http"
	"strings"

	"sitesafety/internal/adapters/web/flash"
	"sitesafety/internal/adapters/web/middleware"
	"sitesafety/internal/application/session"
	"sitesafety/internal/domain/auth"
	"sitesafety/internal/domain/safety"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// registerForm is the body of the register screen
type registerForm struct {
	Name            string `form:"name" validate:"required" label:"Full name"`
	Email           string `form:"email" validate:"required,email" label:"Email"`
	Password        string `form:"password" validate:"required,min=6" label:"Password"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password" label:"Passwords"`
}

// LoginPage shows the login form, or sends a signed in visitor home
func (h *Handler) LoginPage(c *gin.Context) {
	snapshot := middleware.GetEntry(c).Store.Snapshot()
	if !snapshot.Initializing && snapshot.Authenticated() {
		c.Redirect(http.StatusSeeOther, landing(c.Query("from"), snapshot.Identity.Role))
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "From": c.Query("from")})
}

// Login exchanges the posted credentials for a session
func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	from := c.PostForm("from")
	page := gin.H{"Title": "Login", "From": from, "Email": email}

	if email == "" || password == "" {
		page["Error"] = "Please enter both email and password."
		h.render(c, http.StatusBadRequest, "login.html", page)
		return
	}

	entry := middleware.GetEntry(c)
	user, err := session.SignIn(c.Request.Context(), entry.Store, entry.Client, email, password)
	if err != nil {
		status := http.StatusUnauthorized
		var reqErr *safety.RequestError
		switch {
		case errors.Is(err, session.ErrInvalidResponse), errors.Is(err, session.ErrSessionRejected):
			status = http.StatusBadGateway
			page["Error"] = "Invalid response from server."
		case errors.As(err, &reqErr):
			if reqErr.Status == 0 || reqErr.Status >= http.StatusInternalServerError {
				status = http.StatusBadGateway
			}
			page["Error"] = reqErr.UserMessage("Login failed. Please try again.")
		default:
			page["Error"] = "Login failed. Please try again."
		}
		log.Info().Err(err).Msg("login failed")
		h.render(c, status, "login.html", page)
		return
	}

	// The token decides the role, not the user object beside it
	role := user.Role
	if id := entry.Store.Identity(); id != nil {
		role = id.Role
	}
	flash.Add(c, flash.Message{Type: flash.TypeSuccess, Title: "Login Successful", Text: "Welcome, " + user.Name})
	c.Redirect(http.StatusSeeOther, landing(from, role))
}

// RegisterPage shows the register form
func (h *Handler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates an account and sends the visitor to the login screen
func (h *Handler) Register(c *gin.Context) {
	var in registerForm
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{"Title": "Register", "Error": "The form could not be read."})
		return
	}
	in.Name = h.sanitizer.Text(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	page := gin.H{"Title": "Register", "Name": in.Name, "Email": in.Email}

	if err := h.forms.Validate(&in); err != nil {
		var verr *safety.ValidationError
		if errors.As(err, &verr) {
			page["Errors"] = verr.ByField()
		}
		h.render(c, http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	entry := middleware.GetEntry(c)
	err := entry.Client.Register(c.Request.Context(), auth.RegisterRequest{Name: in.Name, Email: in.Email, Password: in.Password})
	if err != nil {
		log.Info().Err(err).Msg("registration failed")
		page["Error"] = requestMessage(err, "Registration failed. Please try again.")
		h.render(c, http.StatusBadGateway, "register.html", page)
		return
	}

	flash.Add(c, flash.Message{
		Type:  flash.TypeSuccess,
		Title: "Registration Successful",
		Text:  "Your account has been created successfully. Please login to continue.",
	})
	c.Redirect(http.StatusSeeOther, "/login")
}

// Logout ends the session
func (h *Handler) Logout(c *gin.Context) {
	middleware.GetEntry(c).Store.Logout(c.Request.Context())
	flash.Add(c, flash.Success("You have been logged out successfully."))
	c.Redirect(http.StatusSeeOther, "/login")
}

// Session reports the visitor's session state as JSON
func (h *Handler) Session(c *gin.Context) {
	snapshot := middleware.GetEntry(c).Store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"initializing":  snapshot.Initializing,
		"authenticated": snapshot.Authenticated(),
		"identity":      snapshot.Identity,
	})
}

func landing(from string, role auth.Role) string {
	if target, ok := middleware.SafeReturn(from); ok && !strings.HasPrefix(target, "/login") {
		return target
	}
	return role.HomePath()
}
