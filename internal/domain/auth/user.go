package auth

// Role represents user roles in the system
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleUser   Role = "User"
	RoleWorker Role = "Worker"
)

// Roles lists every role the console knows about
var Roles = []Role{RoleAdmin, RoleUser, RoleWorker}

// ParseRole maps a claim value onto a known role
func ParseRole(value string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == value {
			return r, true
		}
	}
	return "", false
}

// HomePath returns the landing page for a role after login
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

// LoginUser is the user object returned next to the token by the login endpoint
type LoginUser struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// LoginResponse is the body of a successful login call
type LoginResponse struct {
	Token string     `json:"token"`
	User  *LoginUser `json:"user"`
}

// LoginRequest represents the credentials posted to the login endpoint
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a new account posted to the register endpoint
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role,omitempty"`
}
