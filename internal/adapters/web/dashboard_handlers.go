package web

import (
	"net/http"
	"net/url"

	"sitesafety/internal/adapters/web/flash"
	"sitesafety/internal/domain/safety"

	"github.com/gin-gonic/gin"
)

// AdminDashboard shows the platform counters
func (h *Handler) AdminDashboard(c *gin.Context) {
	stats, err := h.service(c).Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load dashboard stats.")
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", gin.H{"Title": "Admin Dashboard", "Stats": stats})
}

// Dashboard shows the projects owned by the signed in user
func (h *Handler) Dashboard(c *gin.Context) {
	projects, err := h.service(c).ProjectsOwnedBy(c.Request.Context(), h.subjectID(c))
	if err != nil {
		if h.endSession(c, err, http.StatusForbidden) {
			return
		}
		h.fail(c, err, "Failed to load projects.")
		return
	}
	t := table{Title: "My Projects", CreatePath: "/projects/create", Columns: []string{"Name", "Location", "Risk Level", "Status"}, Empty: "No projects yet."}
	for _, p := range projects {
		id := url.PathEscape(p.ID)
		t.Rows = append(t.Rows, row{
			Cells:    []string{p.Name, orDash(p.Location), p.RiskLevel, p.Status(h.now())},
			ViewPath: "/projects/" + id,
			EditPath: "/projects/" + id + "/edit",
		})
	}
	h.render(c, http.StatusOK, "dashboard.html", gin.H{"Title": "Dashboard", "Table": t, "Count": len(projects)})
}

// ListUsers shows every account an admin may manage
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service(c).ManagedUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load users.")
		return
	}
	t := table{Title: "Users", Columns: []string{"Name", "Email", "Role"}, Empty: "No users found."}
	for _, u := range users {
		t.Rows = append(t.Rows, row{
			Cells:      []string{u.Name, u.Email, u.Role},
			DeletePath: "/admin/users/" + url.PathEscape(u.ID) + "/delete",
		})
	}
	h.render(c, http.StatusOK, "list.html", gin.H{"Title": "User Management", "Table": t})
}

// DeleteUser removes an account
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.service(c).DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		if h.expired(c, err) {
			return
		}
		flash.Add(c, flash.Error("Error", requestMessage(err, "Failed to delete user.")))
	} else {
		flash.Add(c, flash.Success("User has been deleted."))
	}
	c.Redirect(http.StatusSeeOther, "/admin/users")
}

// Recommendations lists the equipment recommended for one of the user's
// projects, the first one unless ?project= picks another
func (h *Handler) Recommendations(c *gin.Context) {
	svc := h.service(c)
	projects, err := svc.ProjectsOwnedBy(c.Request.Context(), h.subjectID(c))
	if err != nil {
		h.fail(c, err, "Failed to load projects.")
		return
	}

	page := gin.H{"Title": "Recommendations", "Projects": projectChoices(projects)}
	selected := pickProject(projects, c.Query("project"))
	if selected == nil {
		h.render(c, http.StatusOK, "recommendations.html", page)
		return
	}
	page["Selected"] = selected

	equipment, err := svc.Recommendations(c.Request.Context(), selected.ID)
	if err != nil {
		h.fail(c, err, "Failed to load recommendations.")
		return
	}
	t := table{Title: "Recommended Equipment", Columns: []string{"Name", "Category", "Status", "Condition", "Features"}, Empty: "No recommendations for this project."}
	for _, e := range equipment {
		t.Rows = append(t.Rows, row{Cells: []string{e.Name, e.Category, e.Status, e.Condition, listOrDash(e.Features)}})
	}
	page["Table"] = t
	h.render(c, http.StatusOK, "recommendations.html", page)
}

// pickProject returns the project with id, or the first one when id is
// empty or not among projects
func pickProject(projects []safety.Project, id string) *safety.Project {
	if len(projects) == 0 {
		return nil
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return &projects[0]
}
