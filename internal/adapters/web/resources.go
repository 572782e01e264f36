package web

import (
	"context"
	"net/http"
	"net/url"

	safetyapp "sitesafety/internal/application/safety"
	"sitesafety/internal/domain/safety"

	"github.com/gin-gonic/gin"
)

func userChoices(users []safety.User) []option {
	return refChoices(users, func(u safety.User) string { return u.ID }, func(u safety.User) string { return u.Name })
}

func projectChoices(projects []safety.Project) []option {
	return refChoices(projects, func(p safety.Project) string { return p.ID }, func(p safety.Project) string { return p.Name })
}

func equipmentChoices(items []safety.Equipment) []option {
	return refChoices(items, func(e safety.Equipment) string { return e.ID }, func(e safety.Equipment) string {
		return e.Name + " (" + e.SerialNumber + ")"
	})
}

func (h *Handler) equipment() *resource[safety.Equipment, *safety.EquipmentInput] {
	return &resource[safety.Equipment, *safety.EquipmentInput]{
		h:        h,
		title:    "Equipment",
		singular: "Equipment",
		base:     "/admin/equipment",
		collection: func(s *safetyapp.Service) *safetyapp.Collection[safety.Equipment, *safety.EquipmentInput] {
			return s.Equipment
		},
		newInput: func() *safety.EquipmentInput { return &safety.EquipmentInput{} },
		columns:  []string{"Name", "Serial Number", "Category", "Status", "Condition", "Last Inspection"},
		cells: func(e safety.Equipment) []string {
			return []string{e.Name, e.SerialNumber, e.Category, e.Status, e.Condition, displayDate(e.LastInspectionDate)}
		},
		id: func(e safety.Equipment) string { return e.ID },
		fields: func(context.Context, *safetyapp.Service) ([]formField, error) {
			return []formField{
				{Name: "name", Label: "Name", Kind: "text", Required: true},
				{Name: "serialNumber", Label: "Serial Number", Kind: "text", Required: true},
				{Name: "category", Label: "Category", Kind: "select", Required: true, Options: choices(safety.EquipmentCategories)},
				{Name: "status", Label: "Status", Kind: "select", Required: true, Options: choices(safety.EquipmentStatuses)},
				{Name: "condition", Label: "Condition", Kind: "select", Required: true, Options: choices(safety.EquipmentConditions)},
				{Name: "lastInspectionDate", Label: "Last Inspection Date", Kind: "date", Required: true},
			}, nil
		},
		values: func(e safety.Equipment) url.Values {
			return url.Values{
				"name":               {e.Name},
				"serialNumber":       {e.SerialNumber},
				"category":           {e.Category},
				"status":             {e.Status},
				"condition":          {e.Condition},
				"lastInspectionDate": {safety.FormatDate(e.LastInspectionDate)},
			}
		},
		defaults: func(*gin.Context) url.Values {
			return url.Values{
				"category":           {safety.EquipmentCategories[0]},
				"status":             {safety.EquipmentStatuses[0]},
				"condition":          {safety.EquipmentConditions[0]},
				"lastInspectionDate": {today(h.now())},
			}
		},
	}
}

func (h *Handler) incidents() *resource[safety.Incident, *safety.IncidentInput] {
	return &resource[safety.Incident, *safety.IncidentInput]{
		h:        h,
		title:    "Incidents",
		singular: "Incident",
		base:     "/admin/incidents",
		collection: func(s *safetyapp.Service) *safetyapp.Collection[safety.Incident, *safety.IncidentInput] {
			return s.Incidents
		},
		newInput: func() *safety.IncidentInput { return &safety.IncidentInput{} },
		columns:  []string{"Title", "Project", "Severity", "Status", "Reported By", "Reported At"},
		cells: func(i safety.Incident) []string {
			return []string{i.Title, i.Project.Label("N/A"), i.Severity, i.Status, i.ReportedBy.Label("Unknown"), displayTime(i.ReportedAt)}
		},
		id: func(i safety.Incident) string { return i.ID },
		detail: func(i safety.Incident) []item {
			return []item{
				{"Title", i.Title},
				{"Project", i.Project.Label("N/A")},
				{"Reported By", i.ReportedBy.Label("Unknown")},
				{"Severity", i.Severity},
				{"Status", i.Status},
				{"Reported At", displayTime(i.ReportedAt)},
				{"Description", orDash(i.Description)},
				{"Attachments", listOrDash(i.Attachments)},
			}
		},
		fields: func(ctx context.Context, s *safetyapp.Service) ([]formField, error) {
			projects, err := s.Projects.List(ctx)
			if err != nil {
				return nil, err
			}
			users, err := s.Users(ctx)
			if err != nil {
				return nil, err
			}
			return []formField{
				{Name: "title", Label: "Title", Kind: "text", Required: true},
				{Name: "project", Label: "Project", Kind: "select", Required: true, Options: projectChoices(projects)},
				{Name: "reportedBy", Label: "Reported By", Kind: "select", Required: true, Options: userChoices(users)},
				{Name: "severity", Label: "Severity", Kind: "select", Required: true, Options: choices(safety.IncidentSeverities)},
				{Name: "status", Label: "Status", Kind: "select", Required: true, Options: choices(safety.IncidentStatuses)},
				{Name: "description", Label: "Description", Kind: "textarea", Required: true},
			}, nil
		},
		values: func(i safety.Incident) url.Values {
			return url.Values{
				"title":       {i.Title},
				"project":     {i.Project.ID},
				"reportedBy":  {i.ReportedBy.ID},
				"severity":    {i.Severity},
				"status":      {i.Status},
				"description": {i.Description},
			}
		},
		defaults: func(c *gin.Context) url.Values {
			values := url.Values{
				"severity": {safety.IncidentSeverities[0]},
				"status":   {safety.IncidentStatuses[0]},
			}
			if id := h.identity(c); id.HasSubject() {
				values.Set("reportedBy", id.SubjectID)
			}
			return values
		},
	}
}

func (h *Handler) hazards() *resource[safety.Hazard, *safety.HazardInput] {
	return &resource[safety.Hazard, *safety.HazardInput]{
		h:        h,
		title:    "Hazards",
		singular: "Hazard",
		base:     "/admin/hazards",
		collection: func(s *safetyapp.Service) *safetyapp.Collection[safety.Hazard, *safety.HazardInput] {
			return s.Hazards
		},
		newInput: func() *safety.HazardInput { return &safety.HazardInput{} },
		columns:  []string{"Title", "Severity", "Risk Level", "Status", "Reported By"},
		cells: func(z safety.Hazard) []string {
			return []string{z.Title, z.Severity, z.RiskLevel, orDash(z.Status), z.ReportedBy.Label("Unknown")}
		},
		id: func(z safety.Hazard) string { return z.ID },
		detail: func(z safety.Hazard) []item {
			related := make([]string, 0, len(z.RelatedEquipment))
			for _, ref := range z.RelatedEquipment {
				related = append(related, ref.Label(ref.ID))
			}
			return []item{
				{"Title", z.Title},
				{"Description", orDash(z.Description)},
				{"Severity", z.Severity},
				{"Risk Level", z.RiskLevel},
				{"Status", orDash(z.Status)},
				{"Related Equipment", listOrDash(related)},
				{"Reported By", z.ReportedBy.Label("Unknown")},
			}
		},
		fields: func(ctx context.Context, s *safetyapp.Service) ([]formField, error) {
			equipment, err := s.Equipment.List(ctx)
			if err != nil {
				return nil, err
			}
			return []formField{
				{Name: "title", Label: "Title", Kind: "text", Required: true},
				{Name: "description", Label: "Description", Kind: "textarea"},
				{Name: "severity", Label: "Severity", Kind: "select", Required: true, Options: choices(safety.HazardSeverities)},
				{Name: "riskLevel", Label: "Risk Level", Kind: "select", Required: true, Options: choices(safety.RiskLevels)},
				{Name: "status", Label: "Status", Kind: "select", Options: choices(safety.HazardStatuses)},
				{Name: "relatedEquipment", Label: "Related Equipment", Kind: "multiselect", Options: equipmentChoices(equipment)},
			}, nil
		},
		values: func(z safety.Hazard) url.Values {
			related := make([]string, 0, len(z.RelatedEquipment))
			for _, ref := range z.RelatedEquipment {
				related = append(related, ref.ID)
			}
			return url.Values{
				"title":            {z.Title},
				"description":      {z.Description},
				"severity":         {z.Severity},
				"riskLevel":        {z.RiskLevel},
				"status":           {z.Status},
				"relatedEquipment": related,
			}
		},
		defaults: func(*gin.Context) url.Values {
			return url.Values{
				"severity":  {safety.HazardSeverities[0]},
				"riskLevel": {safety.RiskLevels[0]},
				"status":    {safety.HazardStatuses[0]},
			}
		},
	}
}

func (h *Handler) gearLogs() *resource[safety.GearLog, *safety.GearLogInput] {
	return &resource[safety.GearLog, *safety.GearLogInput]{
		h:        h,
		title:    "Gear Logs",
		singular: "Gear Log",
		base:     "/admin/gearlogs",
		collection: func(s *safetyapp.Service) *safetyapp.Collection[safety.GearLog, *safety.GearLogInput] {
			return s.GearLogs
		},
		newInput: func() *safety.GearLogInput { return &safety.GearLogInput{} },
		columns:  []string{"Equipment", "Action", "Project", "User", "Timestamp"},
		cells: func(g safety.GearLog) []string {
			return []string{g.Equipment.Label("N/A"), g.Action, g.Project.Label("N/A"), g.User.Label("N/A"), displayTime(g.Timestamp)}
		},
		id: func(g safety.GearLog) string { return g.ID },
		detail: func(g safety.GearLog) []item {
			return []item{
				{"Equipment", g.Equipment.Label("N/A")},
				{"Action", g.Action},
				{"Project", g.Project.Label("N/A")},
				{"User", g.User.Label("N/A")},
				{"Notes", orDash(g.Notes)},
				{"Timestamp", displayTime(g.Timestamp)},
			}
		},
		fields: func(ctx context.Context, s *safetyapp.Service) ([]formField, error) {
			equipment, err := s.Equipment.List(ctx)
			if err != nil {
				return nil, err
			}
			projects, err := s.Projects.List(ctx)
			if err != nil {
				return nil, err
			}
			users, err := s.Users(ctx)
			if err != nil {
				return nil, err
			}
			return []formField{
				{Name: "equipment", Label: "Equipment", Kind: "select", Required: true, Options: equipmentChoices(equipment)},
				{Name: "action", Label: "Action", Kind: "select", Required: true, Options: choices(safety.GearLogActions)},
				{Name: "project", Label: "Project", Kind: "select", Options: projectChoices(projects)},
				{Name: "user", Label: "User", Kind: "select", Options: userChoices(users)},
				{Name: "notes", Label: "Notes", Kind: "textarea"},
				{Name: "timestamp", Label: "Timestamp", Kind: "datetime-local"},
			}, nil
		},
		values: func(g safety.GearLog) url.Values {
			return url.Values{
				"equipment": {g.Equipment.ID},
				"action":    {g.Action},
				"project":   {g.Project.ID},
				"user":      {g.User.ID},
				"notes":     {g.Notes},
				"timestamp": {inputDateTime(g.Timestamp)},
			}
		},
		defaults: func(*gin.Context) url.Values {
			return url.Values{
				"action":    {safety.GearLogActions[0]},
				"timestamp": {h.now().Format("2006-01-02T15:04")},
			}
		},
	}
}

func (h *Handler) projectCells(p safety.Project) []string {
	return []string{p.Name, p.User.Label("N/A"), orDash(p.Location), p.RiskLevel, p.Status(h.now())}
}

// adminProjects lists every project for admins, who may only delete them
func (h *Handler) adminProjects() *resource[safety.Project, *safety.ProjectInput] {
	return &resource[safety.Project, *safety.ProjectInput]{
		h:        h,
		title:    "Projects",
		singular: "Project",
		base:     "/admin/projects",
		collection: func(s *safetyapp.Service) *safetyapp.Collection[safety.Project, *safety.ProjectInput] {
			return s.Projects
		},
		newInput: func() *safety.ProjectInput { return &safety.ProjectInput{} },
		columns:  []string{"Name", "Owner", "Location", "Risk Level", "Status"},
		cells:    h.projectCells,
		id:       func(p safety.Project) string { return p.ID },
		readOnly: true,
	}
}

// projects manages the projects owned by the signed in user
func (h *Handler) projects() *resource[safety.Project, *safety.ProjectInput] {
	return &resource[safety.Project, *safety.ProjectInput]{
		h:        h,
		title:    "Projects",
		singular: "Project",
		base:     "/projects",
		collection: func(s *safetyapp.Service) *safetyapp.Collection[safety.Project, *safety.ProjectInput] {
			return s.Projects
		},
		newInput: func() *safety.ProjectInput { return &safety.ProjectInput{} },
		columns:  []string{"Name", "Owner", "Location", "Risk Level", "Status"},
		cells:    h.projectCells,
		id:       func(p safety.Project) string { return p.ID },
		// the project list treats a refused token like an expired one
		listLogout: []int{http.StatusForbidden},
		list: func(c *gin.Context, s *safetyapp.Service) ([]safety.Project, error) {
			return s.ProjectsOwnedBy(c.Request.Context(), h.subjectID(c))
		},
		detail: func(p safety.Project) []item {
			return []item{
				{"Name", p.Name},
				{"Location", orDash(p.Location)},
				{"Start Date", displayDate(p.StartDate)},
				{"End Date", displayDate(p.EndDate)},
				{"Status", p.Status(h.now())},
				{"Environment", p.Environment},
				{"Risk Level", p.RiskLevel},
				{"Safety Requirements", listOrDash(p.SafetyRequirements)},
				{"Hazards", listOrDash(p.Hazards)},
			}
		},
		fields: func(context.Context, *safetyapp.Service) ([]formField, error) {
			return []formField{
				{Name: "name", Label: "Project Name", Kind: "text", Required: true},
				{Name: "user", Kind: "hidden"},
				{Name: "location", Label: "Location", Kind: "text"},
				{Name: "startDate", Label: "Start Date", Kind: "date"},
				{Name: "endDate", Label: "End Date", Kind: "date"},
				{Name: "environment", Label: "Environment", Kind: "select", Required: true, Options: choices(safety.Environments)},
				{Name: "riskLevel", Label: "Risk Level", Kind: "select", Required: true, Options: choices(safety.RiskLevels)},
				{Name: "safetyRequirements", Label: "Safety Requirements (comma separated)", Kind: "textarea"},
				{Name: "hazards", Label: "Hazards (comma separated)", Kind: "textarea"},
			}, nil
		},
		values: func(p safety.Project) url.Values {
			return url.Values{
				"name":               {p.Name},
				"user":               {p.User.ID},
				"location":           {p.Location},
				"startDate":          {safety.FormatDate(p.StartDate)},
				"endDate":            {safety.FormatDate(p.EndDate)},
				"environment":        {p.Environment},
				"riskLevel":          {p.RiskLevel},
				"safetyRequirements": {joinList(p.SafetyRequirements)},
				"hazards":            {joinList(p.Hazards)},
			}
		},
		defaults: func(c *gin.Context) url.Values {
			return url.Values{
				"user":        {h.subjectID(c)},
				"environment": {safety.Environments[0]},
				"riskLevel":   {safety.RiskLevels[0]},
			}
		},
	}
}
