package safety

import (
	"bytes"
	"time"

	"github.com/bytedance/sonic"
)

// Ref is a reference to another document. The backend sends either the
// bare id or the populated document, so both shapes are accepted.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts "id", {"_id": "...", "name": "..."} and null
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := sonic.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := sonic.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// Label returns the populated name or fallback
func (r Ref) Label(fallback string) string {
	if r.Name != "" {
		return r.Name
	}
	return fallback
}

// User represents a platform account as listed by the backend
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Equipment represents a tracked item of site equipment
type Equipment struct {
	ID                 string   `json:"_id"`
	Name               string   `json:"name"`
	SerialNumber       string   `json:"serialNumber"`
	Category           string   `json:"category"`
	Status             string   `json:"status"`
	Condition          string   `json:"condition"`
	LastInspectionDate string   `json:"lastInspectionDate"`
	Features           []string `json:"features,omitempty"`
}

// Incident represents a reported safety incident
type Incident struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Project     Ref      `json:"project"`
	ReportedBy  Ref      `json:"reportedBy"`
	Severity    string   `json:"severity"`
	Status      string   `json:"status"`
	Description string   `json:"description"`
	ReportedAt  string   `json:"reportedAt,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// Hazard represents an identified site hazard
type Hazard struct {
	ID               string `json:"_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Severity         string `json:"severity"`
	RiskLevel        string `json:"riskLevel"`
	Status           string `json:"status"`
	RelatedEquipment []Ref  `json:"relatedEquipment,omitempty"`
	ReportedBy       Ref    `json:"reportedBy"`
}

// GearLog records an equipment movement or check
type GearLog struct {
	ID        string `json:"_id"`
	Equipment Ref    `json:"equipment"`
	Project   Ref    `json:"project"`
	User      Ref    `json:"user"`
	Action    string `json:"action"`
	Notes     string `json:"notes"`
	Timestamp string `json:"timestamp"`
}

// Project represents a site project owned by a user
type Project struct {
	ID                 string   `json:"_id"`
	Name               string   `json:"name"`
	User               Ref      `json:"user"`
	Location           string   `json:"location"`
	StartDate          string   `json:"startDate,omitempty"`
	EndDate            string   `json:"endDate,omitempty"`
	Environment        string   `json:"environment"`
	RiskLevel          string   `json:"riskLevel"`
	SafetyRequirements []string `json:"safetyRequirements,omitempty"`
	Hazards            []string `json:"hazards,omitempty"`
}

// Project status labels
const (
	ProjectCompleted = "Completed"
	ProjectOngoing   = "Ongoing"
)

// Status derives the display status from the end date. A project without a
// parseable end date is ongoing.
func (p Project) Status(now time.Time) string {
	end, ok := ParseDate(p.EndDate)
	if ok && end.Before(now) {
		return ProjectCompleted
	}
	return ProjectOngoing
}

// Stats holds the counters shown on the admin dashboard
type Stats struct {
	UserCount     int `json:"userCount"`
	ProjectCount  int `json:"projectCount"`
	IncidentCount int `json:"incidentCount"`
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses the date formats the backend emits
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a backend date as YYYY-MM-DD, or "" when unparseable
func FormatDate(value string) string {
	t, ok := ParseDate(value)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}
