package safety

import "strings"

// Form option sets
var (
	EquipmentCategories = []string{"PPE", "Machinery", "Tool"}
	EquipmentStatuses   = []string{"Available", "In Use", "Maintenance"}
	EquipmentConditions = []string{"Good", "Needs Repair", "Out of Service"}
	IncidentSeverities  = []string{"minor", "major", "critical"}
	IncidentStatuses    = []string{"open", "investigating", "resolved"}
	HazardSeverities    = []string{"Low", "Medium", "High"}
	RiskLevels          = []string{"low", "medium", "high"}
	HazardStatuses      = []string{"Open", "In Progress", "Resolved"}
	GearLogActions      = []string{"Assigned", "Returned", "Maintenance", "Inspection"}
	Environments        = []string{"construction", "factory", "warehouse", "outdoor"}
)

// EquipmentInput is the create and update payload for equipment
type EquipmentInput struct {
	Name               string `form:"name" json:"name" validate:"required" label:"Name"`
	SerialNumber       string `form:"serialNumber" json:"serialNumber" validate:"required" label:"Serial number"`
	Category           string `form:"category" json:"category" validate:"required,oneof=PPE Machinery Tool" label:"Category"`
	Status             string `form:"status" json:"status" validate:"required,oneof=Available 'In Use' Maintenance" label:"Status"`
	Condition          string `form:"condition" json:"condition" validate:"required,oneof=Good 'Needs Repair' 'Out of Service'" label:"Condition"`
	LastInspectionDate string `form:"lastInspectionDate" json:"lastInspectionDate" validate:"required,datetime=2006-01-02" label:"Last inspection date"`
}

func (in *EquipmentInput) Clean(text func(string) string) {
	in.Name = text(in.Name)
	in.SerialNumber = text(in.SerialNumber)
	in.LastInspectionDate = strings.TrimSpace(in.LastInspectionDate)
}

// IncidentInput is the create and update payload for incidents
type IncidentInput struct {
	Title       string `form:"title" json:"title" validate:"required" label:"Title"`
	Project     string `form:"project" json:"project" validate:"required" label:"Project"`
	ReportedBy  string `form:"reportedBy" json:"reportedBy" validate:"required" label:"Reported by"`
	Severity    string `form:"severity" json:"severity" validate:"required,oneof=minor major critical" label:"Severity"`
	Status      string `form:"status" json:"status" validate:"required,oneof=open investigating resolved" label:"Status"`
	Description string `form:"description" json:"description" validate:"required" label:"Description"`
}

func (in *IncidentInput) Clean(text func(string) string) {
	in.Title = text(in.Title)
	in.Description = text(in.Description)
}

// HazardInput is the create and update payload for hazards
type HazardInput struct {
	Title            string   `form:"title" json:"title" validate:"required" label:"Title"`
	Description      string   `form:"description" json:"description" label:"Description"`
	Severity         string   `form:"severity" json:"severity" validate:"required,oneof=Low Medium High" label:"Severity"`
	RiskLevel        string   `form:"riskLevel" json:"riskLevel" validate:"required,oneof=low medium high" label:"Risk level"`
	Status           string   `form:"status" json:"status" validate:"omitempty,oneof=Open 'In Progress' Resolved" label:"Status"`
	RelatedEquipment []string `form:"relatedEquipment" json:"relatedEquipment" label:"Related equipment"`
}

func (in *HazardInput) Clean(text func(string) string) {
	in.Title = text(in.Title)
	in.Description = text(in.Description)
	in.RelatedEquipment = compact(in.RelatedEquipment)
}

// GearLogInput is the create and update payload for gear logs
type GearLogInput struct {
	Equipment string `form:"equipment" json:"equipment" validate:"required" label:"Equipment"`
	Project   string `form:"project" json:"project,omitempty" label:"Project"`
	User      string `form:"user" json:"user,omitempty" label:"User"`
	Action    string `form:"action" json:"action" validate:"required,oneof=Assigned Returned Maintenance Inspection" label:"Action"`
	Notes     string `form:"notes" json:"notes" label:"Notes"`
	Timestamp string `form:"timestamp" json:"timestamp,omitempty" label:"Timestamp"`
}

func (in *GearLogInput) Clean(text func(string) string) {
	in.Notes = text(in.Notes)
	in.Timestamp = strings.TrimSpace(in.Timestamp)
}

// ProjectInput is the create and update payload for projects. The list
// fields arrive from the form as comma separated text.
type ProjectInput struct {
	Name                   string   `form:"name" json:"name" validate:"required" label:"Project name"`
	User                   string   `form:"user" json:"user" validate:"required" label:"User"`
	Location               string   `form:"location" json:"location" label:"Location"`
	StartDate              string   `form:"startDate" json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02" label:"Start date"`
	EndDate                string   `form:"endDate" json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02" label:"End date"`
	Environment            string   `form:"environment" json:"environment" validate:"required,oneof=construction factory warehouse outdoor" label:"Environment"`
	RiskLevel              string   `form:"riskLevel" json:"riskLevel" validate:"required,oneof=low medium high" label:"Risk level"`
	SafetyRequirementsText string   `form:"safetyRequirements" json:"-" label:"Safety requirements"`
	HazardsText            string   `form:"hazards" json:"-" label:"Hazards"`
	SafetyRequirements     []string `form:"-" json:"safetyRequirements"`
	Hazards                []string `form:"-" json:"hazards"`
}

func (in *ProjectInput) Clean(text func(string) string) {
	in.Name = text(in.Name)
	in.Location = text(in.Location)
	in.SafetyRequirements = SplitList(text(in.SafetyRequirementsText))
	in.Hazards = SplitList(text(in.HazardsText))
}

// SplitList splits comma separated text, dropping blank entries
func SplitList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
