package validation

import (
	"errors"
	"testing"

	"sitesafety/internal/domain/safety"
)

type signupForm struct {
	Name            string `form:"name" validate:"required" label:"Full name"`
	Email           string `form:"email" validate:"required,email" label:"Email"`
	Password        string `form:"password" validate:"required,min=6" label:"Password"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password" label:"Passwords"`
}

func TestFormsValidate_Valid(t *testing.T) {
	forms := NewForms()
	in := &safety.EquipmentInput{
		Name:               "Harness",
		SerialNumber:       "H-1",
		Category:           "PPE",
		Status:             "In Use",
		Condition:          "Out of Service",
		LastInspectionDate: "2024-05-01",
	}
	if err := forms.Validate(in); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestFormsValidate_Messages(t *testing.T) {
	forms := NewForms()
	err := forms.Validate(&signupForm{Email: "not-an-email", Password: "abc", ConfirmPassword: "abd"})
	if !errors.Is(err, safety.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	var verr *safety.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *safety.ValidationError, got %T", err)
	}

	fields := verr.ByField()
	expected := map[string]string{
		"name":            "Full name is required.",
		"email":           "Please enter a valid email address.",
		"password":        "Password must be at least 6 characters.",
		"confirmPassword": "Passwords do not match.",
	}
	for field, msg := range expected {
		if fields[field] != msg {
			t.Errorf("Expected %s message '%s', got '%s'", field, msg, fields[field])
		}
	}
}

func TestFormsValidate_OneOf(t *testing.T) {
	forms := NewForms()
	err := forms.Validate(&safety.HazardInput{Title: "Open trench", Severity: "Extreme", RiskLevel: "low", Status: "Closed"})
	var verr *safety.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *safety.ValidationError, got %v", err)
	}
	fields := verr.ByField()
	if fields["severity"] != "Severity must be one of: Low, Medium, High." {
		t.Errorf("Unexpected severity message '%s'", fields["severity"])
	}
	if fields["status"] != "Status must be one of: Open, In Progress, Resolved." {
		t.Errorf("Unexpected status message '%s'", fields["status"])
	}
	if _, ok := fields["riskLevel"]; ok {
		t.Errorf("Expected riskLevel to pass")
	}
}

func TestFormsValidate_SkipsDerivedFields(t *testing.T) {
	forms := NewForms()
	in := &safety.ProjectInput{Name: "Tower", User: "u1", Environment: "factory", RiskLevel: "medium", EndDate: "31/12/2024"}
	err := forms.Validate(in)
	var verr *safety.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *safety.ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "endDate" {
		t.Errorf("Expected only endDate to fail, got %+v", verr.Fields)
	}
	if verr.Fields[0].Message != "End date must be a valid date." {
		t.Errorf("Unexpected message '%s'", verr.Fields[0].Message)
	}
}
