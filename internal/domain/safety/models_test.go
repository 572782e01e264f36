package safety

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestRefUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Ref
	}{
		{"bare id", `"p1"`, Ref{ID: "p1"}},
		{"populated", `{"_id":"p1","name":"North Tower","extra":true}`, Ref{ID: "p1", Name: "North Tower"}},
		{"null", `null`, Ref{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var holder struct {
				Project Ref `json:"project"`
			}
			if err := sonic.Unmarshal([]byte(`{"project":`+tt.input+`}`), &holder); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if holder.Project != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, holder.Project)
			}
		})
	}
}

func TestRefUnmarshal_Invalid(t *testing.T) {
	var r Ref
	if err := r.UnmarshalJSON([]byte(`42`)); err == nil {
		t.Errorf("Expected an error for a numeric ref")
	}
}

func TestRefLabel(t *testing.T) {
	if got := (Ref{ID: "p1"}).Label("N/A"); got != "N/A" {
		t.Errorf("Expected fallback, got '%s'", got)
	}
	if got := (Ref{ID: "p1", Name: "Tower"}).Label("N/A"); got != "Tower" {
		t.Errorf("Expected name, got '%s'", got)
	}
}

func TestProjectStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		end      string
		expected string
	}{
		{"", ProjectOngoing},
		{"garbage", ProjectOngoing},
		{"2024-05-31", ProjectCompleted},
		{"2024-05-31T23:59:59.000Z", ProjectCompleted},
		{"2024-06-02", ProjectOngoing},
		{"2025-01-01T00:00:00Z", ProjectOngoing},
	}

	for _, tt := range tests {
		t.Run(tt.end, func(t *testing.T) {
			if got := (Project{EndDate: tt.end}).Status(now); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := map[string]string{
		"2024-05-01T10:30:00.000Z": "2024-05-01",
		"2024-05-01T10:30:00":      "2024-05-01",
		"2024-05-01":               "2024-05-01",
		"":                         "",
		"yesterday":                "",
	}
	for input, expected := range tests {
		if got := FormatDate(input); got != expected {
			t.Errorf("FormatDate(%q): expected '%s', got '%s'", input, expected, got)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{" , ,", []string{}},
		{"helmets", []string{"helmets"}},
		{"helmets, gloves ,, harness ", []string{"helmets", "gloves", "harness"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitList(%q): expected %v, got %v", tt.input, tt.expected, got)
		}
	}
}

func TestProjectInputClean(t *testing.T) {
	in := &ProjectInput{Name: " Tower ", SafetyRequirementsText: "helmets, gloves", HazardsText: ""}
	in.Clean(func(s string) string { return s })
	if !reflect.DeepEqual(in.SafetyRequirements, []string{"helmets", "gloves"}) {
		t.Errorf("Unexpected safety requirements %v", in.SafetyRequirements)
	}
	if in.Hazards == nil || len(in.Hazards) != 0 {
		t.Errorf("Expected empty hazards list, got %v", in.Hazards)
	}

	body, err := sonic.Marshal(in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var payload map[string]any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := payload["hazards"]; !ok {
		t.Errorf("Expected hazards array in payload")
	}
	for _, key := range []string{"SafetyRequirementsText", "HazardsText"} {
		if _, ok := payload[key]; ok {
			t.Errorf("Expected %s to stay out of the payload", key)
		}
	}
}

func TestRequestError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	transport := &RequestError{Method: "GET", Path: "/users", Message: "network error", Err: cause}
	rejected := &RequestError{Method: "POST", Path: "/auth/login", Status: http.StatusUnauthorized, Message: "Invalid credentials"}

	if !errors.Is(transport, ErrRequestFailed) || !errors.Is(rejected, ErrRequestFailed) {
		t.Errorf("Expected request errors to match ErrRequestFailed")
	}
	if !errors.Is(transport, cause) {
		t.Errorf("Expected transport error to unwrap to its cause")
	}
	if got := transport.UserMessage("Failed"); got != "Failed" {
		t.Errorf("Expected fallback for transport error, got '%s'", got)
	}
	if got := rejected.UserMessage("Failed"); got != "Invalid credentials" {
		t.Errorf("Expected backend message, got '%s'", got)
	}
	if rejected.Error() != "POST /auth/login: status 401: Invalid credentials" {
		t.Errorf("Unexpected error text '%s'", rejected.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("/hazards: %w", &ValidationError{Fields: []FieldError{
		{Field: "title", Message: "Title is required."},
		{Field: "title", Message: "second"},
		{Field: "severity", Message: "Severity is required."},
	}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError")
	}
	fields := verr.ByField()
	if fields["title"] != "Title is required." || fields["severity"] != "Severity is required." {
		t.Errorf("Unexpected fields %v", fields)
	}
}
