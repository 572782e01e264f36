package safety

import (
	"context"
	"net/url"

	"sitesafety/internal/domain/auth"
	"sitesafety/internal/domain/safety"
)

// Service groups the screen use cases of one visitor
type Service struct {
	api API

	Equipment *Collection[safety.Equipment, *safety.EquipmentInput]
	Incidents *Collection[safety.Incident, *safety.IncidentInput]
	Hazards   *Collection[safety.Hazard, *safety.HazardInput]
	GearLogs  *Collection[safety.GearLog, *safety.GearLogInput]
	Projects  *Collection[safety.Project, *safety.ProjectInput]
}

// NewService creates a service that talks to the backend through api
func NewService(api API, check Validator, clean Sanitizer) *Service {
	return &Service{
		api:       api,
		Equipment: NewCollection[safety.Equipment, *safety.EquipmentInput](api, check, clean, "/equipment"),
		Incidents: NewCollection[safety.Incident, *safety.IncidentInput](api, check, clean, "/incidents"),
		Hazards:   NewCollection[safety.Hazard, *safety.HazardInput](api, check, clean, "/hazards"),
		GearLogs:  NewCollection[safety.GearLog, *safety.GearLogInput](api, check, clean, "/gearlogs"),
		Projects:  NewCollection[safety.Project, *safety.ProjectInput](api, check, clean, "/projects"),
	}
}

// Stats returns the admin dashboard counters
func (s *Service) Stats(ctx context.Context) (*safety.Stats, error) {
	var stats safety.Stats
	if err := s.api.Get(ctx, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Users returns every account
func (s *Service) Users(ctx context.Context) ([]safety.User, error) {
	var users []safety.User
	if err := s.api.GetList(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ManagedUsers returns the accounts an admin may manage, i.e. everyone but admins
func (s *Service) ManagedUsers(ctx context.Context) ([]safety.User, error) {
	users, err := s.Users(ctx)
	if err != nil {
		return nil, err
	}
	managed := make([]safety.User, 0, len(users))
	for _, u := range users {
		if u.Role != string(auth.RoleAdmin) {
			managed = append(managed, u)
		}
	}
	return managed, nil
}

// DeleteUser removes an account through the admin endpoint
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.api.Delete(ctx, "/admin/users/"+url.PathEscape(id))
}

// ProjectsOwnedBy returns the projects whose owner is subjectID. The
// backend filter is not trusted, so ownership is checked again here.
func (s *Service) ProjectsOwnedBy(ctx context.Context, subjectID string) ([]safety.Project, error) {
	if subjectID == "" {
		return []safety.Project{}, nil
	}
	projects, err := s.Projects.ListWhere(ctx, url.Values{"user": {subjectID}})
	if err != nil {
		return nil, err
	}
	owned := make([]safety.Project, 0, len(projects))
	for _, p := range projects {
		if p.User.ID == subjectID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// Recommendations returns the equipment recommended for a project
func (s *Service) Recommendations(ctx context.Context, projectID string) ([]safety.Equipment, error) {
	return s.Equipment.ListWhere(ctx, url.Values{"projectId": {projectID}})
}
