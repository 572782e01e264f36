package auth

// Snapshot is a point in time view of a visitor session
type Snapshot struct {
	Identity     *Identity `json:"identity,omitempty"`
	Initializing bool      `json:"initializing"`
}

// Authenticated reports whether the snapshot carries an identity
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// RouteGroup names a set of screens sharing the same role requirement
type RouteGroup string

const (
	GroupAdmin   RouteGroup = "admin"
	GroupGeneral RouteGroup = "general"
)

// Policy maps each route group to the roles allowed to enter it
type Policy map[RouteGroup][]Role

// DefaultPolicy returns the fixed route access policy of the console
func DefaultPolicy() Policy {
	return Policy{
		GroupAdmin:   {RoleAdmin},
		GroupGeneral: {RoleUser, RoleWorker, RoleAdmin},
	}
}

// RequiredRoles returns the allow-list for a group. An unknown group has none.
func (p Policy) RequiredRoles(group RouteGroup) []Role {
	return p[group]
}
