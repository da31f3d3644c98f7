package fieldops

// Role is the job role attached to a user profile.
//
// The set of roles has grown over the platform's history, so Role is an open
// string type rather than a closed enum: unknown values round-trip untouched
// and only matter when a capability names them. The constants below cover the
// roles currently issued by the backend.
type Role string

// Known roles.
const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project manager"
	RoleTeamLeader     Role = "team leader"
	RoleElectrician    Role = "electrician"
	RoleAccountant     Role = "accountant"
)

// Tenant is the organization a user belongs to. It carries branding only;
// tenant lifecycle is managed entirely by the backend.
type Tenant struct {
	ID            string
	Name          string
	LogoURL       string
	BackgroundURL string
}

// Profile represents the authenticated user as reported by the backend.
type Profile struct {
	ID          string
	Email       string
	FullName    string
	Role        Role
	IsSuperuser bool
	Tenant      *Tenant
}

// Credentials is an email/password pair for the credential exchange.
type Credentials struct {
	Email    string
	Password string
}

// Status is the resolution state of the session.
type Status int

const (
	// StatusLoading means the session is not yet resolved: either startup
	// rehydration or a login exchange is in flight. Consumers must treat the
	// session as indeterminate, not as logged out.
	StatusLoading Status = iota

	// StatusAuthenticated means a token was validated by a profile fetch.
	StatusAuthenticated

	// StatusAnonymous means there is no session.
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at a point in time.
//
// Invariant: Profile is non-nil iff Status is StatusAuthenticated, and then
// Token is the bearer credential the profile was fetched with.
type Snapshot struct {
	Status  Status
	Token   string
	Profile *Profile
}

// Authenticated reports whether the snapshot carries a validated identity.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Profile != nil
}
