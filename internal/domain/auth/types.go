package auth

// Package auth contains domain-level types for identity, sessions, and the
// profile directory. It is pure and free of framework/adapter concerns.

// Role is the authorization tag attached to a directory record. It is set
// only in the directory, never client-writable. The zero value means
// student, which is why the constant list has no explicit student entry:
// a student record simply omits the field.
type Role string

const (
	RoleStudent Role = ""
	RoleAdmin   Role = "admin"
	RoleGuide   Role = "guide"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleGuide:
		return true
	}
	return false
}

// Provider records how a principal authenticated. The zero value means the
// portal's own credential flow; federated principals carry the provider tag
// and cannot edit their own profile record.
type Provider string

const (
	ProviderNative Provider = ""
	ProviderGoogle Provider = "google"
)

// Federated reports whether the provider is an external identity provider.
func (p Provider) Federated() bool { return p != ProviderNative }

// Credential is the live identity asserted by the gateway for the current
// process lifetime. It is never persisted.
type Credential struct {
	ID            string
	Email         string
	EmailVerified bool
	DisplayName   string
	PhoneNumber   string
	PhotoURL      string
}

// Record is a profile document in the directory, one per admitted
// principal, queried by exact email match.
type Record struct {
	UID          string   `json:"uid"`
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Role         Role     `json:"role,omitempty"`
	Provider     Provider `json:"provider,omitempty"`
}

// Session is the authoritative in-memory session for the current process.
// AuthHandle and DirectoryRef are transient per-process references and are
// stripped by the Snapshot projection before persistence.
type Session struct {
	Record

	// AuthHandle references the live gateway credential.
	AuthHandle *Credential
	// DirectoryRef is a handle to the backing directory record, used for
	// later profile writes.
	DirectoryRef string
}

// Snapshot is the lossy, persistable projection of a Session. It carries
// every display and authorization attribute but no live references.
type Snapshot struct {
	UID          string   `json:"uid"`
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone,omitempty"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Role         Role     `json:"role,omitempty"`
	Provider     Provider `json:"provider,omitempty"`
}

// Snapshot projects the session onto its persisted form.
func (s Session) Snapshot() Snapshot {
	return Snapshot{
		UID:          s.UID,
		Username:     s.Username,
		Email:        s.Email,
		Phone:        s.Phone,
		ProfileImage: s.ProfileImage,
		Role:         s.Role,
		Provider:     s.Provider,
	}
}

// SessionFromSnapshot rehydrates a session from its persisted form. The
// transient references start out absent and are re-attached by the
// reconciler once the gateway reports the matching credential.
func SessionFromSnapshot(snap Snapshot) *Session {
	return &Session{
		Record: Record{
			UID:          snap.UID,
			Username:     snap.Username,
			Email:        snap.Email,
			Phone:        snap.Phone,
			ProfileImage: snap.ProfileImage,
			Role:         snap.Role,
			Provider:     snap.Provider,
		},
	}
}

// CanEditProfile reports whether the principal may edit its own directory
// record. Federated principals manage their profile at the provider.
func (s Session) CanEditProfile() bool { return !s.Provider.Federated() }
