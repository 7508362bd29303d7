package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated traveller as the upstream API reports it,
// together with the bearer token the gateway attaches to calls on their
// behalf.
type Identity struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Token string `json:"-"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
