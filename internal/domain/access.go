package domain

// Role is the identity a resolved access code carries. The wire values are
// the French terms the client apps already speak.
type Role string

const (
	RoleGuest Role = "voyageur"
	RoleHost  Role = "hote"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGuest, RoleHost, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// AdminLike reports whether the role sees the operator side of the
// assistance inbox.
func (r Role) AdminLike() bool {
	return r == RoleAdmin || r == RoleHost
}

// Lodging is a rental unit reachable by its guest access code. Created out
// of band by the host.
type Lodging struct {
	Code     string `json:"code"`
	HostName string `json:"nomHote"`
	Wifi     string `json:"wifi"`
	Info     string `json:"infos"`
	Language string `json:"langue"`
}

// Operator is a host-side account identified by its own access code.
type Operator struct {
	Name string `json:"nom"`
	Code string `json:"code"`
}

// Resolved is the outcome of an access code lookup: the role plus exactly
// one of Lodging or Operator.
type Resolved struct {
	Role     Role
	Lodging  *Lodging
	Operator *Operator
}
