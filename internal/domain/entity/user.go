package entity

// Roles del sistema. El valor de cable para cajero es "kasir".
const (
	RoleAdmin   = "admin"
	RoleCashier = "kasir"
)

// User usuario del sistema (GET /api/users y usuario de la sesión).
// Password sólo se envía; vacío en update significa "no cambiar".
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"nama"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// ValidRole indica si el rol es uno de los dos conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleCashier
}
