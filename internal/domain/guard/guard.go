// Package guard decide, a partir del estado de sesión y de la ruta pedida, si una pantalla
// se renderiza o se redirige. Es una tabla declarativa sin dependencias de render.
package guard

import (
	"strings"

	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
)

// State estado de autenticación del terminal.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedAdmin
	AuthenticatedCashier
)

func (s State) String() string {
	switch s {
	case AuthenticatedAdmin:
		return "authenticated_admin"
	case AuthenticatedCashier:
		return "authenticated_kasir"
	default:
		return "unauthenticated"
	}
}

// StateForRole traduce el rol de la sesión a estado. Un rol desconocido no autentica.
func StateForRole(role string) State {
	switch role {
	case entity.RoleAdmin:
		return AuthenticatedAdmin
	case entity.RoleCashier:
		return AuthenticatedCashier
	default:
		return Unauthenticated
	}
}

// Rutas de entrada.
const (
	LoginPath         = "/login"
	LogoutPath        = "/logout"
	StaticPath        = "/static"
	AdminLanding      = "/admin/dashboard"
	CashierLanding    = "/kasir/penjualan"
	adminAreaPrefix   = "/admin"
	cashierAreaPrefix = "/kasir"
)

// Landing pantalla por defecto de cada estado autenticado.
func Landing(s State) string {
	switch s {
	case AuthenticatedAdmin:
		return AdminLanding
	case AuthenticatedCashier:
		return CashierLanding
	default:
		return LoginPath
	}
}

// Requirement lo que exige una ruta.
type Requirement int

const (
	// PublicOnly sólo para no autenticados (pantalla de login).
	PublicOnly Requirement = iota
	// RequireAdmin área de administración.
	RequireAdmin
	// RequireCashier área de kasir.
	RequireCashier
	// RequireAny cualquier sesión válida (logout).
	RequireAny
	// Unknown ruta fuera de las áreas conocidas.
	Unknown
	// Public recursos estáticos, sin decisión.
	Public
)

// Action resultado de una decisión.
type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision acción y destino (si Redirect).
type Decision struct {
	Action Action
	To     string
}

func allow() Decision             { return Decision{Action: Allow} }
func redirect(to string) Decision { return Decision{Action: Redirect, To: to} }
func toLanding(s State) Decision  { return redirect(Landing(s)) }
func toLogin(State) Decision      { return redirect(LoginPath) }
func allowAlways(State) Decision  { return allow() }

// table (requirement, state) -> decision. Una sola fuente de verdad para las reglas de rol.
// Un rol equivocado nunca produce una página de error: se corrige hacia la landing propia.
var table = map[Requirement]map[State]func(State) Decision{
	PublicOnly: {
		Unauthenticated:      allowAlways,
		AuthenticatedAdmin:   toLanding,
		AuthenticatedCashier: toLanding,
	},
	RequireAdmin: {
		Unauthenticated:      toLogin,
		AuthenticatedAdmin:   allowAlways,
		AuthenticatedCashier: toLanding,
	},
	RequireCashier: {
		Unauthenticated:      toLogin,
		AuthenticatedAdmin:   toLanding,
		AuthenticatedCashier: allowAlways,
	},
	Public: {
		Unauthenticated:      allowAlways,
		AuthenticatedAdmin:   allowAlways,
		AuthenticatedCashier: allowAlways,
	},
	RequireAny: {
		Unauthenticated:      toLogin,
		AuthenticatedAdmin:   allowAlways,
		AuthenticatedCashier: allowAlways,
	},
	Unknown: {
		Unauthenticated:      toLogin,
		AuthenticatedAdmin:   toLogin,
		AuthenticatedCashier: toLogin,
	},
}

// Decide aplica la tabla.
func Decide(req Requirement, s State) Decision {
	if fn, ok := table[req][s]; ok {
		return fn(s)
	}
	return redirect(LoginPath)
}

// RequirementFor clasifica una ruta del front-end por su área.
func RequirementFor(path string) Requirement {
	p := normalize(path)
	switch {
	case p == LoginPath:
		return PublicOnly
	case p == LogoutPath:
		return RequireAny
	case p == StaticPath || strings.HasPrefix(p, StaticPath+"/"):
		return Public
	case inArea(p, adminAreaPrefix):
		return RequireAdmin
	case inArea(p, cashierAreaPrefix):
		return RequireCashier
	default:
		return Unknown
	}
}

// Navigate decide para una ruta concreta.
func Navigate(path string, s State) Decision {
	return Decide(RequirementFor(path), s)
}

func inArea(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
