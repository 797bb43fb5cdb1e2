package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigate(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		state State
		want  Decision
	}{
		{"sin sesión a dashboard", "/admin/dashboard", Unauthenticated, Decision{Redirect, "/login"}},
		{"sin sesión a kasir", "/kasir/penjualan/tambah", Unauthenticated, Decision{Redirect, "/login"}},
		{"sin sesión ve login", "/login", Unauthenticated, Decision{Allow, ""}},
		{"kasir en ruta admin", "/admin/supplier", AuthenticatedCashier, Decision{Redirect, "/kasir/penjualan"}},
		{"admin en ruta kasir", "/kasir/pelanggan", AuthenticatedAdmin, Decision{Redirect, "/admin/dashboard"}},
		{"admin en su área", "/admin/pembelian/12", AuthenticatedAdmin, Decision{Allow, ""}},
		{"kasir en su área", "/kasir/penjualan/3", AuthenticatedCashier, Decision{Allow, ""}},
		{"admin en login", "/login", AuthenticatedAdmin, Decision{Redirect, "/admin/dashboard"}},
		{"kasir en login", "/login/", AuthenticatedCashier, Decision{Redirect, "/kasir/penjualan"}},
		{"ruta desconocida", "/otra", AuthenticatedAdmin, Decision{Redirect, "/login"}},
		{"raíz", "/", Unauthenticated, Decision{Redirect, "/login"}},
		{"prefijo parecido no es área", "/administrador", AuthenticatedAdmin, Decision{Redirect, "/login"}},
		{"logout requiere sesión", "/logout", Unauthenticated, Decision{Redirect, "/login"}},
		{"logout con sesión", "/logout", AuthenticatedCashier, Decision{Allow, ""}},
		{"estáticos", "/static/app.css", Unauthenticated, Decision{Allow, ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Navigate(tc.path, tc.state))
		})
	}
}

// Toda combinación (requisito, estado) tiene una decisión explícita en la tabla.
func TestTablaCompleta(t *testing.T) {
	reqs := []Requirement{PublicOnly, RequireAdmin, RequireCashier, RequireAny, Unknown, Public}
	states := []State{Unauthenticated, AuthenticatedAdmin, AuthenticatedCashier}
	for _, r := range reqs {
		for _, s := range states {
			_, ok := table[r][s]
			assert.True(t, ok, "falta (%d, %s)", r, s)
		}
	}
}

func TestStateForRole(t *testing.T) {
	assert.Equal(t, AuthenticatedAdmin, StateForRole("admin"))
	assert.Equal(t, AuthenticatedCashier, StateForRole("kasir"))
	assert.Equal(t, Unauthenticated, StateForRole("gerente"))
	assert.Equal(t, "/login", Landing(Unauthenticated))
}
