package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/application/dashboard"
)

// DashboardHandler pantalla inicial del administrador.
type DashboardHandler struct {
	base
	uc *dashboard.UseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(b base, uc *dashboard.UseCase) *DashboardHandler {
	return &DashboardHandler{base: b, uc: uc}
}

// Show GET /admin/dashboard.
//
// Tarjetas del mes (penjualan, pembelian, total barang, stok menipis), gráfico de
// penjualan por kategori y la tabla de barang hampir habis. Si el backend falla la
// pantalla se muestra vacía con el aviso.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		if isUnauthorized(err) {
			return h.fail(c, err, c.Path())
		}
		h.toasts.Error(userMessage(err))
	}
	return h.render(c, "dashboard", fiber.Map{"Title": "Dashboard", "Summary": summary})
}
