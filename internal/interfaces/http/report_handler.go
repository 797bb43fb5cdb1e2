package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/application/report"
	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/format"
)

// ReportPage presentación de un reporte: la misma definición de columnas sirve a la tabla
// y a la vista de impresión.
type ReportPage[R any] struct {
	Path        string
	Columns     []Column[R]
	FooterLabel string
	// Highlight marca filas (stok menipis).
	Highlight func(R) bool
	// Extra datos adicionales de la vista (opciones de kategori del reporte de stok).
	Extra func(c *fiber.Ctx) fiber.Map
}

// ReportHandler pantalla de reporte con filtro e impresión.
type ReportHandler[R any] struct {
	base
	page   ReportPage[R]
	screen *report.Screen[R]
}

// NewReportHandler construye el handler.
func NewReportHandler[R any](b base, page ReportPage[R], screen *report.Screen[R]) *ReportHandler[R] {
	return &ReportHandler[R]{base: b, page: page, screen: screen}
}

// Register monta GET <path> y GET <path>/cetak.
func (h *ReportHandler[R]) Register(r fiber.Router) {
	r.Get(h.page.Path, h.Show)
	r.Get(h.page.Path+"/cetak", h.Print)
}

// parseFilter lee el filtro de la query; lo ausente conserva el valor vigente.
func parseFilter(c *fiber.Ctx, current report.Filter) (report.Filter, error) {
	f := current
	for key, dst := range map[string]*time.Time{"start_date": &f.Start, "end_date": &f.End} {
		v := strings.TrimSpace(c.Query(key))
		if v == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return current, domain.Fail("Format tanggal tidak valid", domain.ErrInvalidInput)
		}
		*dst = t
	}
	if c.Query("filter") != "" {
		f.CategoryID = queryInt64(c.Query("id_kategori"))
		f.LowStock = c.Query("low_stock") != ""
	}
	return f, nil
}

func (h *ReportHandler[R]) rows(res report.Result[R]) []row {
	out := make([]row, 0, len(res.Rows))
	for _, r := range res.Rows {
		rw := row{Cells: rowCells(h.page.Columns, r)}
		if h.page.Highlight != nil && h.page.Highlight(r) {
			rw.Class = "low"
		}
		out = append(out, rw)
	}
	return out
}

func (h *ReportHandler[R]) table(res report.Result[R]) fiber.Map {
	def := h.screen.Definition()
	return fiber.Map{
		"Action":      h.page.Path,
		"Result":      res,
		"Headers":     headerCells(h.page.Columns),
		"Rows":        h.rows(res),
		"EmptyText":   def.EmptyText,
		"ColSpan":     len(h.page.Columns) + 1,
		"FooterLabel": h.page.FooterLabel,
		"FooterSpan":  len(h.page.Columns),
		"Periodic":    def.Periodic,
	}
}

// Show GET <path>: cada visita consulta de nuevo al backend.
func (h *ReportHandler[R]) Show(c *fiber.Ctx) error {
	f, err := parseFilter(c, h.screen.Filter())
	if err != nil {
		h.toasts.Error(userMessage(err))
		f = h.screen.Filter()
	}
	res, err := h.screen.Query(c.UserContext(), f)
	if err != nil {
		if isUnauthorized(err) {
			return h.fail(c, err, h.page.Path)
		}
		h.toasts.Error(userMessage(err))
	}
	data := h.table(res)
	data["Title"] = h.screen.Definition().Title
	if h.page.Extra != nil {
		for k, v := range h.page.Extra(c) {
			data[k] = v
		}
	}
	return h.render(c, "report", data)
}

// Print GET <path>/cetak: último resultado en el layout de impresión.
func (h *ReportHandler[R]) Print(c *fiber.Ctx) error {
	res, err := h.screen.Print()
	if err != nil {
		return h.fail(c, err, h.page.Path)
	}
	data := h.table(res)
	data["Title"] = h.screen.PrintTitle(res.Filter)
	data["Heading"] = h.screen.Definition().Title
	data["Store"] = h.store
	return c.Render("report_print", data, "layouts/print")
}

// ── Páginas de reporte ──────────────────────────────────────────────────────

func saleNumber(s entity.Sale) string {
	if s.Invoice != "" {
		return s.Invoice
	}
	return "#" + id64(s.ID)
}

// PurchaseReportPage /admin/laporan/pembelian.
func PurchaseReportPage() ReportPage[entity.Purchase] {
	return ReportPage[entity.Purchase]{
		Path:        "/admin/laporan/pembelian",
		FooterLabel: "Total",
		Columns: []Column[entity.Purchase]{
			{Header: "No. Transaksi", Value: func(p entity.Purchase) string { return p.Number() }},
			{Header: "Tanggal", Value: func(p entity.Purchase) string { return format.Date(p.Date.Time) }},
			{Header: "Supplier", Value: func(p entity.Purchase) string { return p.SupplierName }},
			{Header: "Total", Align: "right", Value: func(p entity.Purchase) string { return format.Rupiah(p.Total) }},
		},
	}
}

// SaleReportPage /admin/laporan/penjualan.
func SaleReportPage() ReportPage[entity.Sale] {
	return ReportPage[entity.Sale]{
		Path:        "/admin/laporan/penjualan",
		FooterLabel: "Total",
		Columns: []Column[entity.Sale]{
			{Header: "Invoice", Value: saleNumber},
			{Header: "Tanggal", Value: func(s entity.Sale) string { return format.Date(s.Date.Time) }},
			{Header: "Pelanggan", Value: func(s entity.Sale) string { return s.CustomerName }},
			{Header: "Pembayaran", Value: func(s entity.Sale) string { return s.PaymentMethod }},
			{Header: "Diskon", Align: "right", Value: func(s entity.Sale) string { return format.Rupiah(s.Discount) }},
			{Header: "Total", Align: "right", Value: func(s entity.Sale) string { return format.Rupiah(s.Total) }},
		},
	}
}

// StockReportPage /admin/laporan/stok.
func StockReportPage(extra func(c *fiber.Ctx) fiber.Map) ReportPage[entity.Item] {
	return ReportPage[entity.Item]{
		Path:        "/admin/laporan/stok",
		FooterLabel: "Nilai Persediaan",
		Highlight:   entity.Item.LowStock,
		Extra:       extra,
		Columns: []Column[entity.Item]{
			{Header: "Nama Barang", Value: func(i entity.Item) string { return i.Name }},
			{Header: "Kategori", Value: func(i entity.Item) string { return i.CategoryName }},
			{Header: "Jenis", Value: func(i entity.Item) string { return i.TypeName }},
			{Header: "Harga Beli", Align: "right", Value: func(i entity.Item) string { return format.Rupiah(i.PurchasePrice) }},
			{Header: "Harga Jual", Align: "right", Value: func(i entity.Item) string { return format.Rupiah(i.SalePrice) }},
			{Header: "Stok", Align: "center", Value: func(i entity.Item) string { return format.Number(int64(i.Stock)) }},
		},
	}
}

// categoryOptions opciones del filtro de kategori del reporte de stok.
func categoryOptions(h base, categories Lister[entity.Category]) func(c *fiber.Ctx) fiber.Map {
	return func(c *fiber.Ctx) fiber.Map {
		rows, err := categories.List(c.UserContext())
		if err != nil {
			h.log.Warn().Err(err).Msg("kategori del filtro")
		}
		return fiber.Map{"Categories": rows}
	}
}
