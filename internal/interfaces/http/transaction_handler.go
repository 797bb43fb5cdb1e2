package http

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/application/transaction"
	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/ledger"
	"github.com/jhoicas/tokobangunan-pos/pkg/format"
)

// Rutas de transacciones.
const (
	PurchasesPath = "/admin/pembelian"
	SalesPath     = "/kasir/penjualan"
)

// Lister listado de una entidad del backend (selects de supplier y pelanggan).
type Lister[E any] interface {
	List(ctx context.Context) ([]E, error)
}

// TransactionHandler listas, detalle y formularios de pembelian y penjualan.
type TransactionHandler struct {
	base
	svc       *transaction.Service
	suppliers Lister[entity.Supplier]
	customers Lister[entity.Customer]
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(b base, svc *transaction.Service, suppliers Lister[entity.Supplier], customers Lister[entity.Customer]) *TransactionHandler {
	return &TransactionHandler{base: b, svc: svc, suppliers: suppliers, customers: customers}
}

// Register monta pembelian (admin) y penjualan (kasir). "tambah" va antes de ":id".
func (h *TransactionHandler) Register(r fiber.Router) {
	r.Get(PurchasesPath, h.Purchases)
	r.Get(PurchasesPath+"/tambah", h.open(ledger.Purchase))
	r.Get(PurchasesPath+"/tambah/:draft", h.Form(ledger.Purchase))
	r.Post(PurchasesPath+"/tambah/:draft", h.Update(ledger.Purchase))
	r.Get(PurchasesPath+"/:id", h.Purchase)

	r.Get(SalesPath, h.Sales)
	r.Get(SalesPath+"/tambah", h.open(ledger.Sale))
	r.Get(SalesPath+"/tambah/:draft", h.Form(ledger.Sale))
	r.Post(SalesPath+"/tambah/:draft", h.Update(ledger.Sale))
	r.Get(SalesPath+"/:id", h.Sale)
}

func listPath(kind ledger.Kind) string {
	if kind == ledger.Purchase {
		return PurchasesPath
	}
	return SalesPath
}

func formPath(kind ledger.Kind, id uuid.UUID) string {
	return listPath(kind) + "/tambah/" + id.String()
}

// ── Listas y detalle ────────────────────────────────────────────────────────

// Purchases GET /admin/pembelian.
func (h *TransactionHandler) Purchases(c *fiber.Ctx) error {
	rows, err := h.svc.Purchases(c.UserContext())
	if err != nil {
		return h.listFailed(c, err)
	}
	return h.render(c, "purchase_list", fiber.Map{"Title": "Data Pembelian", "Rows": rows})
}

// Sales GET /kasir/penjualan.
func (h *TransactionHandler) Sales(c *fiber.Ctx) error {
	rows, err := h.svc.Sales(c.UserContext())
	if err != nil {
		return h.listFailed(c, err)
	}
	return h.render(c, "sale_list", fiber.Map{"Title": "Data Penjualan", "Rows": rows})
}

// listFailed la lista es la landing: no se redirige a sí misma, se muestra vacía.
func (h *TransactionHandler) listFailed(c *fiber.Ctx, err error) error {
	if isUnauthorized(err) {
		return h.fail(c, err, c.Path())
	}
	h.toasts.Error(userMessage(err))
	view, title := "sale_list", "Data Penjualan"
	if strings.HasPrefix(c.Path(), PurchasesPath) {
		view, title = "purchase_list", "Data Pembelian"
	}
	return h.render(c, view, fiber.Map{"Title": title})
}

// Purchase GET /admin/pembelian/:id.
func (h *TransactionHandler) Purchase(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err, PurchasesPath)
	}
	d, err := h.svc.Purchase(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, PurchasesPath)
	}
	return h.render(c, "purchase_detail", fiber.Map{
		"Title":    "Detail Pembelian " + d.Purchase.Number(),
		"Purchase": d.Purchase,
		"Details":  d.Details,
	})
}

// Sale GET /kasir/penjualan/:id.
func (h *TransactionHandler) Sale(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return h.fail(c, err, SalesPath)
	}
	d, err := h.svc.Sale(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, SalesPath)
	}
	return h.render(c, "sale_detail", fiber.Map{
		"Title":   "Detail Penjualan " + saleNumber(d.Sale),
		"Sale":    d.Sale,
		"Details": d.Details,
	})
}

// ── Formulario ──────────────────────────────────────────────────────────────

func (h *TransactionHandler) open(kind ledger.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := h.svc.Open(kind)
		return c.Redirect(formPath(kind, id), fiber.StatusFound)
	}
}

func draftID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("draft"))
	if err != nil {
		return uuid.Nil, domain.Fail(transaction.MsgDraftNotFound, domain.ErrNotFound)
	}
	return id, nil
}

// Form GET …/tambah/:draft.
func (h *TransactionHandler) Form(kind ledger.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id, err := draftID(c)
		if err != nil {
			return h.fail(c, err, listPath(kind))
		}
		snap, err := h.svc.Snapshot(id, kind)
		if err != nil {
			return h.fail(c, err, listPath(kind))
		}
		if snap.Warning != "" {
			h.toasts.Warning(snap.Warning)
		}

		items, err := h.svc.Items(ctx)
		if err != nil {
			if isUnauthorized(err) {
				return h.fail(c, err, listPath(kind))
			}
			h.toasts.Error(userMessage(err))
		}
		parties, err := h.parties(ctx, kind, snap.PartyID)
		if err != nil {
			if isUnauthorized(err) {
				return h.fail(c, err, listPath(kind))
			}
			h.toasts.Error(userMessage(err))
		}

		title, view := "Tambah Pembelian", "purchase_form"
		if kind == ledger.Sale {
			title, view = "Tambah Penjualan", "sale_form"
		}
		return h.render(c, view, fiber.Map{
			"Title":    title,
			"Action":   formPath(kind, id),
			"Back":     listPath(kind),
			"Draft":    snap,
			"Items":    itemOptions(kind, items, snap.Row.ProductID),
			"Parties":  parties,
			"Payments": paymentOptions(snap.Payment),
		})
	}
}

func itemOptions(kind ledger.Kind, items []entity.Item, selected int64) []Option {
	out := []Option{{Value: "", Label: "Pilih Barang"}}
	for _, it := range items {
		label := it.Name
		if kind == ledger.Sale {
			label += " (Stok: " + format.Number(int64(it.Stock)) + ")"
		}
		out = append(out, Option{Value: id64(it.ID), Label: label, Selected: it.ID == selected})
	}
	return out
}

func paymentOptions(selected string) []Option {
	out := make([]Option, 0, len(entity.PaymentMethods))
	for _, m := range entity.PaymentMethods {
		out = append(out, Option{Value: m, Label: m, Selected: m == selected})
	}
	return out
}

func (h *TransactionHandler) parties(ctx context.Context, kind ledger.Kind, selected int64) ([]Option, error) {
	if kind == ledger.Purchase {
		rows, err := h.suppliers.List(ctx)
		if err != nil {
			return nil, wrapList(err, "Gagal memuat data supplier")
		}
		out := []Option{{Value: "", Label: "Pilih Supplier"}}
		for _, s := range rows {
			out = append(out, Option{Value: id64(s.ID), Label: s.Name, Selected: s.ID == selected})
		}
		return out, nil
	}
	rows, err := h.customers.List(ctx)
	if err != nil {
		return nil, wrapList(err, "Gagal memuat data pelanggan")
	}
	out := []Option{{Value: "", Label: "Pilih Pelanggan"}}
	for _, p := range rows {
		out = append(out, Option{Value: id64(p.ID), Label: p.Name, Selected: p.ID == selected})
	}
	return out, nil
}

func wrapList(err error, fallback string) error {
	if isUnauthorized(err) {
		return err
	}
	return domain.Fail(fallback, err)
}

// Update POST …/tambah/:draft. Los campos de cabecera y las cantidades de las líneas se
// aplican en cada envío; "action" decide el resto.
func (h *TransactionHandler) Update(kind ledger.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id, err := draftID(c)
		if err != nil {
			return h.fail(c, err, listPath(kind))
		}
		snap, err := h.svc.Snapshot(id, kind)
		if err != nil {
			return h.fail(c, err, listPath(kind))
		}
		back := formPath(kind, id)
		action := c.FormValue("action")

		if action == "cancel" {
			h.svc.Cancel(id)
			return c.Redirect(listPath(kind), fiber.StatusFound)
		}
		if err := h.applyHeader(c, id, kind); err != nil {
			return h.fail(c, err, back)
		}
		if err := h.applyLines(c, id, kind, len(snap.Lines)); err != nil {
			return h.fail(c, err, back)
		}

		switch {
		case action == "select":
			if err := h.svc.SelectProduct(ctx, id, kind, formInt64(c, "id_barang")); err != nil {
				return h.fail(c, err, back)
			}
		case action == "add":
			if err := h.addRow(c, id, kind, snap.Row.ProductID); err != nil {
				return h.fail(c, err, back)
			}
		case strings.HasPrefix(action, "remove:"):
			i, err := strconv.Atoi(strings.TrimPrefix(action, "remove:"))
			if err != nil {
				return h.fail(c, domain.Fail(MsgInvalidForm, domain.ErrInvalidInput), back)
			}
			if err := h.svc.RemoveLine(id, kind, i); err != nil {
				return h.fail(c, err, back)
			}
		case action == "save":
			return h.save(c, id, kind)
		}
		return c.Redirect(back, fiber.StatusFound)
	}
}

func (h *TransactionHandler) applyHeader(c *fiber.Ctx, id uuid.UUID, kind ledger.Kind) error {
	party := "id_supplier"
	if kind == ledger.Sale {
		party = "id_pelanggan"
	}
	if err := h.svc.SetParty(id, kind, formInt64(c, party)); err != nil {
		return err
	}
	if kind != ledger.Sale {
		return nil
	}
	if m := c.FormValue("metode_pembayaran"); m != "" {
		if err := h.svc.SetPayment(id, m); err != nil {
			return err
		}
	}
	discount, err := formDecimal(c, "diskon")
	if err != nil {
		return err
	}
	return h.svc.SetDiscount(id, discount)
}

func (h *TransactionHandler) applyLines(c *fiber.Ctx, id uuid.UUID, kind ledger.Kind, n int) error {
	for i := 0; i < n; i++ {
		key := "jumlah_" + strconv.Itoa(i)
		if strings.TrimSpace(c.FormValue(key)) == "" {
			continue
		}
		qty, err := formInt(c, key)
		if err != nil {
			return err
		}
		if err := h.svc.SetLineQuantity(id, kind, i, qty); err != nil {
			return err
		}
	}
	return nil
}

// addRow sin JavaScript el barang puede cambiar y agregarse en el mismo envío: si cambió,
// se selecciona primero y el precio del formulario (del barang anterior) se ignora.
func (h *TransactionHandler) addRow(c *fiber.Ctx, id uuid.UUID, kind ledger.Kind, current int64) error {
	ctx := c.UserContext()
	itemID := formInt64(c, "id_barang")
	changed := itemID != current
	if changed {
		if err := h.svc.SelectProduct(ctx, id, kind, itemID); err != nil {
			return err
		}
	}
	qty, err := formInt(c, "jumlah")
	if err != nil {
		return err
	}
	var price *decimal.Decimal
	if kind.PriceEditable() && !changed && strings.TrimSpace(c.FormValue("harga_satuan")) != "" {
		p, err := formDecimal(c, "harga_satuan")
		if err != nil {
			return err
		}
		price = &p
	}
	return h.svc.AddRow(id, kind, qty, price)
}

func (h *TransactionHandler) save(c *fiber.Ctx, id uuid.UUID, kind ledger.Kind) error {
	ctx := c.UserContext()
	back := formPath(kind, id)
	if kind == ledger.Purchase {
		newID, err := h.svc.SubmitPurchase(ctx, id)
		if err != nil {
			return h.fail(c, err, back)
		}
		return h.done(c, transaction.MsgPurchaseSaved, PurchasesPath+"/"+strconv.FormatInt(newID, 10))
	}
	if _, err := h.svc.SubmitSale(ctx, id); err != nil {
		return h.fail(c, err, back)
	}
	return h.done(c, transaction.MsgSaleSaved, SalesPath)
}
