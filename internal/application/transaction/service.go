package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/ledger"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// Mensajes de los formularios.
const (
	MsgSelectSupplier   = "Harap pilih supplier"
	MsgSelectCustomer   = "Silakan pilih pelanggan"
	MsgInvalidPayment   = "Metode pembayaran tidak valid"
	MsgPurchaseSaved    = "Transaksi pembelian berhasil disimpan"
	MsgSaleSaved        = "Penjualan berhasil disimpan"
	MsgPurchaseFailed   = "Gagal menyimpan transaksi pembelian"
	MsgSaleFailed       = "Gagal menyimpan penjualan"
	MsgItemsLoadFailed  = "Gagal memuat data barang"
	MsgDraftNotFound    = "Formulir transaksi tidak ditemukan atau sudah ditutup"
	MsgPurchaseNotFound = "Gagal memuat detail pembelian"
	MsgSaleNotFound     = "Gagal memuat detail penjualan"
	MsgPurchasesFailed  = "Gagal memuat data pembelian"
	MsgSalesFailed      = "Gagal memuat data penjualan"
)

// API endpoints de transacciones del backend.
type API interface {
	CreatePurchase(ctx context.Context, in entity.PurchaseRequest) (int64, error)
	CreateSale(ctx context.Context, in entity.SaleRequest) (int64, error)
	Purchases(ctx context.Context) ([]entity.Purchase, error)
	Purchase(ctx context.Context, id int64) (entity.PurchaseDetail, error)
	Sales(ctx context.Context) ([]entity.Sale, error)
	Sale(ctx context.Context, id int64) (entity.SaleDetail, error)
}

// Catalog lista de barang vigente (precio y stok al momento de seleccionar).
type Catalog interface {
	List(ctx context.Context) ([]entity.Item, error)
}

// Service casos de uso de pembelian y penjualan.
type Service struct {
	api     API
	catalog Catalog
	drafts  *Registry
	log     *logger.Logger
}

// NewService construye el servicio.
func NewService(api API, catalog Catalog, drafts *Registry, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{api: api, catalog: catalog, drafts: drafts, log: log.Component("transaction")}
}

// Open abre un formulario nuevo.
func (s *Service) Open(kind ledger.Kind) uuid.UUID {
	d := s.drafts.Open(kind)
	s.log.Debug().Str("draft", d.ID.String()).Str("kind", kind.String()).Msg("borrador abierto")
	return d.ID
}

// Cancel descarta el formulario sin enviar.
func (s *Service) Cancel(id uuid.UUID) {
	s.drafts.Discard(id)
}

func (s *Service) draft(id uuid.UUID, kind ledger.Kind) (*Draft, error) {
	d, err := s.drafts.Get(id, kind)
	if err != nil {
		return nil, domain.Fail(MsgDraftNotFound, err)
	}
	return d, nil
}

// Snapshot estado del formulario.
func (s *Service) Snapshot(id uuid.UUID, kind ledger.Kind) (Snapshot, error) {
	d, err := s.draft(id, kind)
	if err != nil {
		return Snapshot{}, err
	}
	return d.Snapshot(), nil
}

// Items catálogo para el selector de barang.
func (s *Service) Items(ctx context.Context) ([]entity.Item, error) {
	items, err := s.catalog.List(ctx)
	if err != nil {
		return nil, wrap(err, MsgItemsLoadFailed)
	}
	return items, nil
}

// SelectProduct fija el barang de la fila de captura con el precio y stok actuales del catálogo.
// itemID 0 limpia la fila.
func (s *Service) SelectProduct(ctx context.Context, id uuid.UUID, kind ledger.Kind, itemID int64) error {
	d, err := s.draft(id, kind)
	if err != nil {
		return err
	}
	if itemID == 0 {
		return d.Do(func(l *ledger.Ledger) error { l.ClearRow(); return nil })
	}
	items, err := s.Items(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ID != itemID {
			continue
		}
		return d.Do(func(l *ledger.Ledger) error {
			w, err := l.SelectProduct(ledger.ProductFromItem(kind, it))
			d.warn(w)
			return err
		})
	}
	return domain.Fail(domain.ErrNotFound.Error(), domain.ErrNotFound)
}

// SetRow cantidad (y precio, en compras) de la fila de captura.
func (s *Service) SetRow(id uuid.UUID, kind ledger.Kind, qty int, price *decimal.Decimal) error {
	d, err := s.draft(id, kind)
	if err != nil {
		return err
	}
	return d.Do(func(l *ledger.Ledger) error {
		return d.fillRow(l, kind, qty, price)
	})
}

// AddRow agrega la fila de captura (fusionando si el barang ya está en el ledger).
// Captura y confirmación ocurren bajo el mismo bloqueo del borrador.
func (s *Service) AddRow(id uuid.UUID, kind ledger.Kind, qty int, price *decimal.Decimal) error {
	d, err := s.draft(id, kind)
	if err != nil {
		return err
	}
	return d.Do(func(l *ledger.Ledger) error {
		if err := d.fillRow(l, kind, qty, price); err != nil {
			return err
		}
		_, err := l.CommitRow()
		return err
	})
}

// fillRow se llama con el bloqueo del borrador tomado.
func (d *Draft) fillRow(l *ledger.Ledger, kind ledger.Kind, qty int, price *decimal.Decimal) error {
	if price != nil && kind.PriceEditable() {
		if err := l.SetUnitPrice(*price); err != nil {
			return domain.Fail(err.Error(), domain.ErrInvalidInput)
		}
	}
	d.warn(l.SetQuantity(qty))
	return nil
}

// RemoveLine elimina una línea.
func (s *Service) RemoveLine(id uuid.UUID, kind ledger.Kind, index int) error {
	d, err := s.draft(id, kind)
	if err != nil {
		return err
	}
	return d.Do(func(l *ledger.Ledger) error { return l.RemoveLine(index) })
}

// SetLineQuantity edita la cantidad de una línea existente.
func (s *Service) SetLineQuantity(id uuid.UUID, kind ledger.Kind, index, qty int) error {
	d, err := s.draft(id, kind)
	if err != nil {
		return err
	}
	return d.Do(func(l *ledger.Ledger) error {
		w, err := l.SetLineQuantity(index, qty)
		d.warn(w)
		return err
	})
}

// SetParty supplier (compra) o pelanggan (venta).
func (s *Service) SetParty(id uuid.UUID, kind ledger.Kind, partyID int64) error {
	d, err := s.draft(id, kind)
	if err != nil {
		return err
	}
	return d.Do(func(*ledger.Ledger) error { d.partyID = partyID; return nil })
}

// SetPayment método de pago de la venta.
func (s *Service) SetPayment(id uuid.UUID, method string) error {
	d, err := s.draft(id, ledger.Sale)
	if err != nil {
		return err
	}
	if !entity.ValidPaymentMethod(method) {
		return domain.Fail(MsgInvalidPayment, domain.ErrInvalidInput)
	}
	return d.Do(func(*ledger.Ledger) error { d.payment = method; return nil })
}

// SetDiscount diskon de la venta.
func (s *Service) SetDiscount(id uuid.UUID, amount decimal.Decimal) error {
	d, err := s.draft(id, ledger.Sale)
	if err != nil {
		return err
	}
	return d.Do(func(l *ledger.Ledger) error {
		if err := l.SetDiscount(amount); err != nil {
			return domain.Fail(err.Error(), domain.ErrInvalidInput)
		}
		return nil
	})
}

// SubmitPurchase valida y envía la compra. En éxito descarta el borrador y devuelve el id.
func (s *Service) SubmitPurchase(ctx context.Context, id uuid.UUID) (int64, error) {
	d, err := s.draft(id, ledger.Purchase)
	if err != nil {
		return 0, err
	}
	if !d.gate.TryAcquire(1) {
		return 0, domain.Fail(domain.MsgBusy, domain.ErrBusy)
	}
	defer d.gate.Release(1)

	var req entity.PurchaseRequest
	err = d.Do(func(l *ledger.Ledger) error {
		if d.partyID == 0 {
			return domain.Fail(MsgSelectSupplier, domain.ErrInvalidInput)
		}
		if err := l.Validate(); err != nil {
			return err
		}
		req = entity.PurchaseRequest{SupplierID: d.partyID, Total: l.Total(), Details: l.Details()}
		return nil
	})
	if err != nil {
		return 0, err
	}

	newID, err := s.api.CreatePurchase(ctx, req)
	if err != nil {
		s.log.Warn().Err(err).Str("draft", id.String()).Msg("pembelian rechazada")
		return 0, wrap(err, MsgPurchaseFailed)
	}
	s.drafts.Discard(id)
	s.log.Info().Int64("id", newID).Str("total", req.Total.String()).Int("lines", len(req.Details)).Msg("pembelian guardada")
	return newID, nil
}

// SubmitSale valida y envía la venta. En éxito descarta el borrador y devuelve el id.
func (s *Service) SubmitSale(ctx context.Context, id uuid.UUID) (int64, error) {
	d, err := s.draft(id, ledger.Sale)
	if err != nil {
		return 0, err
	}
	if !d.gate.TryAcquire(1) {
		return 0, domain.Fail(domain.MsgBusy, domain.ErrBusy)
	}
	defer d.gate.Release(1)

	var req entity.SaleRequest
	err = d.Do(func(l *ledger.Ledger) error {
		if d.partyID == 0 {
			return domain.Fail(MsgSelectCustomer, domain.ErrInvalidInput)
		}
		if !entity.ValidPaymentMethod(d.payment) {
			return domain.Fail(MsgInvalidPayment, domain.ErrInvalidInput)
		}
		if err := l.Validate(); err != nil {
			return err
		}
		req = entity.SaleRequest{
			CustomerID:    d.partyID,
			PaymentMethod: d.payment,
			Total:         l.Total(),
			Discount:      l.Discount(),
			Details:       l.Details(),
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	newID, err := s.api.CreateSale(ctx, req)
	if err != nil {
		s.log.Warn().Err(err).Str("draft", id.String()).Msg("penjualan rechazada")
		return 0, wrap(err, MsgSaleFailed)
	}
	s.drafts.Discard(id)
	s.log.Info().Int64("id", newID).Str("total", req.Total.String()).Int("lines", len(req.Details)).Msg("penjualan guardada")
	return newID, nil
}

// Purchases lista de pembelian.
func (s *Service) Purchases(ctx context.Context) ([]entity.Purchase, error) {
	rows, err := s.api.Purchases(ctx)
	if err != nil {
		return nil, wrap(err, MsgPurchasesFailed)
	}
	return rows, nil
}

// Purchase detalle de una pembelian.
func (s *Service) Purchase(ctx context.Context, id int64) (entity.PurchaseDetail, error) {
	out, err := s.api.Purchase(ctx, id)
	if err != nil {
		return out, wrap(err, MsgPurchaseNotFound)
	}
	return out, nil
}

// Sales lista de penjualan.
func (s *Service) Sales(ctx context.Context) ([]entity.Sale, error) {
	rows, err := s.api.Sales(ctx)
	if err != nil {
		return nil, wrap(err, MsgSalesFailed)
	}
	return rows, nil
}

// Sale detalle de una penjualan.
func (s *Service) Sale(ctx context.Context, id int64) (entity.SaleDetail, error) {
	out, err := s.api.Sale(ctx, id)
	if err != nil {
		return out, wrap(err, MsgSaleNotFound)
	}
	return out, nil
}

// wrap deja pasar el 401 (cierre de sesión) y convierte el resto en un fallo con mensaje.
func wrap(err error, fallback string) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	return domain.Fail(domain.MessageOr(err, fallback), err)
}
