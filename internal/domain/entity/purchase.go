package entity

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de pembelian.
type Purchase struct {
	ID           int64           `json:"id"`
	Date         Timestamp       `json:"tanggal"`
	Invoice      string          `json:"invoice,omitempty"`
	SupplierID   int64           `json:"id_supplier"`
	SupplierName string          `json:"nama_supplier,omitempty"`
	Total        decimal.Decimal `json:"total_harga"`
}

// Number número de transacción visible: invoice o PO-<id>.
func (p Purchase) Number() string {
	if p.Invoice != "" {
		return p.Invoice
	}
	return "PO-" + strconv.FormatInt(p.ID, 10)
}

// PurchaseDetail respuesta de GET /api/pembelian/:id.
type PurchaseDetail struct {
	Purchase Purchase            `json:"pembelian"`
	Details  []TransactionDetail `json:"details"`
}

// PurchaseRequest cuerpo de POST /api/pembelian.
type PurchaseRequest struct {
	SupplierID int64               `json:"id_supplier"`
	Total      decimal.Decimal     `json:"total_harga"`
	Details    []TransactionDetail `json:"details"`
}
