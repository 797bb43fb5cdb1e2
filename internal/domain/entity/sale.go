package entity

import "github.com/shopspring/decimal"

// Métodos de pago aceptados en el formulario de venta.
var PaymentMethods = []string{"Tunai", "Transfer", "Cash", "Credit"}

// DefaultPaymentMethod método preseleccionado.
const DefaultPaymentMethod = "Cash"

// ValidPaymentMethod indica si m es un método conocido.
func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Sale cabecera de penjualan.
type Sale struct {
	ID            int64           `json:"id"`
	Date          Timestamp       `json:"tanggal"`
	Invoice       string          `json:"invoice,omitempty"`
	CustomerID    int64           `json:"id_pelanggan"`
	CustomerName  string          `json:"nama_pelanggan,omitempty"`
	PaymentMethod string          `json:"metode_pembayaran"`
	Discount      decimal.Decimal `json:"diskon"`
	Total         decimal.Decimal `json:"total_harga"`
}

// SaleDetail respuesta de GET /api/penjualan/:id.
type SaleDetail struct {
	Sale    Sale                `json:"penjualan"`
	Details []TransactionDetail `json:"details"`
}

// SaleRequest cuerpo de POST /api/penjualan.
type SaleRequest struct {
	CustomerID    int64               `json:"id_pelanggan"`
	PaymentMethod string              `json:"metode_pembayaran"`
	Total         decimal.Decimal     `json:"total_harga"`
	Discount      decimal.Decimal     `json:"diskon"`
	Details       []TransactionDetail `json:"details"`
}
