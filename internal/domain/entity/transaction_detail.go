package entity

import "github.com/shopspring/decimal"

// TransactionDetail línea de detalle de una compra o venta, tal como viaja al backend.
type TransactionDetail struct {
	ItemID    int64           `json:"id_barang"`
	ItemName  string          `json:"nama_barang,omitempty"`
	Quantity  int             `json:"jumlah"`
	UnitPrice decimal.Decimal `json:"harga_satuan"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
