package entity

import "github.com/shopspring/decimal"

// Item barang del catálogo (GET /api/barang).
// CategoryName/TypeName sólo vienen en lecturas con join; MinStock sólo si el backend lo expone.
type Item struct {
	ID            int64           `json:"id"`
	Name          string          `json:"nama_barang"`
	CategoryID    int64           `json:"id_kategori"`
	TypeID        int64           `json:"id_jenis"`
	CategoryName  string          `json:"nama_kategori,omitempty"`
	TypeName      string          `json:"nama_jenis,omitempty"`
	PurchasePrice decimal.Decimal `json:"harga_beli"`
	SalePrice     decimal.Decimal `json:"harga_jual"`
	Stock         Count           `json:"stok"`
	MinStock      *Count          `json:"min_stok,omitempty"`
}

// LowStock indica stok menipis. Sin min_stok del backend no se infiere ningún umbral.
func (i Item) LowStock() bool {
	return i.MinStock != nil && i.Stock <= *i.MinStock
}
