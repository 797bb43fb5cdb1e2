package entity

// Supplier proveedor (GET /api/supplier).
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"nama_supplier"`
	Contact string `json:"kontak"`
	Address string `json:"alamat"`
}
