package entity

// Customer pelanggan (GET /api/pelanggan).
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"nama_pelanggan"`
	Address string `json:"alamat"`
	Contact string `json:"kontak"`
}
