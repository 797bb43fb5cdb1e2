package entity

// Category kategori barang (GET /api/kategori).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"nama_kategori"`
}

// ItemType jenis barang (GET /api/jenis).
type ItemType struct {
	ID   int64  `json:"id"`
	Name string `json:"nama_jenis"`
}
