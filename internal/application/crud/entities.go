package crud

import (
	"context"
	"strings"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

func required(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return domain.Fail(message, domain.ErrInvalidInput)
	}
	return nil
}

// NewCategoryScreen kategori barang.
func NewCategoryScreen(res Resource[entity.Category], log *logger.Logger) *Screen[entity.Category] {
	return NewScreen(Config[entity.Category]{
		Name: "kategori",
		Messages: Messages{
			Created:      "Kategori berhasil ditambahkan",
			Updated:      "Kategori berhasil diperbarui",
			Deleted:      "Kategori berhasil dihapus",
			SaveFailed:   "Gagal menyimpan kategori",
			LoadFailed:   "Gagal memuat data kategori",
			DeleteFailed: "Gagal menghapus kategori. Pastikan tidak ada barang yang menggunakan kategori ini.",
			Confirm:      "Apakah Anda yakin ingin menghapus kategori ini?",
		},
		ID: func(c entity.Category) int64 { return c.ID },
		Validate: func(c entity.Category, _ bool) error {
			return required(c.Name, "Nama kategori harus diisi")
		},
	}, res, log)
}

// NewItemTypeScreen jenis barang.
func NewItemTypeScreen(res Resource[entity.ItemType], log *logger.Logger) *Screen[entity.ItemType] {
	return NewScreen(Config[entity.ItemType]{
		Name: "jenis",
		Messages: Messages{
			Created:      "Jenis barang berhasil ditambahkan",
			Updated:      "Jenis barang berhasil diperbarui",
			Deleted:      "Jenis barang berhasil dihapus",
			SaveFailed:   "Gagal menyimpan jenis barang",
			LoadFailed:   "Gagal memuat data jenis barang",
			DeleteFailed: "Gagal menghapus jenis barang. Pastikan tidak ada barang yang menggunakan jenis ini.",
			Confirm:      "Apakah Anda yakin ingin menghapus jenis barang ini?",
		},
		ID: func(t entity.ItemType) int64 { return t.ID },
		Validate: func(t entity.ItemType, _ bool) error {
			return required(t.Name, "Nama jenis harus diisi")
		},
	}, res, log)
}

// ItemOptions listas de referencia del formulario de barang.
type ItemOptions struct {
	Categories []entity.Category
	Types      []entity.ItemType
}

// NewItemScreen barang; el formulario carga kategori y jenis como opciones.
func NewItemScreen(res Resource[entity.Item], categories Resource[entity.Category], types Resource[entity.ItemType], log *logger.Logger) *Screen[entity.Item] {
	return NewScreen(Config[entity.Item]{
		Name: "barang",
		Messages: Messages{
			Created:      "Barang berhasil ditambahkan",
			Updated:      "Barang berhasil diperbarui",
			Deleted:      "Barang berhasil dihapus",
			SaveFailed:   "Gagal menyimpan data barang",
			LoadFailed:   "Gagal memuat data barang",
			DeleteFailed: "Gagal menghapus barang. Pastikan barang ini tidak terkait dengan transaksi.",
			Confirm:      "Apakah Anda yakin ingin menghapus barang ini?",
		},
		ID:       func(i entity.Item) int64 { return i.ID },
		Validate: validateItem,
		Options: func(ctx context.Context) (any, error) {
			var opts ItemOptions
			var err error
			if opts.Categories, err = categories.List(ctx); err != nil {
				return opts, err
			}
			opts.Types, err = types.List(ctx)
			return opts, err
		},
	}, res, log)
}

func validateItem(i entity.Item, _ bool) error {
	if err := required(i.Name, "Nama barang harus diisi"); err != nil {
		return err
	}
	if i.CategoryID == 0 {
		return domain.Fail("Silakan pilih kategori", domain.ErrInvalidInput)
	}
	if i.TypeID == 0 {
		return domain.Fail("Silakan pilih jenis", domain.ErrInvalidInput)
	}
	if i.PurchasePrice.IsNegative() || i.SalePrice.IsNegative() {
		return domain.Fail("Harga tidak boleh negatif", domain.ErrInvalidInput)
	}
	if i.Stock < 0 {
		return domain.Fail("Stok tidak boleh negatif", domain.ErrInvalidInput)
	}
	return nil
}

// NewSupplierScreen supplier.
func NewSupplierScreen(res Resource[entity.Supplier], log *logger.Logger) *Screen[entity.Supplier] {
	return NewScreen(Config[entity.Supplier]{
		Name: "supplier",
		Messages: Messages{
			Created:      "Supplier berhasil ditambahkan",
			Updated:      "Supplier berhasil diperbarui",
			Deleted:      "Supplier berhasil dihapus",
			SaveFailed:   "Gagal menyimpan data supplier",
			LoadFailed:   "Gagal memuat data supplier",
			DeleteFailed: "Gagal menghapus supplier. Pastikan supplier ini tidak terkait dengan transaksi.",
			Confirm:      "Apakah Anda yakin ingin menghapus supplier ini?",
		},
		ID: func(s entity.Supplier) int64 { return s.ID },
		Validate: func(s entity.Supplier, _ bool) error {
			return required(s.Name, "Nama supplier harus diisi")
		},
	}, res, log)
}

// NewCustomerScreen pelanggan; hay una instancia para admin y otra para kasir.
func NewCustomerScreen(res Resource[entity.Customer], log *logger.Logger) *Screen[entity.Customer] {
	return NewScreen(Config[entity.Customer]{
		Name: "pelanggan",
		Messages: Messages{
			Created:      "Pelanggan berhasil ditambahkan",
			Updated:      "Pelanggan berhasil diperbarui",
			Deleted:      "Pelanggan berhasil dihapus",
			SaveFailed:   "Gagal menyimpan data pelanggan",
			LoadFailed:   "Gagal memuat data pelanggan",
			DeleteFailed: "Gagal menghapus pelanggan. Pastikan pelanggan ini tidak terkait dengan transaksi.",
			Confirm:      "Apakah Anda yakin ingin menghapus pelanggan ini?",
		},
		ID: func(c entity.Customer) int64 { return c.ID },
		Validate: func(c entity.Customer, _ bool) error {
			return required(c.Name, "Nama pelanggan harus diisi")
		},
	}, res, log)
}

// NewUserScreen pengguna. En edición un password vacío no se envía (se conserva el actual).
func NewUserScreen(res Resource[entity.User], log *logger.Logger) *Screen[entity.User] {
	return NewScreen(Config[entity.User]{
		Name: "users",
		Messages: Messages{
			Created:      "Pengguna berhasil ditambahkan",
			Updated:      "Pengguna berhasil diperbarui",
			Deleted:      "Pengguna berhasil dihapus",
			SaveFailed:   "Gagal menyimpan pengguna",
			LoadFailed:   "Gagal memuat data pengguna",
			DeleteFailed: "Gagal menghapus pengguna",
			Confirm:      "Apakah Anda yakin ingin menghapus pengguna ini?",
		},
		ID:    func(u entity.User) int64 { return u.ID },
		Blank: func() entity.User { return entity.User{Role: entity.RoleCashier} },
		Validate: func(u entity.User, editing bool) error {
			if err := required(u.Name, "Nama harus diisi"); err != nil {
				return err
			}
			if err := required(u.Username, "Username harus diisi"); err != nil {
				return err
			}
			if !editing && u.Password == "" {
				return domain.Fail("Password harus diisi", domain.ErrInvalidInput)
			}
			if !entity.ValidRole(u.Role) {
				return domain.Fail("Role tidak valid", domain.ErrInvalidInput)
			}
			return nil
		},
	}, res, log)
}
