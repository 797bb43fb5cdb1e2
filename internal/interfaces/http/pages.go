package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/application/crud"
	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/format"
)

func formDecimal(c *fiber.Ctx, key string) (decimal.Decimal, error) {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, domain.Fail(MsgInvalidForm, domain.ErrInvalidInput)
	}
	return d, nil
}

func text(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: "text", Value: value, Required: required}
}

func id64(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func moneyInput(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// CategoryPage /admin/kategori.
func CategoryPage() Page[entity.Category] {
	return Page[entity.Category]{
		Title: "Kategori Barang",
		Path:  "/admin/kategori",
		ID:    func(e entity.Category) int64 { return e.ID },
		Columns: []Column[entity.Category]{
			{Header: "Nama Kategori", Value: func(e entity.Category) string { return e.Name }},
		},
		Fields: func(f entity.Category, _ bool, _ any) []Field {
			return []Field{text("nama_kategori", "Nama Kategori", f.Name, true)}
		},
		Decode: func(c *fiber.Ctx) (entity.Category, error) {
			return entity.Category{Name: strings.TrimSpace(c.FormValue("nama_kategori"))}, nil
		},
	}
}

// ItemTypePage /admin/jenis.
func ItemTypePage() Page[entity.ItemType] {
	return Page[entity.ItemType]{
		Title: "Jenis Barang",
		Path:  "/admin/jenis",
		ID:    func(e entity.ItemType) int64 { return e.ID },
		Columns: []Column[entity.ItemType]{
			{Header: "Nama Jenis", Value: func(e entity.ItemType) string { return e.Name }},
		},
		Fields: func(f entity.ItemType, _ bool, _ any) []Field {
			return []Field{text("nama_jenis", "Nama Jenis", f.Name, true)}
		},
		Decode: func(c *fiber.Ctx) (entity.ItemType, error) {
			return entity.ItemType{Name: strings.TrimSpace(c.FormValue("nama_jenis"))}, nil
		},
	}
}

// ItemPage /admin/barang.
func ItemPage() Page[entity.Item] {
	return Page[entity.Item]{
		Title: "Data Barang",
		Path:  "/admin/barang",
		ID:    func(e entity.Item) int64 { return e.ID },
		Columns: []Column[entity.Item]{
			{Header: "Nama Barang", Value: func(e entity.Item) string { return e.Name }},
			{Header: "Kategori", Value: func(e entity.Item) string { return e.CategoryName }},
			{Header: "Jenis", Value: func(e entity.Item) string { return e.TypeName }},
			{Header: "Harga Beli", Align: "right", Value: func(e entity.Item) string { return format.Rupiah(e.PurchasePrice) }},
			{Header: "Harga Jual", Align: "right", Value: func(e entity.Item) string { return format.Rupiah(e.SalePrice) }},
			{Header: "Stok", Align: "center", Value: func(e entity.Item) string { return format.Number(int64(e.Stock)) }},
		},
		Fields: func(f entity.Item, _ bool, options any) []Field {
			opts, _ := options.(crud.ItemOptions)
			cats := []Option{{Value: "", Label: "Pilih Kategori"}}
			for _, k := range opts.Categories {
				cats = append(cats, Option{Value: id64(k.ID), Label: k.Name, Selected: k.ID == f.CategoryID})
			}
			types := []Option{{Value: "", Label: "Pilih Jenis"}}
			for _, j := range opts.Types {
				types = append(types, Option{Value: id64(j.ID), Label: j.Name, Selected: j.ID == f.TypeID})
			}
			return []Field{
				text("nama_barang", "Nama Barang", f.Name, true),
				{Name: "id_kategori", Label: "Kategori", Type: "select", Required: true, Options: cats},
				{Name: "id_jenis", Label: "Jenis", Type: "select", Required: true, Options: types},
				{Name: "harga_beli", Label: "Harga Beli", Type: "number", Value: moneyInput(f.PurchasePrice), Required: true},
				{Name: "harga_jual", Label: "Harga Jual", Type: "number", Value: moneyInput(f.SalePrice), Required: true},
				{Name: "stok", Label: "Stok", Type: "number", Value: strconv.Itoa(f.Stock.Int()), Required: true},
			}
		},
		Decode: func(c *fiber.Ctx) (entity.Item, error) {
			buy, err := formDecimal(c, "harga_beli")
			if err != nil {
				return entity.Item{}, err
			}
			sell, err := formDecimal(c, "harga_jual")
			if err != nil {
				return entity.Item{}, err
			}
			stock, err := formInt(c, "stok")
			if err != nil {
				return entity.Item{}, err
			}
			return entity.Item{
				Name:          strings.TrimSpace(c.FormValue("nama_barang")),
				CategoryID:    formInt64(c, "id_kategori"),
				TypeID:        formInt64(c, "id_jenis"),
				PurchasePrice: buy,
				SalePrice:     sell,
				Stock:         entity.Count(stock),
			}, nil
		},
	}
}

// SupplierPage /admin/supplier.
func SupplierPage() Page[entity.Supplier] {
	return Page[entity.Supplier]{
		Title: "Data Supplier",
		Path:  "/admin/supplier",
		ID:    func(e entity.Supplier) int64 { return e.ID },
		Columns: []Column[entity.Supplier]{
			{Header: "Nama Supplier", Value: func(e entity.Supplier) string { return e.Name }},
			{Header: "Kontak", Value: func(e entity.Supplier) string { return e.Contact }},
			{Header: "Alamat", Value: func(e entity.Supplier) string { return e.Address }},
		},
		Fields: func(f entity.Supplier, _ bool, _ any) []Field {
			return []Field{
				text("nama_supplier", "Nama Supplier", f.Name, true),
				text("kontak", "Kontak", f.Contact, false),
				{Name: "alamat", Label: "Alamat", Type: "textarea", Value: f.Address},
			}
		},
		Decode: func(c *fiber.Ctx) (entity.Supplier, error) {
			return entity.Supplier{
				Name:    strings.TrimSpace(c.FormValue("nama_supplier")),
				Contact: strings.TrimSpace(c.FormValue("kontak")),
				Address: strings.TrimSpace(c.FormValue("alamat")),
			}, nil
		},
	}
}

// CustomerPage pelanggan bajo el área indicada ("/admin" o "/kasir").
func CustomerPage(area string) Page[entity.Customer] {
	return Page[entity.Customer]{
		Title: "Data Pelanggan",
		Path:  area + "/pelanggan",
		ID:    func(e entity.Customer) int64 { return e.ID },
		Columns: []Column[entity.Customer]{
			{Header: "Nama Pelanggan", Value: func(e entity.Customer) string { return e.Name }},
			{Header: "Alamat", Value: func(e entity.Customer) string { return e.Address }},
			{Header: "Kontak", Value: func(e entity.Customer) string { return e.Contact }},
		},
		Fields: func(f entity.Customer, _ bool, _ any) []Field {
			return []Field{
				text("nama_pelanggan", "Nama Pelanggan", f.Name, true),
				{Name: "alamat", Label: "Alamat", Type: "textarea", Value: f.Address},
				text("kontak", "Kontak", f.Contact, false),
			}
		},
		Decode: func(c *fiber.Ctx) (entity.Customer, error) {
			return entity.Customer{
				Name:    strings.TrimSpace(c.FormValue("nama_pelanggan")),
				Address: strings.TrimSpace(c.FormValue("alamat")),
				Contact: strings.TrimSpace(c.FormValue("kontak")),
			}, nil
		},
	}
}

// UserPage /admin/users. El password nunca se muestra; vacío en edición = sin cambio.
func UserPage() Page[entity.User] {
	return Page[entity.User]{
		Title: "Manajemen Pengguna",
		Path:  "/admin/users",
		ID:    func(e entity.User) int64 { return e.ID },
		Columns: []Column[entity.User]{
			{Header: "Nama", Value: func(e entity.User) string { return e.Name }},
			{Header: "Username", Value: func(e entity.User) string { return e.Username }},
			{Header: "Role", Value: func(e entity.User) string { return e.Role }},
		},
		Fields: func(f entity.User, editing bool, _ any) []Field {
			pw := Field{Name: "password", Label: "Password", Type: "password", Required: !editing}
			if editing {
				pw.Placeholder = "Kosongkan jika tidak ingin mengubah password"
			}
			return []Field{
				text("nama", "Nama", f.Name, true),
				text("username", "Username", f.Username, true),
				pw,
				{Name: "role", Label: "Role", Type: "select", Required: true, Options: []Option{
					{Value: entity.RoleAdmin, Label: "Admin", Selected: f.Role == entity.RoleAdmin},
					{Value: entity.RoleCashier, Label: "Kasir", Selected: f.Role == entity.RoleCashier},
				}},
			}
		},
		Decode: func(c *fiber.Ctx) (entity.User, error) {
			return entity.User{
				Name:     strings.TrimSpace(c.FormValue("nama")),
				Username: strings.TrimSpace(c.FormValue("username")),
				Password: c.FormValue("password"),
				Role:     c.FormValue("role"),
			}, nil
		},
	}
}
