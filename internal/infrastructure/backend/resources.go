package backend

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/format"
)

// Resource recurso REST uniforme: GET lista, POST, PUT /:id, DELETE /:id.
type Resource[E any] struct {
	c    *Client
	path string
}

// NewResource crea el recurso bajo path (p.ej. "/api/kategori").
func NewResource[E any](c *Client, path string) *Resource[E] {
	return &Resource[E]{c: c, path: path}
}

// Path ruta base del recurso.
func (r *Resource[E]) Path() string { return r.path }

// List GET <path>.
func (r *Resource[E]) List(ctx context.Context) ([]E, error) {
	var out []E
	if err := r.c.do(r.c.request(ctx), resty.MethodGet, r.path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create POST <path>.
func (r *Resource[E]) Create(ctx context.Context, e E) error {
	return r.c.do(r.c.request(ctx).SetBody(e), resty.MethodPost, r.path, nil)
}

// Update PUT <path>/:id.
func (r *Resource[E]) Update(ctx context.Context, id int64, e E) error {
	return r.c.do(r.c.request(ctx).SetBody(e), resty.MethodPut, r.idPath(id), nil)
}

// Delete DELETE <path>/:id.
func (r *Resource[E]) Delete(ctx context.Context, id int64) error {
	return r.c.do(r.c.request(ctx), resty.MethodDelete, r.idPath(id), nil)
}

func (r *Resource[E]) idPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// Recursos del catálogo.
func (c *Client) Categories() *Resource[entity.Category] {
	return NewResource[entity.Category](c, "/api/kategori")
}

func (c *Client) ItemTypes() *Resource[entity.ItemType] {
	return NewResource[entity.ItemType](c, "/api/jenis")
}

func (c *Client) Items() *Resource[entity.Item] {
	return NewResource[entity.Item](c, "/api/barang")
}

func (c *Client) Suppliers() *Resource[entity.Supplier] {
	return NewResource[entity.Supplier](c, "/api/supplier")
}

func (c *Client) Customers() *Resource[entity.Customer] {
	return NewResource[entity.Customer](c, "/api/pelanggan")
}

func (c *Client) Users() *Resource[entity.User] {
	return NewResource[entity.User](c, "/api/users")
}

// ItemFilter filtros de GET /api/barang.
type ItemFilter struct {
	CategoryID int64
	LowStock   bool
}

// SearchItems GET /api/barang?id_kategori&low_stock. El umbral de low_stock lo aplica el backend.
func (c *Client) SearchItems(ctx context.Context, f ItemFilter) ([]entity.Item, error) {
	req := c.request(ctx)
	if f.CategoryID > 0 {
		req.SetQueryParam("id_kategori", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.LowStock {
		req.SetQueryParam("low_stock", "true")
	}
	var out []entity.Item
	if err := c.do(req, resty.MethodGet, "/api/barang", &out); err != nil {
		return nil, err
	}
	return out, nil
}

type createdResponse struct {
	ID int64 `json:"id"`
}

// CreatePurchase POST /api/pembelian → id.
func (c *Client) CreatePurchase(ctx context.Context, in entity.PurchaseRequest) (int64, error) {
	var out createdResponse
	if err := c.do(c.request(ctx).SetBody(in), resty.MethodPost, "/api/pembelian", &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Purchases GET /api/pembelian.
func (c *Client) Purchases(ctx context.Context) ([]entity.Purchase, error) {
	var out []entity.Purchase
	if err := c.do(c.request(ctx), resty.MethodGet, "/api/pembelian", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purchase GET /api/pembelian/:id.
func (c *Client) Purchase(ctx context.Context, id int64) (entity.PurchaseDetail, error) {
	var out entity.PurchaseDetail
	err := c.do(c.request(ctx), resty.MethodGet, "/api/pembelian/"+strconv.FormatInt(id, 10), &out)
	return out, err
}

// CreateSale POST /api/penjualan → id.
func (c *Client) CreateSale(ctx context.Context, in entity.SaleRequest) (int64, error) {
	var out createdResponse
	if err := c.do(c.request(ctx).SetBody(in), resty.MethodPost, "/api/penjualan", &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// Sales GET /api/penjualan.
func (c *Client) Sales(ctx context.Context) ([]entity.Sale, error) {
	var out []entity.Sale
	if err := c.do(c.request(ctx), resty.MethodGet, "/api/penjualan", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Sale GET /api/penjualan/:id.
func (c *Client) Sale(ctx context.Context, id int64) (entity.SaleDetail, error) {
	var out entity.SaleDetail
	err := c.do(c.request(ctx), resty.MethodGet, "/api/penjualan/"+strconv.FormatInt(id, 10), &out)
	return out, err
}

func (c *Client) period(ctx context.Context, start, end time.Time) *resty.Request {
	return c.request(ctx).SetQueryParams(map[string]string{
		"start_date": format.ISODate(start),
		"end_date":   format.ISODate(end),
	})
}

// PurchaseReport GET /api/reports/pembelian?start_date&end_date.
func (c *Client) PurchaseReport(ctx context.Context, start, end time.Time) ([]entity.Purchase, error) {
	var out []entity.Purchase
	if err := c.do(c.period(ctx, start, end), resty.MethodGet, "/api/reports/pembelian", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaleReport GET /api/reports/penjualan?start_date&end_date.
func (c *Client) SaleReport(ctx context.Context, start, end time.Time) ([]entity.Sale, error) {
	var out []entity.Sale
	if err := c.do(c.period(ctx, start, end), resty.MethodGet, "/api/reports/penjualan", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard GET /api/dashboard.
func (c *Client) Dashboard(ctx context.Context) (entity.Dashboard, error) {
	var out entity.Dashboard
	err := c.do(c.request(ctx), resty.MethodGet, "/api/dashboard", &out)
	return out, err
}
