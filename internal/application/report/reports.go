package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// PeriodFunc consulta por rango de fechas.
type PeriodFunc[R any] func(ctx context.Context, start, end time.Time) ([]R, error)

// StockFunc consulta de barang por kategori y stok menipis.
type StockFunc func(ctx context.Context, categoryID int64, lowStock bool) ([]entity.Item, error)

// NewPurchaseReport reporte de pembelian; el pie suma total_harga.
func NewPurchaseReport(fetch PeriodFunc[entity.Purchase], log *logger.Logger) *Screen[entity.Purchase] {
	return NewScreen(Definition[entity.Purchase]{
		Name:       "Pembelian",
		Title:      "Laporan Pembelian",
		LoadFailed: "Gagal memuat data laporan pembelian",
		EmptyText:  "Tidak ada data untuk periode ini",
		Periodic:   true,
		Amount:     func(p entity.Purchase) decimal.Decimal { return p.Total },
	}, func(ctx context.Context, f Filter) ([]entity.Purchase, error) {
		return fetch(ctx, f.Start, f.End)
	}, log)
}

// NewSaleReport reporte de penjualan; el pie suma total_harga.
func NewSaleReport(fetch PeriodFunc[entity.Sale], log *logger.Logger) *Screen[entity.Sale] {
	return NewScreen(Definition[entity.Sale]{
		Name:       "Penjualan",
		Title:      "Laporan Penjualan",
		LoadFailed: "Gagal memuat data laporan penjualan",
		EmptyText:  "Tidak ada data untuk periode ini",
		Periodic:   true,
		Amount:     func(s entity.Sale) decimal.Decimal { return s.Total },
	}, func(ctx context.Context, f Filter) ([]entity.Sale, error) {
		return fetch(ctx, f.Start, f.End)
	}, log)
}

// NewStockReport reporte de stok; el pie suma el valor del inventario (stok * harga_beli).
func NewStockReport(fetch StockFunc, log *logger.Logger) *Screen[entity.Item] {
	return NewScreen(Definition[entity.Item]{
		Name:       "Stok",
		Title:      "Laporan Stok Barang",
		LoadFailed: "Gagal memuat data laporan stok",
		EmptyText:  "Tidak ada data barang",
		Amount: func(i entity.Item) decimal.Decimal {
			return i.PurchasePrice.Mul(decimal.NewFromInt(int64(i.Stock)))
		},
	}, func(ctx context.Context, f Filter) ([]entity.Item, error) {
		return fetch(ctx, f.CategoryID, f.LowStock)
	}, log)
}
