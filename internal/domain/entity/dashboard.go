package entity

import "github.com/shopspring/decimal"

// Dashboard respuesta de GET /api/dashboard.
type Dashboard struct {
	Summary struct {
		MonthlySales     decimal.Decimal `json:"totalPenjualanBulan"`
		MonthlyPurchases decimal.Decimal `json:"totalPembelianBulan"`
		TotalItems       Count           `json:"totalBarang"`
	} `json:"summary"`
	SalesByCategory []CategorySales `json:"penjualanPerKategori"`
	LowStockItems   []Item          `json:"barangHampirHabis"`
}

// CategorySales fila del gráfico de ventas por categoría.
type CategorySales struct {
	CategoryName string          `json:"nama_kategori"`
	Total        decimal.Decimal `json:"total_penjualan"`
}

// Label nombre de la categoría o "Lainnya".
func (c CategorySales) Label() string {
	if c.CategoryName == "" {
		return "Lainnya"
	}
	return c.CategoryName
}
