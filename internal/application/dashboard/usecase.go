// Package dashboard arma el resumen del mes para la pantalla inicial del administrador.
package dashboard

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// MsgLoadFailed toast si el resumen no carga.
const MsgLoadFailed = "Gagal memuat data dashboard"

// Source GET /api/dashboard.
type Source interface {
	Dashboard(ctx context.Context) (entity.Dashboard, error)
}

// Bar fila del gráfico de ventas por kategori; Percent es relativo a la mayor.
type Bar struct {
	Label   string
	Total   decimal.Decimal
	Percent int
}

// Summary vista del dashboard.
type Summary struct {
	MonthlySales     decimal.Decimal
	MonthlyPurchases decimal.Decimal
	TotalItems       int
	LowStockCount    int
	LowStockItems    []entity.Item
	Bars             []Bar
}

// UseCase caso de uso del dashboard.
type UseCase struct {
	src Source
	log *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(src Source, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{src: src, log: log.Component("dashboard")}
}

// GetSummary consulta el backend y arma la vista.
func (uc *UseCase) GetSummary(ctx context.Context) (Summary, error) {
	d, err := uc.src.Dashboard(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("dashboard")
		if errors.Is(err, domain.ErrUnauthorized) {
			return Summary{}, err
		}
		return Summary{}, domain.Fail(MsgLoadFailed, err)
	}
	return Summary{
		MonthlySales:     d.Summary.MonthlySales,
		MonthlyPurchases: d.Summary.MonthlyPurchases,
		TotalItems:       d.Summary.TotalItems.Int(),
		LowStockCount:    len(d.LowStockItems),
		LowStockItems:    d.LowStockItems,
		Bars:             bars(d.SalesByCategory),
	}, nil
}

func bars(rows []entity.CategorySales) []Bar {
	top := decimal.Zero
	for _, r := range rows {
		if r.Total.GreaterThan(top) {
			top = r.Total
		}
	}
	out := make([]Bar, 0, len(rows))
	for _, r := range rows {
		b := Bar{Label: r.Label(), Total: r.Total}
		if top.IsPositive() && r.Total.IsPositive() {
			b.Percent = int(r.Total.Mul(decimal.NewFromInt(100)).Div(top).Round(0).IntPart())
		}
		out = append(out, b)
	}
	return out
}
