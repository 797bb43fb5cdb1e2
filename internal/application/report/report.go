// Package report implementa las pantallas de reporte: filtro, consulta, total de pie y
// vista de impresión.
package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/pkg/format"
	"github.com/jhoicas/tokobangunan-pos/pkg/logger"
)

// MsgNothingToPrint toast al pedir impresión sin datos.
const MsgNothingToPrint = "Tidak ada data untuk dicetak"

// Filter parámetros de un reporte.
type Filter struct {
	Start      time.Time
	End        time.Time
	CategoryID int64
	LowStock   bool
}

// DefaultFilter del primer día del mes en curso a hoy.
func DefaultFilter(now time.Time) Filter {
	y, m, d := now.Date()
	return Filter{
		Start: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
		End:   time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
	}
}

// Validate rechaza un rango invertido.
func (f Filter) Validate() error {
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return domain.Fail("Tanggal awal tidak boleh melebihi tanggal akhir", domain.ErrInvalidInput)
	}
	return nil
}

// Source consulta al backend.
type Source[R any] func(ctx context.Context, f Filter) ([]R, error)

// Definition describe un reporte concreto.
type Definition[R any] struct {
	// Name parte del título de impresión: Laporan_<Name>_...
	Name       string
	Title      string
	LoadFailed string
	EmptyText  string
	// Periodic el reporte se filtra por rango de fechas.
	Periodic bool
	// Amount columna monetaria que suma el pie. Nil = sin total.
	Amount func(R) decimal.Decimal
}

// Result estado renderizable del reporte.
type Result[R any] struct {
	Filter  Filter
	Rows    []R
	Total   decimal.Decimal
	Loading bool
	Seq     uint64
	Error   string
}

// Empty sin filas.
func (r Result[R]) Empty() bool { return len(r.Rows) == 0 }

// Printable la impresión sólo se habilita con datos y sin consultas en curso.
func (r Result[R]) Printable() bool { return !r.Loading && len(r.Rows) > 0 }

// Screen instancia de pantalla de reporte.
type Screen[R any] struct {
	def Definition[R]
	src Source[R]
	now func() time.Time
	log *logger.Logger

	mu          sync.Mutex
	current     Result[R]
	arrivals    uint64
	outstanding int
}

// NewScreen construye la pantalla con el filtro por defecto.
func NewScreen[R any](def Definition[R], src Source[R], log *logger.Logger) *Screen[R] {
	if log == nil {
		log = logger.Nop()
	}
	s := &Screen[R]{def: def, src: src, now: time.Now, log: log.Component("report." + def.Name)}
	s.current = Result[R]{Filter: DefaultFilter(s.now()), Total: decimal.Zero}
	return s
}

// Definition del reporte.
func (s *Screen[R]) Definition() Definition[R] { return s.def }

// Filter filtro vigente.
func (s *Screen[R]) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Filter
}

// Current último resultado aplicado.
func (s *Screen[R]) Current() Result[R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.current
	r.Loading = s.outstanding > 0
	return r
}

// Query aplica el filtro y vuelve a consultar. Cada respuesta se aplica al llegar: la última
// en llegar es la que queda, aunque su petición se haya emitido antes.
func (s *Screen[R]) Query(ctx context.Context, f Filter) (Result[R], error) {
	if err := f.Validate(); err != nil {
		return s.Current(), err
	}

	s.mu.Lock()
	s.outstanding++
	s.current.Filter = f
	s.mu.Unlock()

	rows, err := s.src(ctx, f)

	s.mu.Lock()
	s.outstanding--
	s.arrivals++
	next := Result[R]{Filter: f, Seq: s.arrivals, Total: decimal.Zero}
	if err != nil {
		s.log.Warn().Err(err).Msg("consulta")
		next.Error = s.def.LoadFailed
	} else {
		next.Rows = rows
		next.Total = s.total(rows)
	}
	s.current = next
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return s.Current(), err
		}
		return s.Current(), domain.Fail(s.def.LoadFailed, err)
	}
	return s.Current(), nil
}

// Refresh vuelve a consultar con el filtro vigente.
func (s *Screen[R]) Refresh(ctx context.Context) (Result[R], error) {
	return s.Query(ctx, s.Filter())
}

func (s *Screen[R]) total(rows []R) decimal.Decimal {
	sum := decimal.Zero
	if s.def.Amount == nil {
		return sum
	}
	for _, r := range rows {
		sum = sum.Add(s.def.Amount(r))
	}
	return sum
}

// PrintTitle título del documento impreso: Laporan_<Name>_<start>_<end>.
func (s *Screen[R]) PrintTitle(f Filter) string {
	if s.def.Periodic {
		return "Laporan_" + s.def.Name + "_" + format.ISODate(f.Start) + "_" + format.ISODate(f.End)
	}
	return "Laporan_" + s.def.Name + "_" + format.ISODate(s.now())
}

// Print resultado para la vista de impresión; falla si no es imprimible.
func (s *Screen[R]) Print() (Result[R], error) {
	r := s.Current()
	if !r.Printable() {
		return r, domain.Fail(MsgNothingToPrint, domain.ErrInvalidInput)
	}
	return r, nil
}
