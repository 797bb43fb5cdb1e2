// Package ledger mantiene las líneas de una compra o venta en curso y calcula sus totales.
//
// Un mismo Ledger sirve a pembelian y penjualan; las diferencias se expresan en Kind:
//
//	Purchase: precio editable (default harga_beli), sin techo de stock, sin diskon.
//	Sale:     precio fijo de catálogo (harga_jual), techo de stock advisory, con diskon.
//
// El subtotal de cada línea y el total del ledger son siempre derivados; no existe forma de
// fijarlos directamente. Un Ledger no es seguro para uso concurrente: lo posee una sola pantalla.
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tokobangunan-pos/internal/domain"
	"github.com/jhoicas/tokobangunan-pos/internal/domain/entity"
)

// Kind contexto del ledger.
type Kind int

const (
	Purchase Kind = iota + 1
	Sale
)

func (k Kind) String() string {
	switch k {
	case Purchase:
		return "pembelian"
	case Sale:
		return "penjualan"
	default:
		return "desconocido"
	}
}

// PriceEditable el precio unitario se puede cambiar tras seleccionar el producto.
func (k Kind) PriceEditable() bool { return k == Purchase }

// StockCeiling la cantidad está acotada por el stok conocido.
func (k Kind) StockCeiling() bool { return k == Sale }

// Discount el ledger admite diskon.
func (k Kind) Discount() bool { return k == Sale }

// Errores de operación (no de validación de envío).
var (
	ErrNoProduct      = errors.New("barang belum dipilih")
	ErrFixedPrice     = errors.New("harga penjualan mengikuti katalog dan tidak dapat diubah")
	ErrNoDiscount     = errors.New("diskon hanya berlaku untuk penjualan")
	ErrNegativeAmount = errors.New("nilai tidak boleh negatif")
	ErrLineIndex      = errors.New("baris tidak ditemukan")
)

// Product fuente de una selección: el precio ya es el que corresponde al Kind.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int
}

// ProductFromItem toma harga_beli para compras y harga_jual para ventas.
func ProductFromItem(kind Kind, it entity.Item) Product {
	price := it.SalePrice
	if kind == Purchase {
		price = it.PurchasePrice
	}
	return Product{ID: it.ID, Name: it.Name, Price: price, Stock: it.Stock.Int()}
}

// Line una línea del ledger (o la fila de captura).
// Stock es el stok conocido al momento de seleccionar el producto.
type Line struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Stock       int
}

// HasProduct indica si la línea referencia un barang.
func (l Line) HasProduct() bool { return l.ProductID != 0 }

// Subtotal = UnitPrice * Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func emptyRow() Line { return Line{Quantity: 1} }

// Warning aviso no bloqueante (p.ej. cantidad recortada al stok).
type Warning struct {
	Message   string
	Available int
}

func stockWarning(available int) *Warning {
	return &Warning{Message: fmt.Sprintf("Stok hanya tersedia %d", available), Available: available}
}

// ValidationError fallo de validación local con campo específico; nunca se envía al backend.
type ValidationError struct {
	Field   string
	Index   int // -1 si no aplica a una línea concreta
	Message string

	cause error // sentinel adicional (p.ej. domain.ErrInsufficientStock)
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrInvalidInput) y, si aplica, la causa concreta.
func (e *ValidationError) Unwrap() []error {
	if e.cause == nil {
		return []error{domain.ErrInvalidInput}
	}
	return []error{domain.ErrInvalidInput, e.cause}
}

// Ledger conjunto de líneas de una transacción en curso.
type Ledger struct {
	kind     Kind
	row      Line
	lines    []Line
	discount decimal.Decimal
}

// New crea un ledger vacío del tipo indicado.
func New(kind Kind) *Ledger {
	return &Ledger{kind: kind, row: emptyRow(), discount: decimal.Zero}
}

// Kind devuelve el contexto del ledger.
func (l *Ledger) Kind() Kind { return l.kind }

// Row devuelve una copia de la fila de captura.
func (l *Ledger) Row() Line { return l.row }

// SelectProduct fija el producto de la fila de captura y toma una foto de su precio.
// Un cambio posterior del catálogo no altera líneas existentes.
func (l *Ledger) SelectProduct(p Product) (*Warning, error) {
	if p.ID == 0 {
		return nil, ErrNoProduct
	}
	if p.Price.IsNegative() {
		return nil, ErrNegativeAmount
	}
	qty := l.row.Quantity
	if qty <= 0 {
		qty = 1
	}
	l.row = Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    qty,
		Stock:       p.Stock,
	}
	return l.clamp(&l.row), nil
}

// ClearRow devuelve la fila de captura a su estado inicial.
func (l *Ledger) ClearRow() { l.row = emptyRow() }

// SetQuantity cambia la cantidad de la fila de captura. En ventas recorta al stok y avisa.
func (l *Ledger) SetQuantity(qty int) *Warning {
	l.row.Quantity = qty
	return l.clamp(&l.row)
}

// SetUnitPrice cambia el precio de la fila de captura (sólo compras).
func (l *Ledger) SetUnitPrice(price decimal.Decimal) error {
	if !l.kind.PriceEditable() {
		return ErrFixedPrice
	}
	if price.IsNegative() {
		return ErrNegativeAmount
	}
	l.row.UnitPrice = price
	return nil
}

// CommitResult resultado de CommitRow.
type CommitResult struct {
	Index  int  // posición de la línea afectada
	Merged bool // true si se sumó a una línea existente
}

// CommitRow agrega la fila de captura como línea. Si el producto ya existe se suman las
// cantidades en esa línea (conservando su precio) en vez de duplicarla.
// La fila de captura vuelve a su estado inicial.
func (l *Ledger) CommitRow() (CommitResult, error) {
	row := l.row
	if !row.HasProduct() || row.Quantity <= 0 || (l.kind == Purchase && !row.UnitPrice.IsPositive()) {
		return CommitResult{}, &ValidationError{Field: "item", Index: -1, Message: "Harap lengkapi data barang dengan benar"}
	}
	if i := l.indexOf(row.ProductID); i >= 0 {
		l.lines[i].Quantity += row.Quantity
		l.row = emptyRow()
		return CommitResult{Index: i, Merged: true}, nil
	}
	l.lines = append(l.lines, row)
	l.row = emptyRow()
	return CommitResult{Index: len(l.lines) - 1}, nil
}

// RemoveLine elimina una línea; las demás conservan su orden.
func (l *Ledger) RemoveLine(index int) error {
	if index < 0 || index >= len(l.lines) {
		return ErrLineIndex
	}
	l.lines = append(l.lines[:index], l.lines[index+1:]...)
	return nil
}

// SetLineQuantity edita en sitio la cantidad de una línea ya agregada (mismo recorte que SetQuantity).
func (l *Ledger) SetLineQuantity(index, qty int) (*Warning, error) {
	if index < 0 || index >= len(l.lines) {
		return nil, ErrLineIndex
	}
	l.lines[index].Quantity = qty
	return l.clamp(&l.lines[index]), nil
}

// SetDiscount fija el diskon (sólo ventas, no negativo).
func (l *Ledger) SetDiscount(amount decimal.Decimal) error {
	if !l.kind.Discount() {
		return ErrNoDiscount
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	l.discount = amount
	return nil
}

// Discount diskon vigente (cero en compras).
func (l *Ledger) Discount() decimal.Decimal { return l.discount }

// Lines copia de las líneas en orden de inserción.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len número de líneas.
func (l *Ledger) Len() int { return len(l.lines) }

// Subtotal suma de subtotales antes del diskon.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.Subtotal())
	}
	return sum
}

// Total = max(0, Subtotal - Discount).
func (l *Ledger) Total() decimal.Decimal {
	total := l.Subtotal().Sub(l.discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Validate revisa el ledger antes de enviar la transacción.
// Devuelve el primer *ValidationError encontrado o nil.
func (l *Ledger) Validate() error {
	if len(l.lines) == 0 {
		return &ValidationError{Field: "details", Index: -1, Message: "Harap tambahkan minimal satu barang"}
	}
	for i, line := range l.lines {
		if !line.HasProduct() {
			return &ValidationError{Field: "id_barang", Index: i, Message: "Silakan pilih semua barang"}
		}
	}
	for i, line := range l.lines {
		if line.Quantity <= 0 {
			return &ValidationError{Field: "jumlah", Index: i, Message: "Jumlah barang harus lebih dari 0"}
		}
	}
	if l.kind.StockCeiling() {
		for i, line := range l.lines {
			if line.Quantity > line.Stock {
				return &ValidationError{
					Field:   "jumlah",
					Index:   i,
					Message: fmt.Sprintf("Jumlah %s melebihi stok tersedia (%d)", line.ProductName, line.Stock),
					cause:   domain.ErrInsufficientStock,
				}
			}
		}
	}
	return nil
}

// Details proyección de las líneas al formato del backend.
func (l *Ledger) Details() []entity.TransactionDetail {
	out := make([]entity.TransactionDetail, 0, len(l.lines))
	for _, line := range l.lines {
		out = append(out, entity.TransactionDetail{
			ItemID:    line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}
	return out
}

func (l *Ledger) indexOf(productID int64) int {
	for i, line := range l.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (l *Ledger) clamp(line *Line) *Warning {
	if !l.kind.StockCeiling() || !line.HasProduct() {
		return nil
	}
	if line.Quantity > line.Stock {
		line.Quantity = line.Stock
		return stockWarning(line.Stock)
	}
	return nil
}
