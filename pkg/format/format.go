// Package format concentra el formato id-ID usado en pantallas e impresiones:
// moneda en rupiah y fechas con nombres de mes en indonesio.
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

var bulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Rupiah formatea un monto: "Rp 45.000" o "Rp 12.500,50" si tiene fracción.
func Rupiah(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	if d.Equal(d.Truncate(0)) {
		return sign + "Rp " + printer.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Round(2).Float64()
	return sign + "Rp " + printer.Sprintf("%.2f", f)
}

// Number formatea un entero con separador de miles (stok, jumlah).
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Date devuelve DD/MM/YYYY (listas y reportes).
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}

// LongDate devuelve "02 Januari 2026" (cabeceras de impresión).
func LongDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02") + " " + bulan[t.Month()-1] + " " + t.Format("2006")
}

// ISODate devuelve YYYY-MM-DD, el formato de los filtros del backend.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}
