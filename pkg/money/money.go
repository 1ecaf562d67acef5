// Package money formatea precios según la configuración regional.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter imprime precios con separadores de miles y dos decimales.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter construye el formateador para locale (BCP 47, ej. "en-US", "de-DE").
// Un locale inválido usa en-US.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format devuelve d con dos decimales: 1234.5 -> "1,234.50" (en-US), "1.234,50" (de-DE).
func (f *Formatter) Format(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}
