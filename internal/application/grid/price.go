package grid

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice convierte la entrada de la celda de precio en un decimal no negativo.
// Descarta todo carácter que no sea dígito o punto y toma el prefijo numérico más largo
// ("12.5abc" -> 12.5, "1.2.3" -> 1.2). Entrada vacía o sin dígitos -> 0.
func ParsePrice(in string) decimal.Decimal {
	var b strings.Builder
	dot := false
	for _, r := range in {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if dot {
				return parseOrZero(b.String())
			}
			dot = true
			b.WriteRune(r)
		}
	}
	return parseOrZero(b.String())
}

func parseOrZero(s string) decimal.Decimal {
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "." {
		return decimal.Zero
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
