package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/items-grid/pkg/money"
)

func TestFormat_SeparadoresPorLocale(t *testing.T) {
	price := decimal.NewFromFloat(1234.5)

	assert.Equal(t, "1,234.50", money.NewFormatter("en-US").Format(price))
	assert.Equal(t, "1.234,50", money.NewFormatter("de-DE").Format(price))
}

func TestFormat_LocaleInvalidoUsaInglés(t *testing.T) {
	assert.Equal(t, "0.00", money.NewFormatter("no es un locale").Format(decimal.Zero))
}
