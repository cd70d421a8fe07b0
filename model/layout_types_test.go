package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyMarshalsTwoDecimals(t *testing.T) {
	cases := map[Money]string{
		0:     "0.00",
		19.9:  "19.90",
		7:     "7.00",
		3.456: "3.46",
	}
	for in, want := range cases {
		out, err := json.Marshal(in)
		require.NoError(t, err)
		assert.Equal(t, want, string(out))
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte("12.34"), &m))
	assert.Equal(t, Money(12.34), m)

	out, err := json.Marshal(PriceValue{Liquido: 5, Bruto: 19.9})
	require.NoError(t, err)
	assert.Equal(t, `{"liquido":5.00,"bruto":19.90}`, string(out))
}

func TestPriceOmitsDiscountWhenAbsent(t *testing.T) {
	out, err := json.Marshal(Price{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "desconto")

	withDiscount, err := json.Marshal(Price{
		Desconto: &Discount{ParaConsumidorFinal: 12, Perc: 100, Valor: 19.9},
	})
	require.NoError(t, err)
	assert.Contains(t, string(withDiscount), `"desconto"`)
}
