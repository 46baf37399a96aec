package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "two decimals", input: "149.90", expected: "149.90"},
		{name: "integer", input: "10", expected: "10.00"},
		{name: "surrounding whitespace", input: "  0.10 ", expected: "0.10"},
		{name: "negative discount", input: "-5.5", expected: "-5.50"},
		{name: "precision beyond float64", input: "12345678.01", expected: "12345678.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := kernel.NewMoney(tt.input)

			require.NoError(t, err)
			require.NoError(t, m.Validate())
			assert.Equal(t, tt.expected, m.String())
		})
	}
}

func TestNewMoney_Rejects(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := kernel.NewMoney(" ")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := kernel.NewMoney("12,50")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_ZeroValueIsInvalid(t *testing.T) {
	var m kernel.Money
	require.ErrorIs(t, m.Validate(), kernel.ErrMoneyIsNotConstructed)
}

func TestMoney_IsEqualComparesNumerically(t *testing.T) {
	assert.True(t, kernel.MustNewMoney("10.0").IsEqual(kernel.MustNewMoney("10.00")))
	assert.False(t, kernel.MustNewMoney("10.01").IsEqual(kernel.MustNewMoney("10.00")))
	assert.True(t, kernel.MoneyFromDecimal(decimal.NewFromInt(3)).IsEqual(kernel.MustNewMoney("3")))
	assert.True(t, kernel.MustNewMoney("-1").IsNegative())
}

func TestMustNewMoney_PanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { kernel.MustNewMoney("abc") })
}
