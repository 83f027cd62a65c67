package checkoutpaypal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
)

func TestNormalizeAmount(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "plain decimal", in: "12.50", expected: "12.50"},
		{name: "comma separator", in: "12,5", expected: "12.50"},
		{name: "no fraction", in: "7", expected: "7.00"},
		{name: "surrounding whitespace", in: " 20.00 ", expected: "20.00"},
		{name: "one fraction digit", in: "0.1", expected: "0.10"},
		{name: "more than two fraction digits", in: "1.005", expected: "1.00"},
		{name: "zero", in: "0", expected: "0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeAmount(tc.in)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalizeAmountInvalid(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "whitespace only", in: "   "},
		{name: "non numeric", in: "abc"},
		{name: "trailing garbage", in: "12.50x"},
		{name: "negative", in: "-1"},
		{name: "nan", in: "NaN"},
		{name: "inf", in: "Inf"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeAmount(tc.in)
			assert.Error(t, err)
			assert.Equal(t, 400, myerrors.GetHttpStatus(err))
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		got, err := normalizeCurrency("")
		assert.NoError(t, err)
		assert.Equal(t, "USD", got)
	})

	t.Run("uppercased", func(t *testing.T) {
		got, err := normalizeCurrency("eur")
		assert.NoError(t, err)
		assert.Equal(t, "EUR", got)
	})

	t.Run("invalid length", func(t *testing.T) {
		_, err := normalizeCurrency("EURO")
		assert.Error(t, err)
		assert.Equal(t, 400, myerrors.GetHttpStatus(err))
	})

	t.Run("invalid characters", func(t *testing.T) {
		_, err := normalizeCurrency("E1R")
		assert.Error(t, err)
		assert.Equal(t, 400, myerrors.GetHttpStatus(err))
	})
}
