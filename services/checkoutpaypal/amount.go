package checkoutpaypal

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MarcGrol/storefrontbackend/lib/myerrors"
)

// normalizeAmount turns user-supplied input like "12,5" or " 7 " into a
// decimal string with exactly 2 fraction digits ("12.50", "7.00").
func normalizeAmount(rawAmount string) (string, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(rawAmount, ",", "."))
	if cleaned == "" {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("missing amount"))
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return "", myerrors.NewInvalidInputErrorf("invalid amount '%s'", rawAmount)
	}
	if parsed < 0 {
		return "", myerrors.NewInvalidInputErrorf("negative amount '%s'", rawAmount)
	}

	return strconv.FormatFloat(parsed, 'f', 2, 64), nil
}

// normalizeCurrency uppercases and validates a 3-letter ISO-4217 code.
// An empty input defaults to USD.
func normalizeCurrency(rawCurrency string) (string, error) {
	if rawCurrency == "" {
		return "USD", nil
	}

	currency := strings.ToUpper(strings.TrimSpace(rawCurrency))
	if len(currency) != 3 {
		return "", myerrors.NewInvalidInputErrorf("invalid currency '%s'", rawCurrency)
	}
	for _, ch := range currency {
		if ch < 'A' || ch > 'Z' {
			return "", myerrors.NewInvalidInputErrorf("invalid currency '%s'", rawCurrency)
		}
	}

	return currency, nil
}
