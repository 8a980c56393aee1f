package chain

import (
	"math/big"
	"strings"
)

// maxDecimals bounds the scaling exponent accepted by ScaleAmount.
const maxDecimals = 18

// quoPrecision keeps the quotient exact well past float64 before rounding.
const quoPrecision = 128

// FormatDecimalAmount converts a raw amount to a human-readable string with the
// given decimal places. Trailing fractional zeros and a dangling decimal point
// are removed. For example, 15000000 with 6 decimals returns "15".
func FormatDecimalAmount(amount *big.Int, decimalPlaces int) string {
	if amount == nil {
		return "0"
	}

	neg := amount.Sign() < 0
	str := new(big.Int).Abs(amount).String()
	if decimalPlaces <= 0 {
		if neg {
			return "-" + str
		}
		return str
	}

	// Pad with leading zeros if necessary
	for len(str) <= decimalPlaces {
		str = "0" + str
	}

	decimalPos := len(str) - decimalPlaces
	result := strings.TrimRight(str[:decimalPos]+"."+str[decimalPos:], "0")
	result = strings.TrimSuffix(result, ".")

	if neg {
		return "-" + result
	}
	return result
}

// ScaleAmount converts a raw amount to a float balance by dividing by
// 10^decimals. A nil amount scales to 0. Decimals outside [0, 18] are clamped.
func ScaleAmount(amount *big.Int, decimals int) float64 {
	if amount == nil || amount.Sign() == 0 {
		return 0
	}
	if decimals < 0 {
		decimals = 0
	}
	if decimals > maxDecimals {
		decimals = maxDecimals
	}

	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	q := new(big.Float).SetPrec(quoPrecision).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(divisor))
	f, _ := q.Float64()
	return f
}
