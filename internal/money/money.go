// Package money holds the fee arithmetic shared by the server and the client.
package money

import "github.com/shopspring/decimal"

var (
	platformRate   = decimal.RequireFromString("0.05")
	withdrawalRate = decimal.RequireFromString("0.02")
	withdrawalMin  = decimal.NewFromInt(10)
	hundred        = decimal.NewFromInt(100)
)

// PlatformFee is 5% of amount rounded to a whole unit, half away from zero.
func PlatformFee(amount float64) float64 {
	return decimal.NewFromFloat(amount).Mul(platformRate).Round(0).InexactFloat64()
}

// Net returns amount minus fee without float drift.
func Net(amount, fee float64) float64 {
	return decimal.NewFromFloat(amount).Sub(decimal.NewFromFloat(fee)).InexactFloat64()
}

// NetMatches reports whether net equals amount - fee to the paisa.
func NetMatches(amount, fee, net float64) bool {
	want := decimal.NewFromFloat(amount).Sub(decimal.NewFromFloat(fee)).Round(2)
	return want.Equal(decimal.NewFromFloat(net).Round(2))
}

// WithdrawalFee is 2% of amount with a floor of 10, rounded to the paisa.
func WithdrawalFee(amount float64) float64 {
	fee := decimal.NewFromFloat(amount).Mul(withdrawalRate)
	return decimal.Max(fee, withdrawalMin).Round(2).InexactFloat64()
}

// ToMinorUnits converts rupees to paise.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts paise to rupees.
func FromMinorUnits(minor int64) float64 {
	return decimal.NewFromInt(minor).Div(hundred).InexactFloat64()
}
