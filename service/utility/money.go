package utility

import (
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/genproto/googleapis/type/money"
)

const NanoSize = 1000000000

var MaxDecimalValue = decimal.NewFromInt(math.MaxInt64).Add(decimal.New(999999999, -9))

// ToMoney splits amount into whole units and nanos.
func ToMoney(currency string, amount decimal.Decimal) *money.Money {
	amount = CleanDecimal(amount)

	units := amount.IntPart()
	nanos := amount.Sub(decimal.NewFromInt(units)).Mul(decimal.NewFromInt(NanoSize)).IntPart()

	return &money.Money{CurrencyCode: currency, Units: units, Nanos: int32(nanos)}
}

// CleanDecimal rounds to 9 places and clamps to what NUMERIC(28,9) can hold.
func CleanDecimal(d decimal.Decimal) decimal.Decimal {
	rounded, _ := decimal.NewFromString(d.StringFixed(9))

	minValue := MaxDecimalValue.Neg()
	if rounded.GreaterThan(MaxDecimalValue) {
		return MaxDecimalValue
	} else if rounded.LessThan(minValue) {
		return minValue
	}
	return rounded
}
