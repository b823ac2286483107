package chain

import (
	"errors"
	"fmt"
	"math/big"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseUnits converts a decimal amount such as "0.05" into the smallest unit of a currency with
// the given number of decimals.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	value, ok := new(big.Rat).SetString(amount)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value.Mul(value, new(big.Rat).SetInt(scale))

	if !value.IsInt() {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", ErrInvalidAmount, amount, decimals)
	}

	return new(big.Int).Set(value.Num()), nil
}
