// Copyright (C) 2025, HookSwap Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package amm

import (
	"github.com/holiman/uint256"
)

// All pricing runs on uint256 intermediates so products of uint64 reserves
// cannot wrap; only the final narrowing back to uint64 can overflow, and that
// maps to ErrArithmeticOverflow.

// mulDivFloor computes a*b/den with floor division.
func mulDivFloor(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrArithmeticOverflow
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	prod.Div(prod, uint256.NewInt(den))
	if !prod.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return prod.Uint64(), nil
}

// addChecked computes a+b, failing on uint64 wrap.
func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

// effectiveIn applies the input fee: amountIn * (10000 - feeBps) / 10000,
// floor division, fee charged on the input side.
func effectiveIn(amountIn, feeBps uint64) (uint64, error) {
	if feeBps > FeeRateMax {
		return 0, ErrInvalidFeeRate
	}
	return mulDivFloor(amountIn, FeeRateMax-feeBps, FeeRateMax)
}

// swapOutput prices a trade with the constant-product formula:
// reserveOut * effIn / (reserveIn + effIn), floor division. The result is
// always strictly less than reserveOut, so a seeded pool stays seeded.
func swapOutput(reserveIn, reserveOut, effIn uint64) (uint64, error) {
	den, err := addChecked(reserveIn, effIn)
	if err != nil {
		return 0, err
	}
	return mulDivFloor(reserveOut, effIn, den)
}

// ratioMatches checks a follow-up deposit against the pool ratio within an
// integer-rounding tolerance of one unit: amountB must be within one of
// floor(amountA * reserveB / reserveA).
func ratioMatches(reserveA, reserveB, amountA, amountB uint64) (bool, error) {
	expected, err := mulDivFloor(amountA, reserveB, reserveA)
	if err != nil {
		return false, err
	}
	var diff uint64
	if amountB > expected {
		diff = amountB - expected
	} else {
		diff = expected - amountB
	}
	return diff <= 1, nil
}
