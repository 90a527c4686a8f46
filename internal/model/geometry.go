package model

import "golang.org/x/exp/constraints"

// IsEven reports whether n is divisible by two.
func IsEven[T constraints.Integer](n T) bool {
	return n&1 == 0
}

// IsOdd reports whether n is not divisible by two.
func IsOdd[T constraints.Integer](n T) bool {
	return !IsEven(n)
}

// Distance returns |a-b| without wrapping for unsigned operands.
func Distance[T constraints.Unsigned](a, b T) T {
	if a < b {
		return b - a
	}
	return a - b
}
