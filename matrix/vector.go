// SPDX-License-Identifier: MIT

package matrix

import "golang.org/x/exp/constraints"

// Dot returns Σ a[i]*b[i] over the common prefix of a and b.
// Fixed i order keeps results reproducible across runs.
func Dot[T constraints.Float](a, b []T) T {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var acc T
	for i := 0; i < n; i++ {
		acc += a[i] * b[i]
	}

	return acc
}

// SquaredNorm returns Σ x[i]².
func SquaredNorm[T constraints.Float](x []T) T {
	return Dot(x, x)
}
