// SPDX-License-Identifier: MIT

package sphdec_test

import (
	"testing"

	"github.com/Make1205/SDA-DGS/sphdec"
)

func BenchmarkSolve12(b *testing.B) {
	basis := benchBasis(b, 12)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sphdec.Solve(basis); err != nil {
			b.Fatal(err)
		}
	}
}
