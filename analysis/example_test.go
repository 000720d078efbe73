// SPDX-License-Identifier: MIT

package analysis_test

import (
	"fmt"
	"math/big"

	"github.com/Make1205/SDA-DGS/analysis"
)

// ExampleFixedPoint quantises a two-entry table to quarters.
func ExampleFixedPoint() {
	p := []*big.Float{big.NewFloat(0.3), big.NewFloat(0.7)}
	for _, round := range []bool{false, true} {
		q := analysis.FixedPoint(p, 2, round)
		fmt.Println(q[0].Text('g', 3), q[1].Text('g', 3))
	}
	// Output:
	// 0.25 0.5
	// 0.25 0.75
}
