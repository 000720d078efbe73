// SPDX-License-Identifier: MIT

package sphdec_test

import (
	"fmt"

	"github.com/Make1205/SDA-DGS/matrix"
	"github.com/Make1205/SDA-DGS/sphdec"
)

// ExampleSolve finds the shortest vector of a skewed two-dimensional lattice.
func ExampleSolve() {
	b, _ := matrix.NewDenseFrom([][]float64{{5, 3}, {0, 1}})
	res, err := sphdec.Solve(b)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("norm²=%.0f improvements>0: %v\n", res.NormSq, res.Improvements > 0)
	// Output: norm²=5 improvements>0: true
}
