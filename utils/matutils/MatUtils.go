// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/utils/floatutils"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// Distance computes the Euclidean distance between two vectors of
// equal length
func Distance(a, b mat.Vector) float64 {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("distance: vector lengths must match, got %v "+
			"and %v", a.Len(), b.Len()))
	}

	diff := mat.NewVecDense(a.Len(), nil)
	diff.SubVec(a, b)
	return mat.Norm(diff, 2.0)
}

// VecClip performs an element-wise clipping of a vector's values such
// that each value is at least min and at most max
func VecClip(a *mat.VecDense, min, max float64) {
	for i := 0; i < a.Len(); i++ {
		a.SetVec(i, floatutils.Clip(a.AtVec(i), min, max))
	}
}
