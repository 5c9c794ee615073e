package matutils_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/utils/matutils"
)

func TestDistance(t *testing.T) {
	a := mat.NewVecDense(3, []float64{0, 0, 0})
	b := mat.NewVecDense(3, []float64{3, 4, 0})

	if d := matutils.Distance(a, b); d != 5.0 {
		t.Errorf("distance = %v, want 5", d)
	}
	if d := matutils.Distance(a, a); d != 0.0 {
		t.Errorf("distance to self = %v, want 0", d)
	}
	if d := matutils.Distance(b, a); d != 5.0 {
		t.Errorf("distance should be symmetric, got %v", d)
	}
}

func TestDistanceMismatchedLengths(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("distance should panic on mismatched vector lengths")
		}
	}()

	matutils.Distance(mat.NewVecDense(3, nil), mat.NewVecDense(2, nil))
}

func TestVecClip(t *testing.T) {
	v := mat.NewVecDense(4, []float64{-2, -0.5, 0.5, 2})
	matutils.VecClip(v, -1, 1)

	want := mat.NewVecDense(4, []float64{-1, -0.5, 0.5, 1})
	for i := 0; i < v.Len(); i++ {
		if math.Abs(v.AtVec(i)-want.AtVec(i)) > 1e-12 {
			t.Errorf("component %v = %v, want %v", i, v.AtVec(i),
				want.AtVec(i))
		}
	}
}
