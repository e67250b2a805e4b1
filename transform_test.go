package worldmap

import (
	"math"
	"testing"
)

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- multiplyAffine ---

func TestMultiplyAffineIdentity(t *testing.T) {
	id := identityTransform
	m := [6]float64{2, 1, 3, 4, 5, 6}
	assertMatrix(t, "id*m", multiplyAffine(id, m), m)
	assertMatrix(t, "m*id", multiplyAffine(m, id), m)
}

func TestMultiplyAffineTranslations(t *testing.T) {
	a := [6]float64{1, 0, 0, 1, 10, 20}
	b := [6]float64{1, 0, 0, 1, 5, 3}
	got := multiplyAffine(a, b)
	assertMatrix(t, "translations", got, [6]float64{1, 0, 0, 1, 15, 23})
}

// --- invertAffine ---

func TestInvertAffine(t *testing.T) {
	m := containerTransform(2.5, 640, 360)
	inv := invertAffine(m)
	result := multiplyAffine(m, inv)
	assertMatrix(t, "m*inv=id", result, identityTransform)
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	m := containerTransform(0, 50, 100)
	inv := invertAffine(m)
	assertMatrix(t, "singular→identity", inv, identityTransform)
}

// --- containerTransform ---

func TestContainerTransformPoint(t *testing.T) {
	m := containerTransform(2, 100, 50)
	x, y := transformPoint(m, 10, -5)
	if !approxEqual(x, 120, epsilon) || !approxEqual(y, 40, epsilon) {
		t.Errorf("transformPoint = (%f, %f), want (120, 40)", x, y)
	}
	ix, iy := transformPoint(invertAffine(m), x, y)
	if !approxEqual(ix, 10, epsilon) || !approxEqual(iy, -5, epsilon) {
		t.Errorf("inverse = (%f, %f), want (10, -5)", ix, iy)
	}
}

func TestTransformRect(t *testing.T) {
	got := transformRect(containerTransform(3, 10, 20), Rect{X: -1, Y: -2, Width: 2, Height: 4})
	want := Rect{X: 7, Y: 14, Width: 6, Height: 12}
	if got != want {
		t.Errorf("transformRect = %v, want %v", got, want)
	}
}
