package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := RotateY(0.5).Mul(Translate(V3(1, 2, 3)))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4MulVec3(b *testing.B) {
	m := RotateY(0.5).Mul(Translate(V3(1, 2, 3)))
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec3(v)
	}
}

func BenchmarkQuickInverse(b *testing.B) {
	cam := PointAt(V3(1, 2, 3), V3(0, 0, 10), Up())

	for b.Loop() {
		_ = cam.QuickInverse()
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkIntersectPlane(b *testing.B) {
	p := V3(0, 0, 0.1)
	n := V3(0, 0, 1)
	start := V3(1, 1, 5)
	end := V3(-1, 2, -5)

	for b.Loop() {
		_, _ = IntersectPlane(p, n, start, end)
	}
}

func BenchmarkViewProjection(b *testing.B) {
	// Same composition the pipeline performs once per frame
	view := PointAt(V3(0, 0, -10), V3(0, 0, 0), Up()).QuickInverse()
	proj := Projection(90.0, 0.5625, 0.1, 1000.0)

	for b.Loop() {
		_ = view.Mul(proj)
	}
}
