package models

import (
	"github.com/taigrr/painter/pkg/math3d"
)

var unitCube = buildUnitCube()

// UnitCube returns a fresh copy of the cube spanning (0,0,0) to (1,1,1): 8
// vertices and 12 triangles, two per face in the order south, east, north,
// west, top, bottom.
func UnitCube() *Mesh {
	return unitCube.Clone()
}

func buildUnitCube() *Mesh {
	m := NewMesh("cube")
	m.Vertices = []math3d.Vec3{
		{X: 0, Y: 0, Z: 0}, // 0
		{X: 0, Y: 1, Z: 0}, // 1
		{X: 1, Y: 1, Z: 0}, // 2
		{X: 1, Y: 0, Z: 0}, // 3
		{X: 1, Y: 1, Z: 1}, // 4
		{X: 1, Y: 0, Z: 1}, // 5
		{X: 0, Y: 1, Z: 1}, // 6
		{X: 0, Y: 0, Z: 1}, // 7
	}
	m.Faces = []Face{
		// south (z = 0)
		{V: [3]int{0, 1, 2}},
		{V: [3]int{0, 2, 3}},
		// east (x = 1)
		{V: [3]int{3, 2, 4}},
		{V: [3]int{3, 4, 5}},
		// north (z = 1)
		{V: [3]int{5, 4, 6}},
		{V: [3]int{5, 6, 7}},
		// west (x = 0)
		{V: [3]int{7, 6, 1}},
		{V: [3]int{7, 1, 0}},
		// top (y = 1)
		{V: [3]int{1, 6, 4}},
		{V: [3]int{1, 4, 2}},
		// bottom (y = 0)
		{V: [3]int{5, 7, 0}},
		{V: [3]int{5, 0, 3}},
	}
	m.CalculateBounds()
	return m
}
