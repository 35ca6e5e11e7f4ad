package models

import (
	"fmt"
	"path/filepath"

	"github.com/hschendel/stl"

	"github.com/taigrr/painter/pkg/math3d"
)

// LoadSTL loads an ASCII or binary STL file. STL stores unshared
// triangles, so each one gets its own three vertices. Facets follow the
// right-hand rule around their outward normal and keep their order.
func LoadSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	if len(solid.Triangles) == 0 {
		return nil, fmt.Errorf("load %s: %w: no facets", filepath.Base(path), ErrMalformed)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, t := range solid.Triangles {
		i0 := mesh.AddVertex(stlVec(t.Vertices[0]))
		i1 := mesh.AddVertex(stlVec(t.Vertices[1]))
		i2 := mesh.AddVertex(stlVec(t.Vertices[2]))
		mesh.AddFace(i0, i1, i2)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func stlVec(v stl.Vec3) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
