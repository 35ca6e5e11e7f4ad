package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/painter/pkg/math3d"
)

// LoadGLB loads the triangle geometry of a glTF (.gltf) or binary glTF
// (.glb) file. Every triangle primitive of every mesh is merged into one
// Mesh; other primitive modes are skipped.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := meshFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

func meshFromDocument(doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh("gltf")

	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
		}
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%w: no triangle primitives", ErrMalformed)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// appendPrimitive adds one primitive's positions and triangles to mesh.
// glTF front faces are counter-clockwise with outward cross products, which
// is the orientation the pipeline culls against, so indices keep their
// order.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	if posIdx < 0 || posIdx >= len(doc.Accessors) {
		return fmt.Errorf("%w: position accessor %d out of range", ErrMalformed, posIdx)
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	base := len(mesh.Vertices)
	for _, p := range positions {
		mesh.AddVertex(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
	}

	if prim.Indices == nil {
		// Non-indexed: consecutive vertex triples.
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.AddFace(base+i, base+i+1, base+i+2)
		}
		return nil
	}

	if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
		return fmt.Errorf("%w: index accessor %d out of range", ErrMalformed, *prim.Indices)
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return fmt.Errorf("read indices: %w", err)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.AddFace(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]))
	}
	return nil
}
