package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// CubeName selects the built-in unit cube in Open.
const CubeName = "cube"

// Open loads a mesh by name: CubeName for the built-in cube, otherwise a
// file whose extension picks the loader.
func Open(name string) (*Mesh, error) {
	if name == CubeName {
		return UnitCube(), nil
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".obj":
		return LoadOBJ(name)
	case ".glb", ".gltf":
		return LoadGLB(name)
	case ".stl":
		return LoadSTL(name)
	default:
		return nil, fmt.Errorf("%w: %q (use .obj, .glb, .gltf or .stl)", ErrUnsupportedFormat, ext)
	}
}

// OpenAll loads every name and merges them into one mesh, in order.
func OpenAll(names []string) (*Mesh, error) {
	if len(names) == 0 {
		return UnitCube(), nil
	}

	var merged *Mesh
	for _, name := range names {
		m, err := Open(name)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = m
			continue
		}
		merged.Append(m)
		merged.Name += "+" + m.Name
	}
	return merged, nil
}
