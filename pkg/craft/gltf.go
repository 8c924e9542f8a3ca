package craft

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/voidrun/pkg/math3d"
	"github.com/taigrr/voidrun/pkg/render"
)

// defaultHull is used for primitives without a material.
var defaultHull = render.RGB(0x88, 0x99, 0xbb)

// LoadGLB loads the triangle primitives of a GLTF or GLB file. Node
// transforms are ignored; each primitive's base color factor becomes its
// triangle color.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := &Mesh{Name: filepath.Base(path)}
	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, pi, err)
			}
		}
	}
	if len(mesh.Tris) == 0 {
		return nil, fmt.Errorf("%s: no triangle primitives", mesh.Name)
	}
	return mesh, nil
}

// LoadSprite loads a model and bakes it at the chase pitch.
func LoadSprite(path string) (*Sprite, error) {
	mesh, err := LoadGLB(path)
	if err != nil {
		return nil, err
	}
	return mesh.Bake(ChasePitch), nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for k := range indices {
			indices[k] = uint32(k)
		}
	}

	color := defaultHull
	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		if pbr := doc.Materials[*prim.Material].PBRMetallicRoughness; pbr != nil {
			f := pbr.BaseColorFactorOrDefault()
			color = render.RGBA(render.Clamp8(f[0]*255), render.Clamp8(f[1]*255), render.Clamp8(f[2]*255), render.Clamp8(f[3]*255))
		}
	}

	base := len(mesh.Positions)
	for _, p := range positions {
		mesh.Positions = append(mesh.Positions, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
	}
	for k := 0; k+2 < len(indices); k += 3 {
		a, b, c := int(indices[k]), int(indices[k+1]), int(indices[k+2])
		if a >= len(positions) || b >= len(positions) || c >= len(positions) {
			return fmt.Errorf("index out of range at triangle %d", k/3)
		}
		mesh.AddTriangle(base+a, base+b, base+c, color)
	}
	return nil
}
