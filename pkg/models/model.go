// Package models describes immutable wireframe geometry: vertex positions,
// the indices that connect them and the primitive used to draw them.
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/wiretty/pkg/math3d"
)

// Primitive selects how a Model's indices are read.
type Primitive int

const (
	// Points draws every indexed vertex on its own.
	Points Primitive = iota
	// Lines reads indices in pairs; each pair is one segment.
	Lines
	// Triangles reads indices in triples and draws the three edges.
	Triangles
)

var primitiveNames = [...]string{"points", "lines", "triangles"}

func (p Primitive) String() string {
	if p < 0 || int(p) >= len(primitiveNames) {
		return fmt.Sprintf("Primitive(%d)", int(p))
	}
	return primitiveNames[p]
}

// ParsePrimitive parses "points", "lines" or "triangles" (any case).
func ParsePrimitive(s string) (Primitive, error) {
	for i, name := range primitiveNames {
		if strings.EqualFold(s, name) {
			return Primitive(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPrimitive, s)
}

// Configuration errors. A model that fails with one of these must not be drawn.
var (
	ErrUnknownPrimitive = errors.New("unknown primitive")
	ErrIndexCount       = errors.New("index count does not match primitive")
	ErrIndexRange       = errors.New("index out of range")
)

// Model is an immutable indexed mesh. Build one with New; the zero value is
// an empty point set. A Model may be shared by any number of scene objects.
type Model struct {
	name     string
	vertices []math3d.Vec3
	indices  []int
	prim     Primitive
	min, max math3d.Vec3
}

// New validates and builds a model. The vertex and index slices are copied,
// so later changes by the caller do not affect the model.
func New(vertices []math3d.Vec3, indices []int, prim Primitive) (*Model, error) {
	m := &Model{
		vertices: append([]math3d.Vec3(nil), vertices...),
		indices:  append([]int(nil), indices...),
		prim:     prim,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	for i, idx := range m.indices {
		if idx < 0 || idx >= len(m.vertices) {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices", ErrIndexRange, idx, i, len(m.vertices))
		}
	}
	m.computeBounds()
	return m, nil
}

// MustNew is like New but panics on error. It is meant for literal geometry.
func MustNew(vertices []math3d.Vec3, indices []int, prim Primitive) *Model {
	m, err := New(vertices, indices, prim)
	if err != nil {
		panic(fmt.Sprintf("models: %v", err))
	}
	return m
}

// Validate checks the primitive tag against the index count.
func (m *Model) Validate() error {
	n := len(m.indices)
	switch m.prim {
	case Points:
		return nil
	case Lines:
		if n%2 != 0 {
			return fmt.Errorf("%w: %s needs an even index count, got %d", ErrIndexCount, m.prim, n)
		}
		return nil
	case Triangles:
		if n%3 != 0 {
			return fmt.Errorf("%w: %s needs a multiple of three indices, got %d", ErrIndexCount, m.prim, n)
		}
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnknownPrimitive, m.prim)
}

func (m *Model) computeBounds() {
	if len(m.vertices) == 0 {
		return
	}
	m.min, m.max = m.vertices[0], m.vertices[0]
	for _, v := range m.vertices[1:] {
		m.min = m.min.Min(v)
		m.max = m.max.Max(v)
	}
}

// Named returns a copy of the model carrying a display name. Geometry is
// shared, not copied.
func (m *Model) Named(name string) *Model {
	c := *m
	c.name = name
	return &c
}

// AsPrimitive returns a copy of the model that reads the same indices with
// a different primitive. The result is not validated: a Lines view of a
// point set with an odd index count fails Validate and will be refused by
// the renderer.
func (m *Model) AsPrimitive(p Primitive) *Model {
	c := *m
	c.prim = p
	return &c
}

// Name returns the display name, possibly empty.
func (m *Model) Name() string { return m.name }

// Primitive returns the primitive tag.
func (m *Model) Primitive() Primitive { return m.prim }

// VertexCount returns the number of vertices.
func (m *Model) VertexCount() int { return len(m.vertices) }

// Vertex returns vertex i. It panics if i is out of range.
func (m *Model) Vertex(i int) math3d.Vec3 { return m.vertices[i] }

// IndexCount returns the number of indices.
func (m *Model) IndexCount() int { return len(m.indices) }

// Index returns index i. It panics if i is out of range.
func (m *Model) Index(i int) int { return m.indices[i] }

// Bounds returns the local-space bounding box. An empty model reports the origin.
func (m *Model) Bounds() (min, max math3d.Vec3) { return m.min, m.max }

// Center returns the center of the bounding box.
func (m *Model) Center() math3d.Vec3 { return m.min.Add(m.max).Scale(0.5) }

// Size returns the dimensions of the bounding box.
func (m *Model) Size() math3d.Vec3 { return m.max.Sub(m.min) }

// EdgeCount returns the number of segments the model draws.
func (m *Model) EdgeCount() int {
	switch m.prim {
	case Lines:
		return len(m.indices) / 2
	case Triangles:
		return len(m.indices) / 3 * 3
	}
	return 0
}

func (m *Model) String() string {
	name := m.name
	if name == "" {
		name = "model"
	}
	return fmt.Sprintf("%s (%d vertices, %d indices, %s)", name, len(m.vertices), len(m.indices), m.prim)
}
