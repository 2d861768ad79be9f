package model

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"synthdet/internal/mathutil"
)

// LoadOBJ reads a Wavefront OBJ file. Polygons are fan-triangulated and
// each "o"/"g" statement starts a new mesh. Materials are ignored.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: open %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := ParseOBJ(f, name)
	if err != nil {
		return nil, fmt.Errorf("obj: %s: %w", path, err)
	}
	return m, nil
}

// objBuilder remaps file-global vertex/uv indices into per-mesh arrays.
type objBuilder struct {
	verts []mathutil.Vec3
	uvs   [][2]float64

	model *Model
	cur   *Mesh
	vmap  map[int]int
	tmap  map[int]int
}

func (b *objBuilder) startMesh(name string) {
	if b.cur != nil && len(b.cur.Tris) > 0 {
		b.model.Meshes = append(b.model.Meshes, *b.cur)
	}
	b.cur = &Mesh{Name: name, Color: woodColor}
	b.vmap = make(map[int]int)
	b.tmap = make(map[int]int)
}

func (b *objBuilder) finish() *Model {
	if b.cur != nil && len(b.cur.Tris) > 0 {
		b.model.Meshes = append(b.model.Meshes, *b.cur)
	}
	return b.model
}

// ParseOBJ parses OBJ text from r.
func ParseOBJ(r io.Reader, name string) (*Model, error) {
	b := &objBuilder{model: &Model{Name: name}}
	b.startMesh(name)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", line, err)
			}
			b.verts = append(b.verts, mathutil.Vec3{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", line, err)
			}
			b.uvs = append(b.uvs, [2]float64{v[0], v[1]})
		case "o", "g":
			meshName := name
			if len(fields) > 1 {
				meshName = strings.Join(fields[1:], " ")
			}
			b.startMesh(meshName)
		case "f":
			if err := b.face(fields[1:]); err != nil {
				return nil, fmt.Errorf("line %d: face: %w", line, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	m := b.finish()
	if len(m.Meshes) == 0 {
		return nil, fmt.Errorf("no faces")
	}
	return m, nil
}

func (b *objBuilder) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("need at least 3 vertices, got %d", len(refs))
	}
	vi := make([]int, len(refs))
	ti := make([]int, len(refs))
	for i, ref := range refs {
		parts := strings.Split(ref, "/")
		v, err := resolveIndex(parts[0], len(b.verts))
		if err != nil {
			return err
		}
		vi[i] = b.localVert(v)

		ti[i] = -1
		if len(parts) > 1 && parts[1] != "" {
			t, err := resolveIndex(parts[1], len(b.uvs))
			if err != nil {
				return err
			}
			ti[i] = b.localUV(t)
		}
	}

	for k := 1; k+1 < len(vi); k++ {
		tri := Triangle{
			VI: [3]int{vi[0], vi[k], vi[k+1]},
			TI: [3]int{ti[0], ti[k], ti[k+1]},
		}
		if tri.TI[0] < 0 || tri.TI[1] < 0 || tri.TI[2] < 0 {
			tri.TI = [3]int{-1, -1, -1}
		}
		b.cur.Tris = append(b.cur.Tris, tri)
	}
	return nil
}

func (b *objBuilder) localVert(global int) int {
	if l, ok := b.vmap[global]; ok {
		return l
	}
	l := len(b.cur.Verts)
	b.cur.Verts = append(b.cur.Verts, b.verts[global])
	b.vmap[global] = l
	return l
}

func (b *objBuilder) localUV(global int) int {
	if l, ok := b.tmap[global]; ok {
		return l
	}
	l := len(b.cur.UVs)
	b.cur.UVs = append(b.cur.UVs, b.uvs[global])
	b.tmap[global] = l
	return l
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	if i < 0 {
		i = n + i
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (have %d)", s, n)
	}
	return i, nil
}

func parseFloats(fields []string, want int) ([]float64, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("need %d values, got %d", want, len(fields))
	}
	out := make([]float64, want)
	for i := 0; i < want; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", fields[i])
		}
		out[i] = f
	}
	return out, nil
}
