package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/source"
)

type sceneJSON struct {
	ActiveObject string         `json:"active_object"`
	BaseDir      string         `json:"base_dir,omitempty"`
	Objects      []objectJSON   `json:"objects"`
	Materials    []materialJSON `json:"materials"`
}

type objectJSON struct {
	Name           string `json:"name"`
	ActiveMaterial string `json:"active_material,omitempty"`
}

type materialJSON struct {
	Name     string     `json:"name"`
	UseNodes bool       `json:"use_nodes"`
	Nodes    []nodeJSON `json:"nodes"`
	Links    []linkJSON `json:"links"`
}

type nodeJSON struct {
	Type    string         `json:"type"`
	Name    string         `json:"name"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Inputs  []socketJSON   `json:"inputs"`
	Outputs []socketJSON   `json:"outputs"`
	Image   *imageJSON     `json:"image,omitempty"`
	Ramp    *rampJSON      `json:"color_ramp,omitempty"`
}

type socketJSON struct {
	Identifier string          `json:"identifier,omitempty"`
	Name       string          `json:"name"`
	Default    json.RawMessage `json:"default,omitempty"`
	Enabled    *bool           `json:"enabled,omitempty"`
	Hidden     bool            `json:"hidden,omitempty"`
}

type imageJSON struct {
	Name       string `json:"name"`
	FilePath   string `json:"filepath"`
	ColorSpace string `json:"colorspace,omitempty"`
}

type rampJSON struct {
	Interpolation string `json:"interpolation"`
	Elements      []struct {
		Position float64    `json:"position"`
		Color    [4]float64 `json:"color"`
	} `json:"elements"`
}

type linkJSON struct {
	FromNode   string `json:"from_node"`
	FromSocket int    `json:"from_socket"`
	ToNode     string `json:"to_node"`
	ToSocket   int    `json:"to_socket"`
}

type taggedValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// Read decodes a scene snapshot from r. Relative image paths starting with
// "//" resolve against baseDir unless the snapshot names its own base_dir.
func Read(r io.Reader, baseDir string) (*Scene, error) {
	var sj sceneJSON
	if err := json.NewDecoder(r).Decode(&sj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene snapshot")
	}
	if sj.BaseDir != "" {
		baseDir = sj.BaseDir
	}

	materials := make(map[string]*Material, len(sj.Materials))
	for _, mj := range sj.Materials {
		m, err := buildMaterial(mj, baseDir)
		if err != nil {
			return nil, err
		}
		materials[mj.Name] = m
	}

	scene := &Scene{}
	for _, oj := range sj.Objects {
		obj := &Object{ObjectName: oj.Name}
		if oj.ActiveMaterial != "" {
			m, ok := materials[oj.ActiveMaterial]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidScene, "object %q references unknown material %q", oj.Name, oj.ActiveMaterial)
			}
			obj.Material = m
		}
		scene.Objects = append(scene.Objects, obj)
		if oj.Name == sj.ActiveObject {
			scene.Active = obj
		}
	}
	return scene, nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "open scene snapshot")
	}
	defer f.Close()
	return Read(f, filepath.Dir(path))
}

func buildMaterial(mj materialJSON, baseDir string) (*Material, error) {
	m := &Material{MaterialName: mj.Name, UseNodesFlag: mj.UseNodes}
	byName := make(map[string]*Node, len(mj.Nodes))

	for _, nj := range mj.Nodes {
		n := &Node{NodeType: nj.Type, NodeName: nj.Name, Attrs: nj.Attrs}
		var err error
		if n.In, err = buildSockets(nj.Inputs); err != nil {
			return nil, fmt.Errorf("node %q inputs: %w", nj.Name, err)
		}
		if n.Out, err = buildSockets(nj.Outputs); err != nil {
			return nil, fmt.Errorf("node %q outputs: %w", nj.Name, err)
		}
		if nj.Image != nil {
			n.Img = &Image{
				ImageName:  nj.Image.Name,
				Path:       nj.Image.FilePath,
				Resolved:   resolvePath(nj.Image.FilePath, baseDir),
				Colorspace: nj.Image.ColorSpace,
			}
		}
		if nj.Ramp != nil {
			n.Ramp = &Ramp{Mode: nj.Ramp.Interpolation}
			for _, el := range nj.Ramp.Elements {
				n.Ramp.Points = append(n.Ramp.Points, source.RampElement{Position: el.Position, Color: el.Color})
			}
		}
		m.NodeList = append(m.NodeList, n)
		byName[nj.Name] = n
	}

	for _, lj := range mj.Links {
		src, dst := byName[lj.FromNode], byName[lj.ToNode]
		if src == nil || dst == nil {
			return nil, errors.New(errors.ErrCodeInvalidScene, "link %s -> %s references unknown node", lj.FromNode, lj.ToNode)
		}
		if lj.FromSocket < 0 || lj.FromSocket >= len(src.Out) || lj.ToSocket < 0 || lj.ToSocket >= len(dst.In) {
			return nil, errors.New(errors.ErrCodeInvalidScene, "link %s -> %s socket index out of range", lj.FromNode, lj.ToNode)
		}
		m.Connect(src, lj.FromSocket, dst, lj.ToSocket)
	}
	return m, nil
}

func buildSockets(in []socketJSON) ([]source.Socket, error) {
	out := make([]source.Socket, len(in))
	seen := make(map[string]int, len(in))
	for i, sj := range in {
		id := sj.Identifier
		if id == "" {
			id = sj.Name
			if c := seen[sj.Name]; c > 0 {
				id = fmt.Sprintf("%s_%03d", sj.Name, c)
			}
			seen[sj.Name]++
		}
		s := source.Socket{
			Identifier: id,
			Name:       sj.Name,
			Hidden:     sj.Hidden,
			Disabled:   sj.Enabled != nil && !*sj.Enabled,
		}
		if len(sj.Default) > 0 && string(sj.Default) != "null" {
			v, err := decodeDefault(sj.Default)
			if err != nil {
				return nil, fmt.Errorf("socket %q: %w", sj.Name, err)
			}
			s.Default, s.HasDefault = v, true
		}
		out[i] = s
	}
	return out, nil
}

func decodeDefault(raw json.RawMessage) (any, error) {
	var tv taggedValue
	if err := json.Unmarshal(raw, &tv); err == nil && tv.Kind != "" {
		return decodeTagged(tv)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeTagged(tv taggedValue) (any, error) {
	switch strings.ToLower(tv.Kind) {
	case "float":
		var f float64
		err := json.Unmarshal(tv.Value, &f)
		return f, err
	case "int":
		var i int
		err := json.Unmarshal(tv.Value, &i)
		return i, err
	case "bool":
		var b bool
		err := json.Unmarshal(tv.Value, &b)
		return b, err
	case "vector":
		var v []float64
		err := json.Unmarshal(tv.Value, &v)
		return source.Vector(v), err
	case "color":
		var c []float64
		err := json.Unmarshal(tv.Value, &c)
		return source.Color(c), err
	case "euler":
		var e source.Euler
		err := json.Unmarshal(tv.Value, &e)
		return e, err
	case "string":
		var s string
		err := json.Unmarshal(tv.Value, &s)
		return s, err
	default:
		return nil, fmt.Errorf("unknown default kind %q", tv.Kind)
	}
}

// resolvePath mirrors the host's "//" project-relative path convention.
func resolvePath(p, baseDir string) string {
	if rest, ok := strings.CutPrefix(p, "//"); ok {
		return filepath.Join(baseDir, filepath.FromSlash(rest))
	}
	if !filepath.IsAbs(p) && baseDir != "" && p != "" {
		return filepath.Join(baseDir, p)
	}
	return p
}

// FileHost is a [source.Host] backed by a snapshot file that is re-read on
// every ActiveObject call.
type FileHost struct {
	Path string

	mu   sync.Mutex
	last *Scene
}

// NewFileHost creates a host reading the snapshot at path.
func NewFileHost(path string) *FileHost {
	return &FileHost{Path: path}
}

// ActiveObject reloads the snapshot and returns its active object.
func (h *FileHost) ActiveObject() (source.Object, error) {
	scene, err := ReadFile(h.Path)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.last = scene
	h.mu.Unlock()
	return scene.ActiveObject()
}

// Last returns the most recently loaded scene, or nil.
func (h *FileHost) Last() *Scene {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}
