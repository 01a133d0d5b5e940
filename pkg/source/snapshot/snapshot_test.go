package snapshot

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/source"
)

const imageScene = `{
  "active_object": "Cube",
  "objects": [{"name": "Cube", "active_material": "Wood"}],
  "materials": [{
    "name": "Wood",
    "use_nodes": true,
    "nodes": [
      {
        "type": "ShaderNodeTexImage",
        "name": "Image Texture",
        "attrs": {"interpolation": "Closest", "projection_blend": 0.25},
        "image": {"name": "wood", "filepath": "//tex/wood.png", "colorspace": "Non-Color"},
        "inputs": [{"name": "Vector"}],
        "outputs": [{"name": "Color"}, {"name": "Alpha"}]
      },
      {
        "type": "ShaderNodeMapping",
        "name": "Mapping",
        "inputs": [
          {"name": "Vector"},
          {"name": "Rotation", "default": {"kind": "euler", "value": [0, 1.5, 0]}},
          {"name": "Scale", "default": {"kind": "vector", "value": [1, 1, 1]}}
        ],
        "outputs": [{"name": "Vector"}]
      },
      {
        "type": "ShaderNodeValToRGB",
        "name": "Color Ramp",
        "color_ramp": {
          "interpolation": "EASE",
          "elements": [
            {"position": 0, "color": [0, 0, 0, 1]},
            {"position": 1, "color": [1, 1, 1, 1]}
          ]
        },
        "inputs": [{"name": "Fac", "default": 0.5}],
        "outputs": [{"name": "Color"}, {"name": "Alpha"}]
      }
    ],
    "links": [{"from_node": "Mapping", "from_socket": 0, "to_node": "Image Texture", "to_socket": 0}]
  }]
}`

func TestRead(t *testing.T) {
	scene, err := Read(strings.NewReader(imageScene), "/projects/scene")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	obj, err := scene.ActiveObject()
	if err != nil || obj == nil {
		t.Fatalf("ActiveObject = %v, %v", obj, err)
	}
	mat := obj.ActiveMaterial()
	if mat.Name() != "Wood" || !mat.UseNodes() {
		t.Fatalf("material = %q use_nodes=%v", mat.Name(), mat.UseNodes())
	}

	nodes := mat.Tree().Nodes()
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}

	img := nodes[0].(source.ImageNode)
	if img.Interpolation() != "Closest" || img.Projection() != "FLAT" {
		t.Errorf("image attrs = %s %s", img.Interpolation(), img.Projection())
	}
	if img.ProjectionBlend() != 0.25 {
		t.Errorf("ProjectionBlend = %v", img.ProjectionBlend())
	}
	want := filepath.Join("/projects/scene", "tex", "wood.png")
	if got := img.Image().AbsPath(); got != want {
		t.Errorf("AbsPath = %q, want %q", got, want)
	}
	if img.Image().ColorSpace() != "Non-Color" {
		t.Errorf("ColorSpace = %q", img.Image().ColorSpace())
	}

	rot := nodes[1].Inputs()[1]
	if e, ok := rot.Default.(source.Euler); !ok || e[1] != 1.5 {
		t.Errorf("rotation default = %#v", rot.Default)
	}
	if _, ok := nodes[1].Inputs()[2].Default.(source.Vector); !ok {
		t.Errorf("scale default = %#v", nodes[1].Inputs()[2].Default)
	}
	if nodes[1].Inputs()[0].HasDefault {
		t.Error("unset default should not be marked present")
	}

	ramp := nodes[2].(source.ColorRampNode).ColorRamp()
	if ramp.Interpolation() != "EASE" || len(ramp.Elements()) != 2 {
		t.Errorf("ramp = %s %v", ramp.Interpolation(), ramp.Elements())
	}
	if f, ok := nodes[2].Inputs()[0].Default.(float64); !ok || f != 0.5 {
		t.Errorf("bare default = %#v", nodes[2].Inputs()[0].Default)
	}

	links := mat.Tree().Links()
	if len(links) != 1 {
		t.Fatalf("got %d links", len(links))
	}
	if !links[0].FromSocket.Linked || !links[0].ToSocket.Linked {
		t.Error("linked sockets should be marked")
	}
	if !nodes[0].Inputs()[0].Linked {
		t.Error("target node input should be marked linked")
	}
}

func TestReadDuplicateSocketNames(t *testing.T) {
	scene, err := ReadFile(filepath.Join("..", "..", "..", "examples", "scenes", "displace.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	math := scene.Active.Material.NodeList[1]
	var ids []string
	for _, s := range math.In {
		ids = append(ids, s.Identifier)
	}
	if got := strings.Join(ids, ","); got != "Value,Value_001,Value_002" {
		t.Errorf("identifiers = %s", got)
	}
	if !math.In[2].Disabled || math.In[2].Visible() {
		t.Error("disabled socket should not be visible")
	}
	if math.Operation() != "MULTIPLY" {
		t.Errorf("Operation = %q", math.Operation())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"objects": [`},
		{"unknown material", `{"objects": [{"name": "Cube", "active_material": "Nope"}]}`},
		{"unknown link node", `{"materials": [{"name": "M", "nodes": [], "links": [{"from_node": "A", "to_node": "B"}]}]}`},
		{"socket out of range", `{"materials": [{"name": "M", "nodes": [
			{"type": "ShaderNodeMath", "name": "A", "inputs": [], "outputs": [{"name": "Value"}]},
			{"type": "ShaderNodeMath", "name": "B", "inputs": [], "outputs": []}
		], "links": [{"from_node": "A", "from_socket": 0, "to_node": "B", "to_socket": 3}]}]}`},
		{"unknown default kind", `{"materials": [{"name": "M", "nodes": [
			{"type": "ShaderNodeMath", "name": "A", "inputs": [{"name": "V", "default": {"kind": "matrix", "value": 1}}]}
		]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.json), "")
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNoActiveObject(t *testing.T) {
	scene, err := Read(strings.NewReader(`{"objects": [{"name": "Cube"}]}`), "")
	if err != nil {
		t.Fatal(err)
	}
	obj, err := scene.ActiveObject()
	if err != nil || obj != nil {
		t.Errorf("ActiveObject = %v, %v; want nil", obj, err)
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		path, base, want string
	}{
		{"//tex/a.png", "/p", filepath.Join("/p", "tex", "a.png")},
		{"tex/a.png", "/p", filepath.Join("/p", "tex", "a.png")},
		{"/abs/a.png", "/p", "/abs/a.png"},
		{"tex/a.png", "", "tex/a.png"},
		{"", "/p", ""},
	}
	for _, tt := range tests {
		if got := resolvePath(tt.path, tt.base); got != tt.want {
			t.Errorf("resolvePath(%q, %q) = %q, want %q", tt.path, tt.base, got, tt.want)
		}
	}
}

func TestFileHostRereads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	write := func(name string) {
		t.Helper()
		data := `{"active_object": "Cube", "objects": [{"name": "Cube", "active_material": "` + name + `"}],
			"materials": [{"name": "` + name + `", "use_nodes": true, "nodes": []}]}`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	host := NewFileHost(path)
	if host.Last() != nil {
		t.Error("Last should be nil before the first read")
	}

	write("First")
	obj, err := host.ActiveObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj.ActiveMaterial().Name() != "First" {
		t.Errorf("material = %q", obj.ActiveMaterial().Name())
	}

	write("Second")
	obj, err = host.ActiveObject()
	if err != nil {
		t.Fatal(err)
	}
	if obj.ActiveMaterial().Name() != "Second" {
		t.Errorf("material after rewrite = %q", obj.ActiveMaterial().Name())
	}
	if host.Last() == nil {
		t.Error("Last should hold the loaded scene")
	}
}

func TestFileHostMissingFile(t *testing.T) {
	_, err := NewFileHost(filepath.Join(t.TempDir(), "missing.json")).ActiveObject()
	if !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("err = %v, want INVALID_SCENE", err)
	}
}

func TestUseNodesFlag(t *testing.T) {
	for _, want := range []bool{true, false} {
		data := `{"active_object": "Cube", "objects": [{"name": "Cube", "active_material": "M"}],
			"materials": [{"name": "M", "use_nodes": ` + strconv.FormatBool(want) + `, "nodes": []}]}`
		scene, err := Read(strings.NewReader(data), "")
		if err != nil {
			t.Fatal(err)
		}
		m := scene.Active.Material
		if m.UseNodes() != want || m.UseNodesFlag != want {
			t.Errorf("UseNodes() = %v, want %v", m.UseNodes(), want)
		}
		if len(m.Nodes()) != 0 {
			t.Errorf("Nodes() = %v", m.Nodes())
		}
	}
}
