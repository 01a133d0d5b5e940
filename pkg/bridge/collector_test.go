package bridge

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/mainthread"
	"github.com/matzehuels/gslbridge/pkg/nodes"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/source/snapshot"
)

type hostFunc func() (source.Object, error)

func (f hostFunc) ActiveObject() (source.Object, error) { return f() }

func quiet() *log.Logger { return log.New(io.Discard) }

func scene(mat *snapshot.Material) *snapshot.Scene {
	obj := &snapshot.Object{ObjectName: "Cube", Material: mat}
	return &snapshot.Scene{Active: obj, Objects: []*snapshot.Object{obj}}
}

func mathMaterial() *snapshot.Material {
	n := &snapshot.Node{NodeType: nodes.TypeMath, NodeName: "Math",
		Attrs: map[string]any{"operation": "ADD"},
		In: []source.Socket{
			{Identifier: "Value", Name: "Value", Default: 1.0, HasDefault: true},
			{Identifier: "Value_001", Name: "Value", Default: 2.0, HasDefault: true},
			{Identifier: "Value_002", Name: "Value", Default: 0.0, HasDefault: true},
		},
		Out: []source.Socket{{Identifier: "Value", Name: "Value"}}}
	return &snapshot.Material{MaterialName: "Mat", UseNodesFlag: true, NodeList: []*snapshot.Node{n}}
}

func TestCollectErrors(t *testing.T) {
	disabled := mathMaterial()
	disabled.UseNodesFlag = false

	tests := []struct {
		name string
		host source.Host
		want string
	}{
		{"no host", nil, "bpy unavailable"},
		{"no active object", &snapshot.Scene{}, "no active object"},
		{"no material", scene(nil), "object has no active material"},
		{"nodes disabled", scene(disabled), "material.use_nodes is False"},
		{"panic", hostFunc(func() (source.Object, error) { panic("host went away") }), "host went away"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.host, nil, nil, quiet())
			p := c.Collect(context.Background())
			if p.OK() {
				t.Fatalf("Collect() returned a result, want error %q", tt.want)
			}
			if p.Error != tt.want {
				t.Errorf("error = %q, want %q", p.Error, tt.want)
			}

			data, err := ir.Marshal(p)
			if err != nil {
				t.Fatal(err)
			}
			var m map[string]any
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatal(err)
			}
			if _, ok := m["error"]; !ok || len(m) != 1 {
				t.Errorf("payload = %s, want a single error key", data)
			}
		})
	}
}

func TestGatherCodes(t *testing.T) {
	_, err := NewCollector(nil, nil, nil, quiet()).Gather(context.Background())
	if !errors.Is(err, errors.ErrCodeNoGraphAPI) {
		t.Errorf("Gather() error = %v, want NO_GRAPH_API", err)
	}
	_, err = NewCollector(&snapshot.Scene{}, nil, nil, quiet()).Gather(context.Background())
	if !errors.Is(err, errors.ErrCodeNoActiveObject) {
		t.Errorf("Gather() error = %v, want NO_ACTIVE_OBJECT", err)
	}
	panicky := hostFunc(func() (source.Object, error) { panic("x") })
	_, err = NewCollector(panicky, nil, nil, quiet()).Gather(context.Background())
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Gather() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestCollectResult(t *testing.T) {
	c := NewCollector(scene(mathMaterial()), nil, nil, quiet())
	p := c.Collect(context.Background())
	if !p.OK() {
		t.Fatalf("Collect() error payload: %q", p.Error)
	}
	if p.Result.Material != "Mat" || len(p.Result.Nodes) != 1 {
		t.Errorf("result = %+v", p.Result)
	}
	if p.Result.Nodes[0].Params["operation"] != 0 {
		t.Errorf("operation = %v", p.Result.Nodes[0].Params["operation"])
	}
}

func TestCollectOnPump(t *testing.T) {
	pump := mainthread.New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = pump.Run(ctx) }()

	c := NewCollector(scene(mathMaterial()), pump, nil, quiet())
	if p := c.Collect(context.Background()); !p.OK() {
		t.Fatalf("Collect() error payload: %q", p.Error)
	}

	// A panicking host is recovered on the pump side, not in the caller.
	c.Host = hostFunc(func() (source.Object, error) { panic("boom") })
	if p := c.Collect(context.Background()); p.Error != "boom" {
		t.Errorf("error = %q, want boom", p.Error)
	}
}

func TestCollectPumpTimeout(t *testing.T) {
	// Nobody drives the pump.
	c := NewCollector(scene(mathMaterial()), mainthread.New(10*time.Millisecond), nil, quiet())
	_, err := c.Gather(context.Background())
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Gather() error = %v, want TIMEOUT", err)
	}
}

func TestCollectDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wood.png")
	if err := os.WriteFile(src, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(dir, "project")

	img := &snapshot.Node{NodeType: nodes.TypeTexImage, NodeName: "Image Texture",
		Img: &snapshot.Image{ImageName: "wood.png", Path: src, Resolved: src},
		Out: []source.Socket{{Identifier: "Color", Name: "Color"}}}
	mat := &snapshot.Material{MaterialName: "Wood", UseNodesFlag: true, NodeList: []*snapshot.Node{img}}

	c := NewCollector(scene(mat), nil, nil, quiet())
	c.Destination = func() string { return dest }
	p := c.Collect(context.Background())
	if !p.OK() {
		t.Fatalf("Collect() error payload: %q", p.Error)
	}
	if got := p.Result.Nodes[0].Params["image_path"]; got != "res://GSL_Texture/Wood/wood.png" {
		t.Errorf("image_path = %v", got)
	}
	if _, err := os.Stat(filepath.Join(dest, "GSL_Texture", "Wood", "wood.png")); err != nil {
		t.Errorf("texture not copied: %v", err)
	}
}

func TestMessage(t *testing.T) {
	err := errors.Wrap(errors.ErrCodeInvalidScene, io.ErrUnexpectedEOF, "decode scene snapshot")
	if got := Message(err); got != "decode scene snapshot: unexpected EOF" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(io.EOF); got != "EOF" {
		t.Errorf("Message() = %q", got)
	}
}
