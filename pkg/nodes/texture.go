package nodes

import (
	"context"
	"os"
	"strings"

	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/source"
)

var mappingTypes = map[string]int{"POINT": 0, "TEXTURE": 1, "VECTOR": 2, "NORMAL": 3}

func handleMapping(_ context.Context, _ Env, n source.Node, info *ir.Node) {
	vt := "POINT"
	m, ok := n.(source.MappingNode)
	if ok {
		vt = m.VectorType()
		info.Mode = vt
	}
	info.Params["mapping_type"] = ordinal(mappingTypes, strings.ToUpper(vt), 0)
}

// =============================================================================
// Image Texture
// =============================================================================

var (
	interpolations = map[string]int{"Linear": 0, "Closest": 1, "Cubic": 2}
	projections    = map[string]int{"FLAT": 0, "BOX": 1, "SPHERE": 2, "TUBE": 3}
	extensions     = map[string]int{"REPEAT": 0, "EXTEND": 1, "CLIP": 2, "MIRROR": 3}
	alphaModes     = map[string]int{"STRAIGHT": 0, "PREMULTIPLIED": 1, "CHANNEL_PACKED": 2, "NONE": 3}
)

// colorSpace collapses every color space other than sRGB to 1.
func colorSpace(name string) int {
	if name == "" || strings.ToUpper(name) == "SRGB" {
		return 0
	}
	return 1
}

func handleImage(ctx context.Context, env Env, n source.Node, info *ir.Node) {
	p := info.Params
	in, ok := n.(source.ImageNode)
	if !ok {
		p["interpolation"] = 0
		p["projection"] = 0
		p["box_blend"] = 0.0
		p["extension"] = 0
		p["color_space"] = 0
		p["alpha_mode"] = 0
		return
	}

	p["interpolation"] = ordinal(interpolations, in.Interpolation(), 0)
	p["projection"] = ordinal(projections, in.Projection(), 0)
	p["box_blend"] = in.ProjectionBlend()
	p["extension"] = ordinal(extensions, in.Extension(), 0)
	p["alpha_mode"] = ordinal(alphaModes, in.AlphaMode(), 0)

	img := in.Image()
	cs := in.ColorSpace()
	if img != nil {
		cs = img.ColorSpace()
	}
	p["color_space"] = colorSpace(cs)

	if img == nil || img.FilePath() == "" {
		return
	}
	src := img.AbsPath()
	if env.DestDir == "" || !exists(src) {
		p["image_path"] = slashPath(src)
		return
	}

	res, err := env.copier().Copy(ctx, src, env.DestDir, env.Material)
	if err != nil {
		env.logger().Warn("failed to copy texture", "image", img.Name(), "err", err)
		if src != "" {
			p["image_path"] = slashPath(src)
		}
		return
	}
	p["image_path"] = res.Path
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func slashPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
