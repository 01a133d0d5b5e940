// Package assets copies texture files referenced by image nodes into the
// engine project.
//
// Textures land in <root>/GSL_Texture/<material>/<basename>, where material is
// the sanitized material name. The returned path is project-relative and
// prefixed with "res://" so the engine can load it regardless of where the
// project lives on disk.
//
// A copy is skipped when a destination file of the same byte size already
// exists. Content changes that preserve the size are not detected.
package assets

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/observability"
)

// TextureDirName is the project sub-directory holding copied textures.
const TextureDirName = "GSL_Texture"

// ResPrefix starts every project-relative engine path.
const ResPrefix = "res://"

// Copier copies textures into a project directory.
type Copier struct {
	Logger *log.Logger
}

// Result describes one Copy call.
type Result struct {
	// Path is the engine path ("res://...") of the destination file.
	Path string
	// Dest is the absolute destination file.
	Dest string
	// Copied is false when the copy was skipped.
	Copied bool
}

// Root returns the directory holding every material's textures.
func Root(root string) string {
	return filepath.Join(root, TextureDirName)
}

// Dir returns the texture directory for material under root.
func Dir(root, material string) string {
	return filepath.Join(Root(root), ir.Sanitize(material))
}

// Copy copies src into the texture directory of material under root.
func (c *Copier) Copy(ctx context.Context, src, root, material string) (Result, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		observability.Asset().OnTextureError(ctx, src, err)
		return Result{}, errors.Wrap(errors.ErrCodeAssetCopy, err, "stat %s", src)
	}

	dir := Dir(root, material)
	if err := os.MkdirAll(dir, 0755); err != nil {
		observability.Asset().OnTextureError(ctx, src, err)
		return Result{}, errors.Wrap(errors.ErrCodeAssetCopy, err, "create %s", dir)
	}

	dest := filepath.Join(dir, filepath.Base(src))
	res := Result{Dest: dest}

	rel, err := filepath.Rel(root, dest)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "relative path of %s", dest)
	}
	res.Path = ResPrefix + filepath.ToSlash(rel)

	if destInfo, err := os.Stat(dest); err == nil && destInfo.Size() == srcInfo.Size() {
		observability.Asset().OnTextureSkipped(ctx, src, dest)
		c.logger().Debug("texture up to date", "dest", dest)
		return res, nil
	}

	if err := copyFile(src, dest, srcInfo); err != nil {
		observability.Asset().OnTextureError(ctx, src, err)
		return Result{}, errors.Wrap(errors.ErrCodeAssetCopy, err, "copy %s", src)
	}
	res.Copied = true
	observability.Asset().OnTextureCopied(ctx, src, dest, srcInfo.Size())
	c.logger().Info("copied texture", "dest", dest)
	return res, nil
}

func (c *Copier) logger() *log.Logger {
	if c == nil || c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// copyFile copies data, mode and modification time.
func copyFile(src, dest string, info os.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".copy-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chtimes(tmpName, info.ModTime(), info.ModTime()); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}

// Clear removes every copied texture under root and returns the number of
// files deleted. A missing texture directory is not an error.
func Clear(root string) (int, error) {
	dir := Root(root)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}

	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			if err := os.Remove(path); err == nil {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, os.RemoveAll(dir)
}

// List returns the copied texture files under root, relative to root and
// slash-separated.
func List(root string) ([]string, error) {
	dir := Root(root)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}
