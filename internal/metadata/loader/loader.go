// Package loader picks a metadata reader for an input path.
package loader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alia5/dummystub/internal/metadata"
	"github.com/Alia5/dummystub/internal/metadata/csdecl"
	"github.com/Alia5/dummystub/internal/metadata/gosource"
	"github.com/Alia5/dummystub/internal/metadata/manifest"
	"github.com/cockroachdb/errors"
)

// Open loads the metadata at path. Directories are scanned for .cs files
// first and Go sources second.
func Open(path string) (*metadata.Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open metadata %s", path)
	}
	if info.IsDir() {
		return openDir(path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".cs":
		return csdecl.Load(path)
	case ext == ".go":
		return gosource.Load(path)
	}
	if _, ok := manifest.FormatFromPath(path); ok {
		return manifest.Load(path)
	}

	if ext == ".dll" || ext == ".exe" || isPortableExecutable(path) {
		return nil, errors.WithHint(
			errors.Wrapf(metadata.ErrUnsupportedFormat, "%s is a compiled assembly", path),
			"decompile the dummy assembly to C# declarations (for example with ILSpy) and pass the .cs file or directory",
		)
	}
	return nil, errors.WithHint(
		errors.Wrapf(metadata.ErrUnsupportedFormat, "%s", path),
		"supported inputs: .cs, .go, .yaml, .yml, .json, .toml or a directory of .cs/.go files",
	)
}

func openDir(path string) (*metadata.Registry, error) {
	cs, err := filepath.Glob(filepath.Join(path, "*.cs"))
	if err != nil {
		return nil, errors.Wrap(err, "glob declaration sources")
	}
	if len(cs) > 0 || !hasGoFiles(path) {
		return csdecl.Load(path)
	}
	return gosource.Load(path)
}

func hasGoFiles(dir string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.go"))
	return len(matches) > 0
}

func isPortableExecutable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, 2)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	return bytes.Equal(magic, []byte("MZ"))
}
