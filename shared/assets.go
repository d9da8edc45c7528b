package shared

import (
	"io/fs"
	"strings"

	"github.com/pkg/errors"
)

// ReadAsset returns the content of name in fsys.
func ReadAsset(fsys fs.FS, name string) ([]byte, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "asset %s", name)
	}
	return b, nil
}

// ReadAssets returns the named files of fsys joined by newlines, in order.
func ReadAssets(fsys fs.FS, names ...string) (string, error) {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		b, err := ReadAsset(fsys, name)
		if err != nil {
			return "", err
		}
		parts = append(parts, string(b))
	}
	return strings.Join(parts, "\n"), nil
}
