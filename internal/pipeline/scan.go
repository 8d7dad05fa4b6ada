package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Extension sets for the first-match folder scans. Matching is
// case-insensitive.
var (
	VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".wmv", ".flv"}
	ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}
)

// FirstMatch returns the lexicographically first regular file in dir whose
// extension is in exts, or "" when none matches. Sorting by name makes the
// pick independent of filesystem enumeration order.
func FirstMatch(dir string, exts []string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if slices.Contains(exts, ext) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	slices.Sort(names)
	return filepath.Join(dir, names[0]), nil
}

// ClearDir empties dir, recreating it so the pipeline starts from a clean
// staging area.
func ClearDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, "clearing %s", dir)
	}
	return errors.Wrapf(os.MkdirAll(dir, 0755), "recreating %s", dir)
}
