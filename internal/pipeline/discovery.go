package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/postforge/internal/errors"
)

// DiscoverSources walks dir and reads every file whose extension is in
// extensions. Dotfiles and dot-directories are skipped. The returned sources
// are in walk order (lexical by path).
func DiscoverSources(dir string, extensions []string) ([]Source, error) {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	var sources []Source
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return ferrors.ReadFailed(path, err)
		}
		sources = append(sources, Source{Name: path, Content: content})
		return nil
	})
	if err != nil {
		if _, ok := err.(*ferrors.ForgeError); ok {
			return nil, err
		}
		return nil, ferrors.ReadFailed(dir, err)
	}
	return sources, nil
}

// IsSource reports whether path looks like a post source for the configured
// extensions. Watch mode uses this to filter file events.
func IsSource(path string, extensions []string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
