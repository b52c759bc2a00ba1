package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// pkgFS holds the views every trailhead app can fall back on.
//
//go:embed tmpl views
var pkgFS embed.FS

// mergeFS implements fs.FS over a stack of directories, searched in order,
// ending with the package-level embedded directory.
type mergeFS struct {
	// A cache of which directory holds a file.
	cache map[string]fs.FS
	dirs  []fs.FS
	mu    sync.RWMutex
}

func newMergeFS(dirs ...fs.FS) *mergeFS {
	stack := make([]fs.FS, 0, len(dirs)+1)
	for _, d := range dirs {
		if d != nil {
			stack = append(stack, d)
		}
	}

	return &mergeFS{
		cache: make(map[string]fs.FS),
		dirs:  append(stack, pkgFS),
	}
}

// Open opens the file matching the name using the following strategy:
//   - check the cache
//   - check each directory in order
//
// Whenever a file is found and is not present in the cache, it is added.
// Nothing removes references from the cache.
// If a file is removed from a directory during runtime,
// then a reference to it from the cache returns the same error (fs.ErrNotExist)
// as if the cache did not have that reference.
func (mfs *mergeFS) Open(name string) (fs.File, error) {
	mfs.mu.RLock()
	dir, ok := mfs.cache[name]
	mfs.mu.RUnlock()
	if ok {
		return dir.Open(name)
	}

	for _, dir := range mfs.dirs {
		file, err := dir.Open(name)
		if err == nil {
			mfs.mu.Lock()
			mfs.cache[name] = dir
			mfs.mu.Unlock()

			return file, nil
		}

		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrInvalid) {
			return nil, fmt.Errorf("unable to open template: %w", err)
		}
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
