package component

import (
	"fmt"
	"io/fs"
)

// A Source is the backing store components are found in.
type Source interface {
	Exists(fp string) bool
	Load(fp string) error
}

// FSSource implements Source over an fs.FS.
// Load reads the file and hands its contents to OnLoad, if set.
type FSSource struct {
	FS     fs.FS
	OnLoad func(fp string, b []byte) error
}

// Exists reports whether fp names a regular file in s.FS.
func (s FSSource) Exists(fp string) bool {
	if s.FS == nil {
		return false
	}

	info, err := fs.Stat(s.FS, fp)
	return err == nil && !info.IsDir()
}

// Load reads fp from s.FS.
func (s FSSource) Load(fp string) error {
	b, err := fs.ReadFile(s.FS, fp)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, err)
	}

	if s.OnLoad == nil {
		return nil
	}

	return s.OnLoad(fp, b)
}
