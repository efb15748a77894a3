package io

import (
	"io"
	"os"
	"path/filepath"
)

// CreateFS defines a file system interface that supports creating files.
// It complements fs.FS with the write capability needed to save images.
type CreateFS interface {
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

// Create creates or truncates the named file under the directory.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	osfile, err := os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
	if err != nil {
		return
	}

	file = osfile
	return
}
