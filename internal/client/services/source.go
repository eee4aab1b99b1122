package services

import (
	"io"
	"os"
	"path/filepath"
)

// ImageSource is a readable byte stream chosen by the user.
type ImageSource interface {
	Open() (io.ReadCloser, error)
	Name() string
}

// FileSource reads an image from the local filesystem.
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

func (f FileSource) Name() string { return filepath.Base(string(f)) }
