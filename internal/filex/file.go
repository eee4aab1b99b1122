// Package filex contains small filesystem helpers used by the client's
// local storage.
package filex

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubdDir creates dirName under base (or under the current working
// directory when base is empty) and returns its absolute path.
func EnsureSubdDir(base, dirName string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir, err := filepath.Abs(filepath.Join(base, dirName))
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dirName, err)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// CopyToFile streams src into a newly created file at dst. The file must not
// exist yet. On any failure the partially written file is removed.
func CopyToFile(dst string, src io.Reader) (n int64, err error) {
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	n, err = io.Copy(f, src)
	if err != nil {
		return n, fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err = f.Sync(); err != nil {
		return n, fmt.Errorf("sync %s: %w", dst, err)
	}
	return n, nil
}

// FileURI renders an absolute path as a file:// URI.
func FileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// PathFromURI is the inverse of FileURI.
func PathFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", errors.New("not a file uri")
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(u.Path), nil
}
