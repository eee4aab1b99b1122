package filex

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("", "images")
	require.NoError(t, err)

	want := filepath.Join(tmp, "images")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubdDir_UnderBaseAndIdempotent(t *testing.T) {
	base := t.TempDir()

	first, err := EnsureSubdDir(base, "images")
	require.NoError(t, err)
	second, err := EnsureSubdDir(base, "images")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, filepath.Join(base, "images"), first)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "images"), []byte("x"), 0o660))

	_, err := EnsureSubdDir(base, "images")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestCopyToFile_WritesContent(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.jpg")

	n, err := CopyToFile(dst, strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.EqualValues(t, len("jpeg-bytes"), n)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(b))
}

type failingReader struct{ after int }

func (r *failingReader) Read(p []byte) (int, error) {
	if r.after > 0 {
		n := copy(p, strings.Repeat("x", r.after))
		r.after = 0
		return n, nil
	}
	return 0, errors.New("permission denied")
}

func TestCopyToFile_RemovesPartialFileOnReadError(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.jpg")

	_, err := CopyToFile(dst, &failingReader{after: 4})
	require.Error(t, err)

	_, statErr := os.Stat(dst)
	require.True(t, os.IsNotExist(statErr), "partial file must be removed")
}

func TestCopyToFile_RefusesToOverwrite(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o600))

	_, err := CopyToFile(dst, io.LimitReader(strings.NewReader("new"), 3))
	require.Error(t, err)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "old", string(b), "existing file must survive")
}

func TestFileURI_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "profile_image_1.jpg")

	uri := FileURI(p)
	require.True(t, strings.HasPrefix(uri, "file://"))

	back, err := PathFromURI(uri)
	require.NoError(t, err)
	require.Equal(t, p, back)

	_, err = PathFromURI("asset://placeholder.png")
	require.Error(t, err)
}
