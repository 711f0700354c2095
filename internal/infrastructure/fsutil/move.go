// Package fsutil holds filesystem helpers shared by the sort engine.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// Move relocates src to dst. It renames when possible and falls back to
// copy-then-delete when src and dst live on different devices. dst must
// not exist; the parent directory is created if needed. An existing dst
// fails with an error matching os.ErrExist.
//
// Rename replaces its target on POSIX, so the existence check narrows but
// cannot close the window in which a writer that does not hold the
// destination lock creates dst between the check and the rename.
func Move(fs afero.Fs, src, dst string) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if _, err := fs.Stat(dst); err == nil {
		return &os.PathError{Op: "move", Path: dst, Err: os.ErrExist}
	} else if !os.IsNotExist(err) {
		return err
	}

	err := fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}
	return copyThenRemove(fs, src, dst)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func copyThenRemove(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fs.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		fs.Remove(dst)
		return err
	}

	// best effort; the copy is still valid without the original mtime
	_ = fs.Chtimes(dst, info.ModTime(), info.ModTime())

	if err := fs.Remove(src); err != nil {
		fs.Remove(dst)
		return err
	}
	return nil
}

// UniqueName returns name when it is free according to taken, otherwise
// the first free "base_N.ext" for N in 1..max.
func UniqueName(name string, max int, taken func(candidate string) (bool, error)) (string, error) {
	used, err := taken(name)
	if err != nil {
		return "", err
	}
	if !used {
		return name, nil
	}

	ext := filepath.Ext(name)
	base := name[:len(name)-len(ext)]
	if base == "" {
		// dotfiles keep their name as the base: ".env" -> ".env_1"
		base, ext = name, ""
	}
	for i := 1; i <= max; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		used, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
	}
	return "", ErrNoFreeName
}

// ErrNoFreeName is returned by UniqueName when every suffix is taken.
var ErrNoFreeName = errors.New("cannot resolve unique name")
