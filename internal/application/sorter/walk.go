package sorter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	domain "darion/internal/domain/sorter"
)

// sniffLen is how much content http.DetectContentType looks at
const sniffLen = 512

type walker struct {
	fs    afero.Fs
	table *domain.Table
	req   domain.SortRequest

	entries  []domain.FileEntry
	failures []domain.Failure
}

// walk collects every regular file under the source directory in lexical
// order. Only an unreadable source directory is fatal.
func (w *walker) walk(ctx context.Context) ([]domain.FileEntry, []domain.Failure, error) {
	infos, err := afero.ReadDir(w.fs, w.req.SourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrTraversal, err)
	}
	if err := w.visit(ctx, w.req.SourceDir, infos); err != nil {
		return nil, nil, err
	}
	return w.entries, w.failures, nil
}

func (w *walker) visit(ctx context.Context, dir string, infos []os.FileInfo) error {
	for _, info := range infos {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, info.Name())
		mode := info.Mode()

		switch {
		case mode.IsDir():
			if !w.req.Recursive || path == w.req.DestDir {
				continue
			}
			children, err := afero.ReadDir(w.fs, path)
			if err != nil {
				w.fail(path, domain.ReasonIOError, err.Error())
				continue
			}
			if err := w.visit(ctx, path, children); err != nil {
				return err
			}
		case mode.IsRegular():
			w.entries = append(w.entries, w.entry(path, info))
		default:
			w.fail(path, domain.ReasonUnsupportedFileType, describeMode(mode))
		}
	}
	return nil
}

func (w *walker) entry(path string, info os.FileInfo) domain.FileEntry {
	e := domain.FileEntry{
		Path:    path,
		Name:    info.Name(),
		Ext:     strings.ToLower(filepath.Ext(info.Name())),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if w.req.Criterion == domain.CriterionType && e.Size > 0 {
		if _, known := w.table.TypeOf(e.Ext); !known {
			e.MIME = w.sniff(path)
		}
	}
	return e
}

// sniff guesses the content type of files whose extension is not in the
// table. Errors leave the type empty and the file falls back to "other".
func (w *walker) sniff(path string) string {
	f, err := w.fs.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return ""
	}
	if n == 0 {
		return ""
	}
	return http.DetectContentType(buf[:n])
}

func (w *walker) fail(path string, reason domain.FailureReason, detail string) {
	w.failures = append(w.failures, domain.Failure{Path: path, Reason: reason, Detail: detail})
}

func describeMode(mode os.FileMode) string {
	switch {
	case mode&os.ModeSymlink != 0:
		return "symbolic link"
	case mode&os.ModeNamedPipe != 0:
		return "named pipe"
	case mode&os.ModeSocket != 0:
		return "socket"
	case mode&os.ModeDevice != 0:
		return "device"
	default:
		return "special file"
	}
}
