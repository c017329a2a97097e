package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sheetDeck/internal/errs"
	"sheetDeck/internal/fields"
	"sheetDeck/internal/logger"
)

// Document is anything that serializes itself as a pptx package.
type Document interface {
	Save(w io.Writer) error
}

// Writer persists one document per record under a base directory.
type Writer struct {
	base            string
	naming          Naming
	failOnCollision bool
	written         map[string]int
}

type Options struct {
	Naming Naming
	// FailOnCollision turns a second write to the same file within one
	// batch into a WriteError. By default later writes overwrite earlier ones.
	FailOnCollision bool
}

func NewWriter(base string, opts Options) *Writer {
	return &Writer{
		base:            base,
		naming:          opts.Naming,
		failOnCollision: opts.FailOnCollision,
		written:         make(map[string]int),
	}
}

// Write saves doc at the path named by fs and returns that path. The
// directory is created when missing; the file is replaced atomically.
func (w *Writer) Write(doc Document, fs fields.FieldSet) (string, error) {
	dir, file := w.naming.Resolve(fs, w.base)

	if n := w.written[file]; n > 0 {
		if w.failOnCollision {
			return "", &errs.WriteError{Path: file, Err: errs.ErrCollision}
		}
		logger.Warn("Overwriting file written earlier in this batch", "file", file, "previous_writes", n)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &errs.WriteError{Path: dir, Err: err}
	}
	if err := writeAtomic(file, doc); err != nil {
		return "", &errs.WriteError{Path: file, Err: err}
	}

	w.written[file]++
	logger.Info("Saved presentation", "file", file, "folder", dir)
	return file, nil
}

// writeAtomic writes to a temp file in the destination directory and
// renames it over dest.
func writeAtomic(dest string, doc Document) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = doc.Save(tmp); err != nil {
		return fmt.Errorf("serializing presentation: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}
