package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/indigo-web/microserve/http"
)

// uploads stores uploaded files into a directory. Connections are served concurrently,
// so every upload in progress is tracked by its own state.
type uploads struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
	files  map[*http.Upload]*os.File
}

func newUploads(dir string, logger *slog.Logger) (*uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &uploads{
		dir:    dir,
		logger: logger,
		files:  make(map[*http.Upload]*os.File),
	}, nil
}

func (u *uploads) Handle(path string, upload *http.Upload) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch upload.Status {
	case http.UploadStart:
		name := filepath.Base(upload.Filename)
		if name == "." || name == string(filepath.Separator) {
			return
		}

		f, err := os.Create(filepath.Join(u.dir, name))
		if err != nil {
			u.logger.Warn("cannot store upload", slog.String("path", path), slog.String("error", err.Error()))
			return
		}

		u.files[upload] = f
	case http.UploadWrite:
		if f, ok := u.files[upload]; ok {
			if _, err := f.Write(upload.Chunk()); err != nil {
				u.logger.Warn("cannot write upload", slog.String("file", f.Name()), slog.String("error", err.Error()))
			}
		}
	case http.UploadEnd:
		if f, ok := u.files[upload]; ok {
			delete(u.files, upload)
			_ = f.Close()
			u.logger.Info("file uploaded",
				slog.String("file", f.Name()),
				slog.String("type", upload.Type),
				slog.Int("size", upload.TotalSize),
			)
		}
	case http.UploadAborted:
		if f, ok := u.files[upload]; ok {
			delete(u.files, upload)
			_ = f.Close()
			_ = os.Remove(f.Name())
			u.logger.Warn("upload aborted", slog.String("file", f.Name()))
		}
	}
}
