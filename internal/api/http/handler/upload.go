package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtroode/vidtube-server/internal/model"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before the rest spills to temporary files.
const multipartMemory = 1 << 20

const maxExtensionLen = 10

// stagedUploads holds the fields and files of a multipart request. Files are
// copied into the upload directory so that the blob store can consume them
// by path.
type stagedUploads struct {
	form  *multipart.Form
	paths map[string]string
}

// stageUploads parses a multipart body and stages at most one file per named
// field. The caller must call Cleanup.
func stageUploads(w http.ResponseWriter, r *http.Request, opts Options, fields ...string) (*stagedUploads, error) {
	if opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			return nil, err
		case errors.Is(err, http.ErrNotMultipart):
			return nil, model.NewErrValidation("Request must be multipart/form-data")
		default:
			return nil, model.NewErrValidation("Invalid multipart form")
		}
	}

	staged := &stagedUploads{form: r.MultipartForm, paths: make(map[string]string, len(fields))}
	for _, field := range fields {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		if len(headers) > 1 {
			staged.Cleanup()
			return nil, model.NewErrValidation("Only one %s file is allowed", field)
		}

		path, err := stageFile(opts.UploadTempDir, headers[0])
		if err != nil {
			staged.Cleanup()
			return nil, err
		}
		staged.paths[field] = path
	}

	return staged, nil
}

// Path returns the staged location of the file sent in field, or "".
func (s *stagedUploads) Path(field string) string {
	return s.paths[field]
}

// Value returns the first value of a plain form field.
func (s *stagedUploads) Value(field string) string {
	if s.form == nil {
		return ""
	}
	if values := s.form.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Cleanup removes staged files that were not consumed along with any
// temporary files created by the multipart parser.
func (s *stagedUploads) Cleanup() {
	for _, path := range s.paths {
		_ = os.Remove(path)
	}
	if s.form != nil {
		_ = s.form.RemoveAll()
	}
}

func stageFile(dir string, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.CreateTemp(dir, "upload-*"+safeExtension(header.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to stage uploaded file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to stage uploaded file: %w", err)
	}

	return dst.Name(), nil
}

// safeExtension keeps the client's extension only when it is short and
// alphanumeric.
func safeExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > maxExtensionLen {
		return ""
	}
	for _, c := range ext[1:] {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return ext
}
