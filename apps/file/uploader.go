// apps/file/uploader.go
//
// Disk side of the file app: extension allow-list, size cap, collision-free
// naming, and removal.

package file

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	errExtension = errors.New("file: extension not allowed")
	errTooLarge  = errors.New("file: exceeds size cap")
)

// uploader writes incoming files under dir.
type uploader struct {
	dir        string
	allowedExt []string // lowercase, without dot; empty = allow all
	maxBytes   int64
}

func newUploader(dir string, allowedExt []string, maxBytes int64) *uploader {
	return &uploader{dir: dir, allowedExt: allowedExt, maxBytes: maxBytes}
}

// save stores the uploaded part and returns the path relative to the
// upload dir.  Names are prefixed with a timestamp so re-uploads of the
// same filename never collide.
func (u *uploader) save(fh *multipart.FileHeader) (string, error) {
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return "", errTooLarge
	}

	name := sanitizeName(fh.Filename)
	if !u.extAllowed(name) {
		return "", errExtension
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", err
	}

	rel := fmt.Sprintf("%d_%s", time.Now().UnixNano(), name)
	dst, err := os.OpenFile(filepath.Join(u.dir, rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return rel, nil
}

// remove deletes a previously saved file.  A missing file is not an error;
// the database record is the source of truth.
func (u *uploader) remove(rel string) error {
	p := filepath.Join(u.dir, filepath.Base(rel))
	err := os.Remove(p)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (u *uploader) extAllowed(name string) bool {
	if len(u.allowedExt) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, a := range u.allowedExt {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// sanitizeName strips directories and anything outside a conservative
// character set.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		out = "file"
	}
	return out
}
