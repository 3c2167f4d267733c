package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"topic-quiz-service/internal/domain"
)

// DefaultMaxSize caps uploads when no limit is configured.
const DefaultMaxSize = 10 << 20

// DefaultAllowedTypes lists the extensions accepted for question documents.
var DefaultAllowedTypes = []string{".doc", ".docx"}

// StoredFile describes an accepted upload.
type StoredFile struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// UploadStore saves question documents to a directory as
// <unix-millis>-<original basename>.
type UploadStore struct {
	dir     string
	maxSize int64
	allowed map[string]struct{}
	clock   func() time.Time
}

func NewUploadStore(dir string, maxSize int64, allowedTypes []string) *UploadStore {
	if dir == "" {
		dir = "uploads"
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, ext := range allowedTypes {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return &UploadStore{dir: dir, maxSize: maxSize, allowed: allowed, clock: time.Now}
}

// MaxSize is the largest accepted upload in bytes.
func (s *UploadStore) MaxSize() int64 {
	return s.maxSize
}

// Save writes r under a timestamped name. size is the declared length; the
// copy is still capped in case the declaration lies.
func (s *UploadStore) Save(name string, size int64, r io.Reader) (StoredFile, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return StoredFile{}, fmt.Errorf("%w: missing file name", domain.ErrUnsupportedUpload)
	}
	ext := strings.ToLower(filepath.Ext(base))
	if _, ok := s.allowed[ext]; !ok {
		return StoredFile{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedUpload, ext)
	}
	if size > s.maxSize {
		return StoredFile{}, domain.ErrUploadTooLarge
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	filename := strconv.FormatInt(s.clock().UnixMilli(), 10) + "-" + base
	path := filepath.Join(s.dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create upload: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > s.maxSize {
		err = domain.ErrUploadTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		return StoredFile{}, err
	}
	return StoredFile{Filename: filename, Path: path}, nil
}
