package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pothole-tracker/internal/domain/entity"
	"pothole-tracker/internal/domain/port"
)

// FileImageStore сохраняет размеченные снимки в локальный каталог
type FileImageStore struct {
	mu          sync.Mutex
	dir         string
	keepHistory bool
}

// NewFileImageStore создаёт каталог для снимков
func NewFileImageStore(dir string, keepHistory bool) (*FileImageStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileImageStore{dir: dir, keepHistory: keepHistory}, nil
}

// Dir возвращает каталог снимков
func (s *FileImageStore) Dir() string {
	return s.dir
}

// Save пишет JPEG и возвращает путь к нему в виде dir/name.
// Файл сначала пишется во временный, чтобы читатели не увидели его недописанным.
func (s *FileImageStore) Save(ctx context.Context, data []byte, at time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("store image: %w", entity.ErrInvalidImage)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.uniqueName(at)
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*.jpg")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return filepath.ToSlash(target), nil
}

// uniqueName добавляет счётчик, если снимок с таким временем уже есть
func (s *FileImageStore) uniqueName(at time.Time) string {
	name := imageName(at, s.keepHistory)
	if !s.keepHistory {
		return name
	}

	base := strings.TrimSuffix(name, ".jpg")
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.dir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s-%d.jpg", base, i)
	}
}

var _ port.ImageStore = (*FileImageStore)(nil)
