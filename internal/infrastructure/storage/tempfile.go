package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

// TempStore stages uploads on local disk until the form is confirmed,
// then hands them to the permanent FileStorage.
type TempStore struct {
	dir    string
	perm   ports.FileStorage
	logger zerolog.Logger
}

func NewTempStore(dir string, perm ports.FileStorage, logger zerolog.Logger) (*TempStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	return &TempStore{dir: dir, perm: perm, logger: logger}, nil
}

func (s *TempStore) Stage(ctx context.Context, originalName string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, cleanName(originalName))
	if err := writeFile(ctx, path, r); err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	s.logger.Debug().Str("path", path).Msg("upload staged")
	return path, nil
}

func (s *TempStore) Promote(ctx context.Context, stagedPath string) (string, error) {
	path := s.resolve(stagedPath)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", domain.ErrStagedFileMissing
	}
	if err != nil {
		return "", fmt.Errorf("open staged upload: %w", err)
	}

	key, err := s.perm.Put(ctx, filepath.Base(path), f)
	_ = f.Close()
	if err != nil {
		return "", fmt.Errorf("promote upload: %w", err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove promoted upload")
	}
	s.logger.Info().Str("key", key).Msg("upload promoted")
	return key, nil
}

func (s *TempStore) Discard(_ context.Context, stagedPath string) error {
	if stagedPath == "" {
		return nil
	}
	if err := os.Remove(s.resolve(stagedPath)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("discard upload: %w", err)
	}
	return nil
}

// resolve keeps session-supplied paths inside the staging directory.
func (s *TempStore) resolve(stagedPath string) string {
	return filepath.Join(s.dir, cleanName(stagedPath))
}
