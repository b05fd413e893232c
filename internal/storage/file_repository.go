package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/todoapp/internal/model"
)

// FileRepository keeps the container as one CBOR snapshot file. Saves write
// a sibling temp file and rename it over the target.
type FileRepository struct {
	path string
}

func OpenFile(path string) (*FileRepository, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: data path is empty")
	}
	return &FileRepository{path: trimmed}, nil
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Load(ctx context.Context) (*model.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewContainer(), nil
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if len(raw) == 0 {
		return model.NewContainer(), nil
	}
	snap, err := unmarshalSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("storage: data file version %d is newer than supported %d", snap.Version, snapshotVersion)
	}
	return containerOf(snap.Items)
}

func (r *FileRepository) Save(ctx context.Context, c *model.Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := marshalSnapshot(snapshotOf(c))
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	dir := filepath.Dir(r.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (r *FileRepository) Close() error {
	return nil
}
