package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/todoapp/internal/model"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

const (
	BackendCBOR   = "cbor"
	BackendSQLite = "sqlite"
)

// Repository persists the whole container. Load on a store that has never
// been written returns an empty container.
type Repository interface {
	Load(ctx context.Context) (*model.Container, error)
	Save(ctx context.Context, c *model.Container) error
	Close() error
}

func Open(backend, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendCBOR:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
